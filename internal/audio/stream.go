package audio

import (
	"io"
	"sync"
	"sync/atomic"
)

const (
	// SampleRate is the capture rate used for every backend.
	SampleRate = 16000
	// ChunkSize is 20ms of 16kHz mono s16 audio.
	ChunkSize = 640
)

// Stream is a running capture delivering fixed-size PCM chunks.
type Stream interface {
	Device() Device
	Chunks() <-chan []byte
	BytesCaptured() int64
	// Stop ends capture, flushes residual PCM, and closes Chunks exactly once.
	Stop() error
}

// chunker slices backend frames into ChunkSize pieces and owns the chunk
// channel lifecycle shared by all backends.
type chunker struct {
	chunks chan []byte
	stopCh chan struct{}

	mu       sync.Mutex
	pending  []byte
	stopped  bool
	inflight sync.WaitGroup
	bytes    atomic.Int64
}

func newChunker(buffer int) *chunker {
	return &chunker{
		chunks: make(chan []byte, buffer),
		stopCh: make(chan struct{}),
	}
}

// write accepts backend frames. It returns io.EOF once the chunker is closed.
func (c *chunker) write(frames []byte) (int, error) {
	if len(frames) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return 0, io.EOF
	}
	c.inflight.Add(1)
	c.pending = append(c.pending, frames...)
	var ready [][]byte
	for len(c.pending) >= ChunkSize {
		chunk := make([]byte, ChunkSize)
		copy(chunk, c.pending)
		c.pending = c.pending[ChunkSize:]
		ready = append(ready, chunk)
	}
	c.mu.Unlock()
	defer c.inflight.Done()

	c.bytes.Add(int64(len(frames)))
	for _, chunk := range ready {
		select {
		case <-c.stopCh:
			return 0, io.EOF
		case c.chunks <- chunk:
		}
	}
	return len(frames), nil
}

// begin marks the chunker stopped. It returns false when already stopped.
func (c *chunker) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.stopped = true
	close(c.stopCh)
	return true
}

// finish waits for in-flight writes, flushes the residual tail, and closes Chunks.
func (c *chunker) finish() {
	c.inflight.Wait()

	c.mu.Lock()
	tail := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(tail) > 0 {
		select {
		case c.chunks <- tail:
		default:
		}
	}
	close(c.chunks)
}

// writerFunc adapts a function to io.Writer.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
