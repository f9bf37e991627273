package capture

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
)

// Meter is a Surface exposing the input level of the bound device.
type Meter struct {
	level atomic.Uint64

	mu     sync.RWMutex
	device audio.Device
	bound  bool
}

func (m *Meter) Bind(device audio.Device) {
	m.mu.Lock()
	m.device = device
	m.bound = true
	m.mu.Unlock()
	m.level.Store(0)
}

func (m *Meter) Observe(pcm []byte) {
	m.level.Store(math.Float64bits(audio.Level(pcm)))
}

func (m *Meter) Unbind() {
	m.mu.Lock()
	m.device = audio.Device{}
	m.bound = false
	m.mu.Unlock()
	m.level.Store(0)
}

// Level returns the last observed RMS level in [0, 1].
func (m *Meter) Level() float64 {
	return math.Float64frombits(m.level.Load())
}

// Device returns the bound device and whether one is bound.
func (m *Meter) Device() (audio.Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.device, m.bound
}
