package indicator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
)

type cueKind int

const (
	cueStart cueKind = iota + 1
	cueStop
	cueComplete
	cueError
)

const (
	cueSampleRate = 16000
	cueToneGap    = 22 * time.Millisecond
	// cueRampMax caps the linear fade applied at both ends of a tone.
	cueRampMax = 5 * time.Millisecond
)

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

func tone(hz float64, ms int, volume float64) toneSpec {
	return toneSpec{frequencyHz: hz, duration: time.Duration(ms) * time.Millisecond, volume: volume}
}

// cueMelodies describes each cue. Rising melodies mark start and completion,
// falling ones mark stop and error.
var cueMelodies = map[cueKind][]toneSpec{
	cueStart:    {tone(880, 70, 0.18), tone(1175, 70, 0.18)},
	cueStop:     {tone(620, 120, 0.18)},
	cueComplete: {tone(659, 55, 0.16), tone(784, 55, 0.16), tone(1047, 90, 0.16)},
	cueError:    {tone(480, 75, 0.18), tone(360, 90, 0.18)},
}

var (
	cuePCMOnce sync.Once
	cuePCM     map[cueKind][]int16
)

// cueSamples returns the rendered PCM for kind, rendering every cue once.
func cueSamples(kind cueKind) []int16 {
	cuePCMOnce.Do(func() {
		cuePCM = make(map[cueKind][]int16, len(cueMelodies))
		for k, melody := range cueMelodies {
			cuePCM[k] = synthesizeCue(melody)
		}
	})
	return cuePCM[kind]
}

func emitCue(kind cueKind) error {
	samples := cueSamples(kind)
	if len(samples) == 0 {
		return nil
	}
	return playPCM(samples)
}

// playPCM plays mono 16kHz samples on the default sink and blocks until the
// stream drains.
func playPCM(samples []int16) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("mockello"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	src := &pcmSource{samples: samples}
	stream, err := client.NewPlayback(
		pulse.Int16Reader(src.read),
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("mockello interview cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}
	return nil
}

// pcmSource feeds a fixed buffer to a pulse playback stream.
type pcmSource struct {
	samples []int16
	offset  int
}

func (s *pcmSource) read(buf []int16) (int, error) {
	if s.offset >= len(s.samples) {
		return 0, pulse.EndOfData
	}
	n := copy(buf, s.samples[s.offset:])
	s.offset += n
	if s.offset >= len(s.samples) {
		return n, pulse.EndOfData
	}
	return n, nil
}

// synthesizeCue renders tones back to back with a short silence between them.
func synthesizeCue(parts []toneSpec) []int16 {
	if len(parts) == 0 {
		return nil
	}
	gap := make([]int16, samplesForDuration(cueToneGap))

	var pcm []int16
	for i, part := range parts {
		if i > 0 {
			pcm = append(pcm, gap...)
		}
		pcm = append(pcm, synthesizeTone(part)...)
	}
	return pcm
}

func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	ramp := min(n/10, samplesForDuration(cueRampMax))
	ramp = max(ramp, 1)

	step := 2 * math.Pi * spec.frequencyHz / cueSampleRate
	pcm := make([]int16, n)
	for i := range pcm {
		amp := spec.volume * envelope(i, n, ramp) * math.MaxInt16
		pcm[i] = int16(math.Round(math.Sin(step*float64(i)) * amp))
	}
	return pcm
}

// envelope is a trapezoid: linear fade in over ramp samples, flat, then
// linear fade out over the final ramp samples.
func envelope(i, n, ramp int) float64 {
	fadeIn := float64(i) / float64(ramp)
	fadeOut := float64(n-i-1) / float64(ramp)
	return min(1, fadeIn, fadeOut)
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
