package audio

import (
	"encoding/binary"
	"math"
)

// Level returns the RMS energy of little-endian s16 PCM scaled to [0, 1].
func Level(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
		sum += s * s
	}
	rms := math.Sqrt(sum/float64(n)) / 32768
	if rms > 1 {
		return 1
	}
	return rms
}
