package speech

import (
	"encoding/binary"
	"errors"
)

// PCM is mono signed 16-bit audio at SampleRate Hz.
type PCM struct {
	Samples    []int16
	SampleRate int
}

// Duration in seconds.
func (p PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// Bytes encodes the samples little-endian, the layout oto expects.
func (p PCM) Bytes() []byte {
	out := make([]byte, len(p.Samples)*2)
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// pcmFromBytes decodes interleaved little-endian 16-bit frames and
// downmixes them to mono.
func pcmFromBytes(b []byte, rate, channels int) (PCM, error) {
	if channels < 1 {
		return PCM{}, errors.New("pcm: channel count must be positive")
	}
	frame := 2 * channels
	n := len(b) / frame
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		var sum int
		for c := 0; c < channels; c++ {
			off := i*frame + c*2
			sum += int(int16(binary.LittleEndian.Uint16(b[off:])))
		}
		out[i] = int16(sum / channels)
	}
	return PCM{Samples: out, SampleRate: rate}, nil
}

// pcmFromInts downmixes interleaved integer samples of the given bit depth.
func pcmFromInts(data []int, rate, channels, bitDepth int) PCM {
	if channels < 1 {
		channels = 1
	}
	shift := bitDepth - 16
	n := len(data) / channels
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		var sum int
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		v := sum / channels
		switch {
		case shift > 0:
			v >>= shift
		case shift < 0:
			v <<= -shift
		}
		out[i] = clamp16(v)
	}
	return PCM{Samples: out, SampleRate: rate}
}

// Resample converts p to the target rate with linear interpolation.
func (p PCM) Resample(rate int) PCM {
	if p.SampleRate == rate || p.SampleRate == 0 || len(p.Samples) == 0 {
		return PCM{Samples: p.Samples, SampleRate: rate}
	}
	ratio := float64(p.SampleRate) / float64(rate)
	n := int(float64(len(p.Samples)) / ratio)
	out := make([]int16, n)
	last := len(p.Samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = p.Samples[last]
			continue
		}
		frac := pos - float64(j)
		a, b := float64(p.Samples[j]), float64(p.Samples[j+1])
		out[i] = clamp16(int(a + (b-a)*frac))
	}
	return PCM{Samples: out, SampleRate: rate}
}

// Concat joins clips, resampling each to the first clip's rate.
func Concat(clips ...PCM) PCM {
	if len(clips) == 0 {
		return PCM{SampleRate: SampleRate}
	}
	rate := clips[0].SampleRate
	total := 0
	for _, c := range clips {
		total += len(c.Samples)
	}
	out := make([]int16, 0, total)
	for _, c := range clips {
		out = append(out, c.Resample(rate).Samples...)
	}
	return PCM{Samples: out, SampleRate: rate}
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
