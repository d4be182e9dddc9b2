package speech

import (
	"errors"
	"fmt"
	"math"
)

// Tempo window parameters, in milliseconds.
const (
	tempoWindowMs = 40
	tempoOverlap  = 0.5
)

// ErrTempoRange is returned for speeds outside [0.5, 2.0].
var ErrTempoRange = errors.New("tempo: speed out of range")

// Tempo time-compresses (speed > 1) or stretches (speed < 1) the clip
// without changing pitch, using Hann-windowed overlap-add. A speed of 1
// returns the clip unchanged.
func Tempo(p PCM, speed float64) (PCM, error) {
	if speed == 1 {
		return p, nil
	}
	if speed < 0.5 || speed > 2.0 || math.IsNaN(speed) {
		return PCM{}, fmt.Errorf("%w: %.2f", ErrTempoRange, speed)
	}
	win := p.SampleRate * tempoWindowMs / 1000
	if win < 16 {
		return PCM{}, fmt.Errorf("tempo: sample rate %d too low", p.SampleRate)
	}
	if len(p.Samples) < 2*win {
		return PCM{}, errors.New("tempo: clip shorter than two analysis windows")
	}

	synHop := int(float64(win) * (1 - tempoOverlap))
	anaHop := int(float64(synHop) * speed)
	if anaHop < 1 {
		anaHop = 1
	}

	window := make([]float64, win)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(win-1))
	}

	frames := (len(p.Samples)-win)/anaHop + 1
	outLen := (frames-1)*synHop + win
	acc := make([]float64, outLen)
	norm := make([]float64, outLen)

	for f := 0; f < frames; f++ {
		in := f * anaHop
		out := f * synHop
		for i := 0; i < win; i++ {
			w := window[i]
			acc[out+i] += float64(p.Samples[in+i]) * w
			norm[out+i] += w
		}
	}

	samples := make([]int16, outLen)
	for i := range samples {
		if norm[i] > 1e-6 {
			samples[i] = clamp16(int(math.Round(acc[i] / norm[i])))
		}
	}
	return PCM{Samples: samples, SampleRate: p.SampleRate}, nil
}
