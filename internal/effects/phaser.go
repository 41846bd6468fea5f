package effects

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/filter"
)

const (
	phaserStages         = 6
	phaserMinFreq        = 20.0
	phaserMaxFreq        = 20000.0
	phaserNyquistLimit   = 0.49
	phaserDepthScale     = 0.5
	phaserUpdateInterval = 4
	phaserMaxRateHz      = 100.0
)

// PhaserParams configures a swept all-pass phaser.
type PhaserParams struct {
	RateHz   float64
	Depth    float64 // [0, 1]
	CentreHz float64
	Feedback float64 // (-1, 1)
	Mix      float64 // [0, 1]
}

// DefaultPhaserParams returns a half-depth phaser around 1.3 kHz.
func DefaultPhaserParams(rateHz float64) PhaserParams {
	return PhaserParams{RateHz: rateHz, Depth: 0.5, CentreHz: 1300, Feedback: 0, Mix: 0.5}
}

// Validate checks the parameter ranges.
func (p PhaserParams) Validate() error {
	if err := checkRange("phaser rate", p.RateHz, 0, phaserMaxRateHz); err != nil {
		return err
	}
	if err := checkRange("phaser depth", p.Depth, 0, 1); err != nil {
		return err
	}
	if err := checkRange("phaser centre", p.CentreHz, phaserMinFreq, phaserMaxFreq); err != nil {
		return err
	}
	if p.Feedback <= -1 || p.Feedback >= 1 {
		return fmt.Errorf("%w: phaser feedback must be in (-1, 1): %f", ErrInvalidParameter, p.Feedback)
	}
	return checkRange("phaser mix", p.Mix, 0, 1)
}

type phaserVoice struct {
	p          PhaserParams
	sampleRate float64
	maxFreq    float64
	normCentre float64

	stages  [phaserStages]filter.Section
	phase   float64
	last    float64
	counter int
}

// sweep maps the LFO onto a logarithmic frequency axis between
// phaserMinFreq and maxFreq.
func (v *phaserVoice) sweep(lfo float64) float64 {
	pos := v.normCentre + v.p.Depth*phaserDepthScale*lfo
	pos = math.Max(0, math.Min(1, pos))
	return phaserMinFreq * math.Pow(v.maxFreq/phaserMinFreq, pos)
}

func (v *phaserVoice) processBlock(buf []float64) {
	inc := v.p.RateHz / v.sampleRate
	for i, x := range buf {
		if v.counter == 0 {
			freq := v.sweep(math.Sin(2 * math.Pi * v.phase))
			for s := range v.stages {
				v.stages[s].SetAllpass(freq, v.sampleRate)
			}
		}
		v.counter = (v.counter + 1) % phaserUpdateInterval
		v.phase += inc
		if v.phase >= 1 {
			v.phase--
		}

		y := x + v.last*v.p.Feedback
		for s := range v.stages {
			y = v.stages[s].ProcessSample(y)
		}
		v.last = y
		buf[i] = mix(x, y, v.p.Mix)
	}
}

// NewPhaser creates a per-channel six-stage phaser.
func NewPhaser(sampleRate float64, p PhaserParams) (Processor, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("phaser: %w", err)
	}
	maxFreq := math.Min(phaserMaxFreq, phaserNyquistLimit*sampleRate)
	centre := math.Min(p.CentreHz, maxFreq)
	normCentre := math.Log(centre/phaserMinFreq) / math.Log(maxFreq/phaserMinFreq)

	return &perChannel{factory: func() (monoProcessor, error) {
		return &phaserVoice{p: p, sampleRate: sampleRate, maxFreq: maxFreq, normCentre: normCentre}, nil
	}}, nil
}
