// Package effects implements the signal processors behind each effect
// stage. A processor owns all of its state and is built fresh for every
// run, so nothing leaks between tracks.
package effects

import (
	"errors"
	"fmt"
)

// Processor transforms planar audio (one slice per channel) in place.
// Implementations never change the number of channels or frames.
type Processor interface {
	Process(channels [][]float64) error
}

// ErrInvalidParameter is returned by constructors for out-of-range settings.
var ErrInvalidParameter = errors.New("invalid effect parameter")

// monoProcessor filters a single channel in place.
type monoProcessor interface {
	processBlock(buf []float64)
}

// perChannel runs an independent mono processor on every channel.
// The factory is called lazily so the channel count need not be known up
// front.
type perChannel struct {
	factory func() (monoProcessor, error)
	procs   []monoProcessor
}

func (p *perChannel) Process(channels [][]float64) error {
	for len(p.procs) < len(channels) {
		proc, err := p.factory()
		if err != nil {
			return err
		}
		p.procs = append(p.procs, proc)
	}
	for ch, buf := range channels {
		p.procs[ch].processBlock(buf)
	}
	return nil
}

func checkSampleRate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidParameter, sampleRate)
	}
	return nil
}

func checkRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be in [%g, %g]: %f", ErrInvalidParameter, name, lo, hi, v)
	}
	return nil
}

// mix blends a dry and a wet sample linearly: mix = 0 is fully dry.
func mix(dry, wet, amount float64) float64 {
	return dry*(1-amount) + wet*amount
}
