package effects

import (
	"fmt"
	"math"
)

const maxDelaySeconds = 30.0

// DelayParams configures a feedback echo.
type DelayParams struct {
	Seconds  float64
	Feedback float64 // [0, 1)
	Mix      float64 // [0, 1], 0 is fully dry
}

// DefaultDelayParams returns a single half-mixed echo with no feedback.
func DefaultDelayParams(seconds float64) DelayParams {
	return DelayParams{Seconds: seconds, Mix: 0.5}
}

// Validate checks the parameter ranges.
func (p DelayParams) Validate() error {
	if p.Seconds <= 0 || p.Seconds > maxDelaySeconds {
		return fmt.Errorf("%w: delay time must be in (0, %g]: %f", ErrInvalidParameter, maxDelaySeconds, p.Seconds)
	}
	if p.Feedback < 0 || p.Feedback >= 1 {
		return fmt.Errorf("%w: delay feedback must be in [0, 1): %f", ErrInvalidParameter, p.Feedback)
	}
	return checkRange("delay mix", p.Mix, 0, 1)
}

type delayLine struct {
	buf      []float64
	idx      int
	feedback float64
	mix      float64
}

func (d *delayLine) processBlock(buf []float64) {
	for i, x := range buf {
		delayed := d.buf[d.idx]
		d.buf[d.idx] = x + delayed*d.feedback
		d.idx++
		if d.idx == len(d.buf) {
			d.idx = 0
		}
		buf[i] = mix(x, delayed, d.mix)
	}
}

// NewDelay creates a per-channel echo.
func NewDelay(sampleRate float64, p DelayParams) (Processor, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}
	size := max(1, int(math.Round(p.Seconds*sampleRate)))
	return &perChannel{factory: func() (monoProcessor, error) {
		return &delayLine{buf: make([]float64, size), feedback: p.Feedback, mix: p.Mix}, nil
	}}, nil
}
