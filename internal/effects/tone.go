package effects

import (
	"fmt"

	"github.com/tphakala/go-audio-remix/internal/filter"
)

// sectionFilter adapts a filter.Section to the per-channel interface.
type sectionFilter struct {
	s *filter.Section
}

func (f sectionFilter) processBlock(buf []float64) {
	f.s.ProcessBlock(buf)
}

// NewLowpass returns a 6 dB/octave low-pass filter at cutoff Hz.
func NewLowpass(cutoff, sampleRate float64) (Processor, error) {
	if _, err := filter.NewFirstOrderLowpass(cutoff, sampleRate); err != nil {
		return nil, fmt.Errorf("%w: lowpass: %v", ErrInvalidParameter, err)
	}
	return &perChannel{factory: func() (monoProcessor, error) {
		s, err := filter.NewFirstOrderLowpass(cutoff, sampleRate)
		return sectionFilter{s}, err
	}}, nil
}

// NewHighpass returns a 6 dB/octave high-pass filter at cutoff Hz.
func NewHighpass(cutoff, sampleRate float64) (Processor, error) {
	if _, err := filter.NewFirstOrderHighpass(cutoff, sampleRate); err != nil {
		return nil, fmt.Errorf("%w: highpass: %v", ErrInvalidParameter, err)
	}
	return &perChannel{factory: func() (monoProcessor, error) {
		s, err := filter.NewFirstOrderHighpass(cutoff, sampleRate)
		return sectionFilter{s}, err
	}}, nil
}
