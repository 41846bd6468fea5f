package remix

import (
	"fmt"
	"strings"

	"github.com/tphakala/go-audio-remix/internal/effects"
)

// Chain is an immutable, ordered list of effect stages.
type Chain struct {
	stages []Stage
}

// NewChain builds a chain from stages in execution order.
func NewChain(stages ...Stage) Chain {
	return Chain{stages: append([]Stage(nil), stages...)}
}

// Stages returns a copy of the stage list.
func (c Chain) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Len returns the number of stages.
func (c Chain) Len() int {
	return len(c.stages)
}

// String renders the chain as [stage stage ...].
func (c Chain) String() string {
	parts := make([]string, len(c.stages))
	for i, s := range c.stages {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// processorFactory builds a fresh processor for one execution of a stage.
type processorFactory func(s Stage, sampleRate float64, quality Quality) (effects.Processor, error)

// processors maps each kind to its constructor. Read-only after init.
var processors = map[StageKind]processorFactory{
	KindReverb: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewReverb(sr, effects.ReverbParams{
			RoomSize: s.param(ParamRoomSize),
			Damping:  s.param(ParamDamping),
			WetLevel: s.param(ParamWetLevel),
			DryLevel: s.param(ParamDryLevel),
			Width:    s.param(ParamWidth),
		})
	},
	KindPitchShift: func(s Stage, _ float64, q Quality) (effects.Processor, error) {
		return effects.NewPitchShifter(s.param(ParamSemitones), q.engineQuality())
	},
	KindLowpass: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewLowpass(s.param(ParamCutoffHz), sr)
	},
	KindHighpass: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewHighpass(s.param(ParamCutoffHz), sr)
	},
	KindDistortion: func(s Stage, _ float64, _ Quality) (effects.Processor, error) {
		return effects.NewDistortion(s.param(ParamDriveDB))
	},
	KindDelay: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewDelay(sr, effects.DelayParams{
			Seconds:  s.param(ParamDelaySeconds),
			Feedback: s.param(ParamFeedback),
			Mix:      s.param(ParamMix),
		})
	},
	KindChorus: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewChorus(sr, effects.ChorusParams{
			RateHz:        s.param(ParamRateHz),
			Depth:         s.param(ParamDepth),
			CentreDelayMs: s.param(ParamCentreDelayMs),
			Feedback:      s.param(ParamFeedback),
			Mix:           s.param(ParamMix),
		})
	},
	KindPhaser: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewPhaser(sr, effects.PhaserParams{
			RateHz:   s.param(ParamRateHz),
			Depth:    s.param(ParamDepth),
			CentreHz: s.param(ParamCentreHz),
			Feedback: s.param(ParamFeedback),
			Mix:      s.param(ParamMix),
		})
	},
	KindCompressor: func(s Stage, sr float64, _ Quality) (effects.Processor, error) {
		return effects.NewCompressor(sr, effects.CompressorParams{
			ThresholdDB: s.param(ParamThresholdDB),
			Ratio:       s.param(ParamRatio),
			AttackMs:    s.param(ParamAttackMs),
			ReleaseMs:   s.param(ParamReleaseMs),
		})
	},
}

// Apply runs every stage in order over a copy of m and returns the result.
// m must be at the canonical sample rate; it is never modified. Frame and
// channel counts are preserved.
func (c Chain) Apply(m *Matrix, sampleRate int) (*Matrix, error) {
	return c.apply(m, sampleRate, DefaultQuality)
}

func (c Chain) apply(m *Matrix, sampleRate int, quality Quality) (*Matrix, error) {
	if sampleRate != CanonicalSampleRate {
		return nil, fmt.Errorf("%w: effect chain requires %d Hz input, got %d", ErrProcessing, CanonicalSampleRate, sampleRate)
	}

	out := m.Clone()
	for i, s := range c.stages {
		factory, ok := processors[s.kind]
		if !ok {
			return nil, fmt.Errorf("%w: stage %d: unknown effect %q", ErrProcessing, i, s.kind)
		}
		proc, err := factory(s, float64(sampleRate), quality)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %d (%s): %w", ErrProcessing, i, s.kind, err)
		}
		if err := proc.Process(out.channels); err != nil {
			return nil, fmt.Errorf("%w: stage %d (%s): %w", ErrProcessing, i, s.kind, err)
		}
	}
	return out, nil
}
