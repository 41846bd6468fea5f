package effects

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/mathutil"
)

const (
	compressorMinThresholdDB = -100.0
	compressorMaxRatio       = 100.0
	compressorMaxTimeMs      = 5000.0
	// Times below one microsecond make the detector follow instantly.
	ballisticsMinTimeMs = 1e-3
)

// CompressorParams configures a feed-forward peak compressor.
type CompressorParams struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
}

// DefaultCompressorParams returns a compressor at 0 dB threshold and 1:1
// ratio, which leaves full-scale audio untouched.
func DefaultCompressorParams() CompressorParams {
	return CompressorParams{ThresholdDB: 0, Ratio: 1, AttackMs: 1, ReleaseMs: 100}
}

// Validate checks the parameter ranges.
func (p CompressorParams) Validate() error {
	if err := checkRange("compressor threshold", p.ThresholdDB, compressorMinThresholdDB, 0); err != nil {
		return err
	}
	if err := checkRange("compressor ratio", p.Ratio, 1, compressorMaxRatio); err != nil {
		return err
	}
	if err := checkRange("compressor attack", p.AttackMs, 0, compressorMaxTimeMs); err != nil {
		return err
	}
	return checkRange("compressor release", p.ReleaseMs, 0, compressorMaxTimeMs)
}

func ballisticsCoefficient(ms, sampleRate float64) float64 {
	if ms < ballisticsMinTimeMs {
		return 0
	}
	return math.Exp(-2 * math.Pi * 1000 / (ms * sampleRate))
}

type compressorChannel struct {
	threshold    float64
	ratioInverse float64
	attack       float64
	release      float64
	env          float64
}

func (c *compressorChannel) processBlock(buf []float64) {
	for i, x := range buf {
		level := math.Abs(x)
		cte := c.release
		if level > c.env {
			cte = c.attack
		}
		c.env = level + cte*(c.env-level)

		if c.env > c.threshold {
			buf[i] = x * math.Pow(c.env/c.threshold, c.ratioInverse-1)
		}
	}
}

// NewCompressor creates a per-channel compressor.
func NewCompressor(sampleRate float64, p CompressorParams) (Processor, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("compressor: %w", err)
	}
	threshold := mathutil.DBToGain(p.ThresholdDB)
	attack := ballisticsCoefficient(p.AttackMs, sampleRate)
	release := ballisticsCoefficient(p.ReleaseMs, sampleRate)
	return &perChannel{factory: func() (monoProcessor, error) {
		return &compressorChannel{
			threshold:    threshold,
			ratioInverse: 1 / p.Ratio,
			attack:       attack,
			release:      release,
		}, nil
	}}, nil
}
