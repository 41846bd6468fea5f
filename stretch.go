package remix

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/engine"
)

// EffectiveSpeed returns the playback speed applied to the primary track.
// With ManualSpeed set the requested speed wins outright; otherwise it is
// scaled by the plan's speed factor.
func EffectiveSpeed(req *Request, plan Plan) float64 {
	if req.ManualSpeed {
		return req.Speed
	}
	return req.Speed * plan.SpeedFactor
}

// TimeStretch changes the duration of t by treating it as if it had been
// recorded at speed×44100 and resampling it back to 44100. Pitch moves with
// speed. Speeds within 1% of 1.0 return t unchanged.
//
// The output has round(frames/speed) frames.
func TimeStretch(t Track, speed float64, quality Quality) (Track, error) {
	if math.IsNaN(speed) || speed <= 0 {
		return Track{}, fmt.Errorf("%w: speed must be positive, got %g", ErrParameter, speed)
	}
	if math.Abs(speed-1) <= speedTolerance {
		return t, nil
	}

	r, err := engine.NewResampler(CanonicalSampleRate*speed, CanonicalSampleRate, quality.engineQuality())
	if err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	outFrames := int(math.Round(float64(t.Frames()) / speed))
	m := ToSamples(t)
	out := make([][]float64, m.Channels())
	for ch, c := range m.channels {
		out[ch] = r.ResampleTo(c, outFrames)
	}
	return FromSamples(MatrixFromChannels(out...), t.SampleRate), nil
}
