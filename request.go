package remix

import (
	"fmt"
	"math"
)

// Background is an optional layer mixed under the processed track.
// Empty Data means the layer is absent.
type Background struct {
	Data   []byte
	Volume float64 // [0, 1]; 1 is unity gain, toward 0 it falls to -30 dB, 0 mutes
}

// Request holds every parameter of one remix. A request is self-contained:
// nothing else influences the result except the random source.
type Request struct {
	// Primary is the encoded input track (WAV or MP3). Required.
	Primary []byte

	Texture  Background
	Ambience Background

	Mode     Mode
	Theme    Theme
	Surprise bool

	Pitch int // semitones, [-12, 12]

	// Speed is in [0.5, 2.0]. Zero is not rejected: it means unset and is
	// replaced by DefaultSpeed.
	Speed float64

	ReverbWet float64 // [0, 1], lofi mode only

	// Slowdown is in [0.5, 1.0] and applies to lofi mode only. Zero means
	// unset and is replaced by DefaultSlowdown.
	Slowdown float64

	// ManualSpeed makes Speed the final playback speed, ignoring the
	// mode's own speed factor.
	ManualSpeed bool

	// Rand overrides the Remixer's random source for this request.
	Rand RandomSource
}

// NewRequest returns a lofi request with default parameters.
func NewRequest(primary []byte) *Request {
	return &Request{
		Primary:   primary,
		Texture:   Background{Volume: DefaultTextureVolume},
		Ambience:  Background{Volume: DefaultAmbienceVolume},
		Mode:      ModeLofi,
		Speed:     DefaultSpeed,
		ReverbWet: DefaultReverbWet,
		Slowdown:  DefaultSlowdown,
	}
}

// withDefaults returns a copy with unset fields filled in. Only fields whose
// zero value is outside their range are treated as unset.
func (r *Request) withDefaults() *Request {
	out := *r
	if out.Speed == 0 {
		out.Speed = DefaultSpeed
	}
	if out.Slowdown == 0 {
		out.Slowdown = DefaultSlowdown
	}
	if out.Mode == "" {
		out.Mode = ModeLofi
	}
	return &out
}

// Validate reports the first field outside its contract.
func (r *Request) Validate() error {
	_, err := r.normalized()
	return err
}

// normalized applies defaults, canonicalizes mode and theme names and
// checks every range.
func (r *Request) normalized() (*Request, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil request", ErrParameter)
	}
	out := r.withDefaults()
	if len(out.Primary) == 0 {
		return nil, fmt.Errorf("%w: primary track is empty", ErrParameter)
	}

	mode, err := ParseMode(string(out.Mode))
	if err != nil {
		return nil, err
	}
	out.Mode = mode
	if out.Theme != "" {
		if out.Theme, err = ParseTheme(string(out.Theme)); err != nil {
			return nil, err
		}
	}

	if out.Pitch < MinPitch || out.Pitch > MaxPitch {
		return nil, fmt.Errorf("%w: pitch must be in [%d, %d]: %d", ErrParameter, MinPitch, MaxPitch, out.Pitch)
	}
	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"speed", out.Speed, MinSpeed, MaxSpeed},
		{"reverb wet", out.ReverbWet, 0, 1},
		{"slowdown", out.Slowdown, MinSlowdown, MaxSlowdown},
		{"texture volume", out.Texture.Volume, 0, 1},
		{"ambience volume", out.Ambience.Volume, 0, 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || c.v < c.lo || c.v > c.hi {
			return nil, fmt.Errorf("%w: %s must be in [%g, %g]: %g", ErrParameter, c.name, c.lo, c.hi, c.v)
		}
	}
	return out, nil
}
