package remix

import (
	"strconv"
	"strings"
)

// StageKind names an effect processor.
type StageKind string

// Effect kinds available to the catalog.
const (
	KindReverb     StageKind = "reverb"
	KindPitchShift StageKind = "pitch_shift"
	KindLowpass    StageKind = "lowpass"
	KindHighpass   StageKind = "highpass"
	KindDistortion StageKind = "distortion"
	KindDelay      StageKind = "delay"
	KindChorus     StageKind = "chorus"
	KindPhaser     StageKind = "phaser"
	KindCompressor StageKind = "compressor"
)

// Stage parameter names
const (
	ParamRoomSize      = "room_size"
	ParamDamping       = "damping"
	ParamWetLevel      = "wet_level"
	ParamDryLevel      = "dry_level"
	ParamWidth         = "width"
	ParamSemitones     = "semitones"
	ParamCutoffHz      = "cutoff_frequency_hz"
	ParamDriveDB       = "drive_db"
	ParamDelaySeconds  = "delay_seconds"
	ParamFeedback      = "feedback"
	ParamMix           = "mix"
	ParamRateHz        = "rate_hz"
	ParamDepth         = "depth"
	ParamCentreDelayMs = "centre_delay_ms"
	ParamCentreHz      = "centre_frequency_hz"
	ParamThresholdDB   = "threshold_db"
	ParamRatio         = "ratio"
	ParamAttackMs      = "attack_ms"
	ParamReleaseMs     = "release_ms"
)

// Param is one resolved stage parameter.
type Param struct {
	Name  string
	Value float64
}

// Stage is an immutable effect description: a kind plus every parameter the
// processor needs, defaults included. It holds no processing state.
type Stage struct {
	kind   StageKind
	params []Param
}

func newStage(kind StageKind, params ...Param) Stage {
	return Stage{kind: kind, params: params}
}

// Kind returns the effect kind.
func (s Stage) Kind() StageKind {
	return s.kind
}

// Param looks up a parameter by name.
func (s Stage) Param(name string) (float64, bool) {
	for _, p := range s.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

// Params returns a copy of the parameter list in declaration order.
func (s Stage) Params() []Param {
	return append([]Param(nil), s.params...)
}

// param returns a parameter known to be set by the stage's constructor.
func (s Stage) param(name string) float64 {
	v, _ := s.Param(name)
	return v
}

// String renders the stage as kind(name=value, ...).
func (s Stage) String() string {
	var b strings.Builder
	b.WriteString(string(s.kind))
	b.WriteByte('(')
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p.Value, 'g', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}

// Reverb returns a room reverb with the given size and wet level. Damping,
// dry level and width take the stock values 0.5, 0.4 and 1.0.
func Reverb(roomSize, wetLevel float64) Stage {
	return newStage(KindReverb,
		Param{ParamRoomSize, roomSize},
		Param{ParamDamping, 0.5},
		Param{ParamWetLevel, wetLevel},
		Param{ParamDryLevel, 0.4},
		Param{ParamWidth, 1.0},
	)
}

// PitchShift shifts pitch by whole or fractional semitones without changing
// duration.
func PitchShift(semitones float64) Stage {
	return newStage(KindPitchShift, Param{ParamSemitones, semitones})
}

// LowpassFilter is a first-order low-pass at cutoffHz.
func LowpassFilter(cutoffHz float64) Stage {
	return newStage(KindLowpass, Param{ParamCutoffHz, cutoffHz})
}

// HighpassFilter is a first-order high-pass at cutoffHz.
func HighpassFilter(cutoffHz float64) Stage {
	return newStage(KindHighpass, Param{ParamCutoffHz, cutoffHz})
}

// Distortion is tanh waveshaping after driveDB of gain.
func Distortion(driveDB float64) Stage {
	return newStage(KindDistortion, Param{ParamDriveDB, driveDB})
}

// Delay is a single half-mixed echo with no feedback.
func Delay(seconds float64) Stage {
	return newStage(KindDelay,
		Param{ParamDelaySeconds, seconds},
		Param{ParamFeedback, 0},
		Param{ParamMix, 0.5},
	)
}

// Chorus is a 1 Hz chorus at quarter depth around a 7 ms delay.
func Chorus() Stage {
	return newStage(KindChorus,
		Param{ParamRateHz, 1},
		Param{ParamDepth, 0.25},
		Param{ParamCentreDelayMs, 7},
		Param{ParamFeedback, 0},
		Param{ParamMix, 0.5},
	)
}

// Phaser is a six-stage phaser swept at rateHz around 1.3kHz.
func Phaser(rateHz float64) Stage {
	return newStage(KindPhaser,
		Param{ParamRateHz, rateHz},
		Param{ParamDepth, 0.5},
		Param{ParamCentreHz, 1300},
		Param{ParamFeedback, 0},
		Param{ParamMix, 0.5},
	)
}

// Compressor uses a 0 dB threshold at 1:1, which passes full-scale audio
// through unchanged.
func Compressor() Stage {
	return newStage(KindCompressor,
		Param{ParamThresholdDB, 0},
		Param{ParamRatio, 1},
		Param{ParamAttackMs, 1},
		Param{ParamReleaseMs, 100},
	)
}
