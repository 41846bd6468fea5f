package remix

import (
	"fmt"
	"slices"
	"strings"
)

// Mode selects how the effect chain is built.
type Mode string

// Remix modes.
const (
	ModeLofi      Mode = "lofi"
	ModeChipmunk  Mode = "chipmunk"
	ModeNightcore Mode = "nightcore"
	ModeThemed    Mode = "themed"
)

// Theme names a fixed effect recipe used by ModeThemed.
type Theme string

// Catalog themes.
const (
	ThemeDreamy     Theme = "dreamy"
	ThemeVintage    Theme = "vintage"
	ThemeGlitchy    Theme = "glitchy"
	ThemeHyperspeed Theme = "hyperspeed"
	ThemeUnderwater Theme = "underwater"
	ThemeRadio      Theme = "radio"
	ThemeAlien      Theme = "alien"
	ThemeSpooky     Theme = "spooky"
)

// DefaultTheme is used when ModeThemed is requested without a theme.
const DefaultTheme = ThemeDreamy

// defaultRoomSize is the reverb room used when only a wet level is given.
const defaultRoomSize = 0.5

// RandomSource supplies the uniform draws used by surprise selection and
// the alien theme. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// Plan is a resolved effect recipe.
type Plan struct {
	Mode  Mode
	Theme Theme // empty unless Mode is ModeThemed
	Chain Chain

	// SpeedFactor multiplies the requested speed unless the request sets
	// ManualSpeed.
	SpeedFactor float64
}

type themeEntry struct {
	description string
	build       func(rng RandomSource) (Chain, float64)
}

func fixedTheme(speed float64, stages ...Stage) func(RandomSource) (Chain, float64) {
	chain := NewChain(stages...)
	return func(RandomSource) (Chain, float64) {
		return chain, speed
	}
}

var (
	alienPitches = []float64{-12, 12}
	alienSpeeds  = []float64{0.75, 1.25}
)

// catalog is read-only after init.
var catalog = map[Theme]themeEntry{
	ThemeDreamy: {
		description: "washed-out reverb, slightly lowered pitch, soft top end",
		build:       fixedTheme(0.85, Reverb(0.8, 0.5), PitchShift(-2), LowpassFilter(8000)),
	},
	ThemeVintage: {
		description: "small room, warm saturation, band-limited like an old record",
		build:       fixedTheme(0.90, Reverb(0.3, 0.2), Distortion(10), LowpassFilter(6000), HighpassFilter(150)),
	},
	ThemeGlitchy: {
		description: "fast phaser and chorus into grit",
		build:       fixedTheme(1.10, Phaser(2.0), Chorus(), Distortion(8)),
	},
	ThemeHyperspeed: {
		description: "sped up and pitched up with a slap-back echo",
		build:       fixedTheme(1.30, Chorus(), PitchShift(5), Delay(0.1)),
	},
	ThemeUnderwater: {
		description: "muffled and cavernous",
		build:       fixedTheme(0.80, LowpassFilter(2000), Reverb(0.9, 0.4), Compressor()),
	},
	ThemeRadio: {
		description: "narrow AM-radio band with overdrive",
		build:       fixedTheme(1.00, HighpassFilter(400), LowpassFilter(4000), Distortion(12), Delay(0.05)),
	},
	ThemeAlien: {
		description: "an octave up or down at a random speed",
		build: func(rng RandomSource) (Chain, float64) {
			pitch := alienPitches[rng.IntN(len(alienPitches))]
			speed := alienSpeeds[rng.IntN(len(alienSpeeds))]
			return NewChain(PitchShift(pitch), Chorus()), speed
		},
	},
	ThemeSpooky: {
		description: "huge dark reverb, lowered pitch and long echoes",
		build:       fixedTheme(0.85, Reverb(0.9, 0.6), PitchShift(-4), Delay(0.3), LowpassFilter(3000)),
	},
}

var sortedThemes = func() []Theme {
	themes := make([]Theme, 0, len(catalog))
	for t := range catalog {
		themes = append(themes, t)
	}
	slices.Sort(themes)
	return themes
}()

var modes = []Mode{ModeLofi, ModeChipmunk, ModeNightcore, ModeThemed}

// Themes returns every catalog theme in sorted order.
func Themes() []Theme {
	return slices.Clone(sortedThemes)
}

// Modes returns every remix mode.
func Modes() []Mode {
	return slices.Clone(modes)
}

// Describe returns a one-line description of a theme.
func Describe(theme Theme) (string, bool) {
	e, ok := catalog[theme]
	return e.description, ok
}

// ParseTheme matches a theme name case-insensitively.
func ParseTheme(name string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := catalog[t]; !ok {
		return "", fmt.Errorf("%w: unknown theme %q", ErrParameter, name)
	}
	return t, nil
}

// ParseMode matches a mode name case-insensitively. Empty means lofi.
func ParseMode(name string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(name)))
	if m == "" {
		return ModeLofi, nil
	}
	if !slices.Contains(modes, m) {
		return "", fmt.Errorf("%w: unknown mode %q", ErrParameter, name)
	}
	return m, nil
}

// Resolve builds the plan for a validated request. Random draws happen in a
// fixed order (surprise theme, then alien pitch, then alien speed) so a
// seeded source reproduces the same plan.
func Resolve(req *Request, rng RandomSource) (Plan, error) {
	switch req.Mode {
	case ModeLofi, "":
		return Plan{
			Mode:        ModeLofi,
			Chain:       NewChain(PitchShift(float64(req.Pitch)), Reverb(defaultRoomSize, req.ReverbWet)),
			SpeedFactor: req.Slowdown,
		}, nil

	case ModeChipmunk:
		return Plan{
			Mode:        ModeChipmunk,
			Chain:       NewChain(PitchShift(float64(pitchOr(req.Pitch, chipmunkDefaultPitch)))),
			SpeedFactor: 1,
		}, nil

	case ModeNightcore:
		return Plan{
			Mode:        ModeNightcore,
			Chain:       NewChain(PitchShift(float64(pitchOr(req.Pitch, nightcoreDefaultPitch)))),
			SpeedFactor: nightcoreSpeed,
		}, nil

	case ModeThemed:
		theme := req.Theme
		switch {
		case req.Surprise:
			theme = sortedThemes[rng.IntN(len(sortedThemes))]
		case theme == "":
			theme = DefaultTheme
		}
		entry, ok := catalog[theme]
		if !ok {
			return Plan{}, fmt.Errorf("%w: unknown theme %q", ErrParameter, theme)
		}
		chain, speed := entry.build(rng)
		return Plan{Mode: ModeThemed, Theme: theme, Chain: chain, SpeedFactor: speed}, nil
	}
	return Plan{}, fmt.Errorf("%w: unknown mode %q", ErrParameter, req.Mode)
}

func pitchOr(pitch, fallback int) int {
	if pitch == 0 {
		return fallback
	}
	return pitch
}
