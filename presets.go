package remix

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a set of slider values for one mode or theme.
type Preset struct {
	Pitch          int     `yaml:"pitch" json:"pitch"`
	Speed          float64 `yaml:"speed" json:"speed"`
	ReverbWet      float64 `yaml:"reverb" json:"reverb"`
	TextureVolume  float64 `yaml:"crackle_vol" json:"crackle_vol"`
	AmbienceVolume float64 `yaml:"ambient_vol" json:"ambient_vol"`
}

// Presets is a read-only table of named presets.
type Presets struct {
	byName map[string]Preset
	names  []string
}

// DefaultPresets returns the built-in table.
var DefaultPresets = sync.OnceValue(func() *Presets {
	p, err := ParsePresets(builtinPresets)
	if err != nil {
		panic(fmt.Sprintf("remix: built-in presets: %v", err))
	}
	return p
})

// ParsePresets parses a YAML mapping of preset name to values. Names are
// lowercased, and every preset must pass request validation.
func ParsePresets(data []byte) (*Presets, error) {
	var raw map[string]Preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: presets: %w", ErrParameter, err)
	}
	p := &Presets{byName: make(map[string]Preset, len(raw))}
	for name, v := range raw {
		key := strings.ToLower(name)
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		p.byName[key] = v
		p.names = append(p.names, key)
	}
	slices.Sort(p.names)
	return p, nil
}

// LoadPresets reads a preset table from r.
func LoadPresets(r io.Reader) (*Presets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return ParsePresets(data)
}

// LoadPresetsFile reads a preset table from a YAML file.
func LoadPresetsFile(path string) (*Presets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open presets: %w", err)
	}
	defer f.Close()
	return LoadPresets(f)
}

func (v Preset) validate() error {
	req := &Request{
		Primary:   []byte{0},
		Pitch:     v.Pitch,
		Speed:     v.Speed,
		ReverbWet: v.ReverbWet,
		Texture:   Background{Volume: v.TextureVolume},
		Ambience:  Background{Volume: v.AmbienceVolume},
	}
	return req.Validate()
}

// Names returns preset names in sorted order.
func (p *Presets) Names() []string {
	return slices.Clone(p.names)
}

// Get looks up a preset case-insensitively.
func (p *Presets) Get(name string) (Preset, bool) {
	v, ok := p.byName[strings.ToLower(name)]
	return v, ok
}

// Apply copies a preset's values into req. A preset named after a mode
// selects that mode; one named after a theme selects ModeThemed with that
// theme.
func (p *Presets) Apply(req *Request, name string) error {
	v, ok := p.Get(name)
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", ErrParameter, name)
	}
	req.Pitch = v.Pitch
	req.Speed = v.Speed
	req.ReverbWet = v.ReverbWet
	req.Texture.Volume = v.TextureVolume
	req.Ambience.Volume = v.AmbienceVolume

	if theme, err := ParseTheme(name); err == nil {
		req.Mode = ModeThemed
		req.Theme = theme
		req.Surprise = false
	} else if mode, err := ParseMode(name); err == nil {
		req.Mode = mode
	}
	return nil
}

// Surprise picks a random theme preset, avoiding current when another
// choice exists.
func (p *Presets) Surprise(rng RandomSource, current string) string {
	current = strings.ToLower(current)
	var choices []string
	for _, name := range p.names {
		if _, err := ParseTheme(name); err == nil && name != current {
			choices = append(choices, name)
		}
	}
	if len(choices) == 0 {
		return current
	}
	return choices[rng.IntN(len(choices))]
}
