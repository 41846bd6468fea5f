package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	remix "github.com/tphakala/go-audio-remix"
	"github.com/tphakala/go-audio-remix/internal/config"
)

// options holds the parsed command line.
type options struct {
	configPath string

	mode        string
	theme       string
	surprise    bool
	preset      string
	pitch       int
	speed       float64
	reverb      float64
	slowdown    float64
	manualSpeed bool

	texturePath  string
	textureVol   float64
	ambiencePath string
	ambienceVol  float64

	format  string
	quality string
	outDir  string
	workers int
	seed    uint64

	// set records which flags were given explicitly.
	set map[string]bool
}

// applyTo overrides config values with explicit flags.
func (o options) applyTo(cfg *config.Config) {
	if o.format != "" {
		cfg.ExportFormat = o.format
	}
	if o.quality != "" {
		cfg.Quality = o.quality
	}
	if o.outDir != "" {
		cfg.OutputDir = o.outDir
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
}

// buildRequest assembles a request. A preset is applied first and any flag
// given explicitly on the command line overrides it.
func (o options) buildRequest(primary, texture, ambience []byte, presets *remix.Presets) (*remix.Request, error) {
	req := remix.NewRequest(primary)
	req.Texture.Data = texture
	req.Ambience.Data = ambience

	if o.preset != "" {
		if err := presets.Apply(req, o.preset); err != nil {
			return nil, err
		}
	}

	if o.preset == "" || o.set["mode"] {
		req.Mode = remix.Mode(o.mode)
	}
	if o.set["theme"] {
		req.Theme = remix.Theme(o.theme)
		req.Mode = remix.ModeThemed
	}
	if o.surprise {
		req.Surprise = true
		req.Mode = remix.ModeThemed
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"pitch", func() { req.Pitch = o.pitch }},
		{"speed", func() { req.Speed = o.speed }},
		{"reverb", func() { req.ReverbWet = o.reverb }},
		{"slowdown", func() { req.Slowdown = o.slowdown }},
		{"texture-vol", func() { req.Texture.Volume = o.textureVol }},
		{"ambience-vol", func() { req.Ambience.Volume = o.ambienceVol }},
	}
	for _, ov := range overrides {
		if o.preset == "" || o.set[ov.flag] {
			ov.apply()
		}
	}
	req.ManualSpeed = o.manualSpeed

	if o.seed != 0 {
		req.Rand = rand.New(rand.NewPCG(o.seed, o.seed))
	}
	return req, req.Validate()
}

// readOptional reads a file, returning nil for an empty path.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// printCatalog lists modes, themes and presets.
func printCatalog(w io.Writer, presets *remix.Presets) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODES")
	for _, m := range remix.Modes() {
		fmt.Fprintf(tw, "  %s\n", m)
	}
	fmt.Fprintln(tw, "\nTHEMES")
	for _, t := range remix.Themes() {
		desc, _ := remix.Describe(t)
		fmt.Fprintf(tw, "  %s\t%s\n", t, desc)
	}
	fmt.Fprintln(tw, "\nPRESETS\tpitch\tspeed\treverb\ttexture\tambience")
	for _, name := range presets.Names() {
		p, _ := presets.Get(name)
		fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			name, p.Pitch, p.Speed, p.ReverbWet, p.TextureVolume, p.AmbienceVolume)
	}
	return tw.Flush()
}

// batch remixes many files with shared settings.
type batch struct {
	remixer  *remix.Remixer
	exporter remix.Exporter
	outDir   string
	opts     options
	presets  *remix.Presets
	texture  []byte
	ambience []byte
	log      logrus.FieldLogger

	mu  sync.Mutex
	out io.Writer
}

// run processes inputs with at most workers files in flight. It stops
// scheduling new files after the first failure and returns the number of
// files written.
func (b *batch) run(ctx context.Context, inputs []string, workers int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var done atomic.Int64
	for _, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := b.processFile(input); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(done.Load()), err
}

func (b *batch) processFile(input string) error {
	primary, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	req, err := b.opts.buildRequest(primary, b.texture, b.ambience, b.presets)
	if err != nil {
		return err
	}

	track, res, err := b.remixer.Render(req)
	if err != nil {
		return err
	}
	path, err := remix.ExportToDir(b.outDir, b.exporter, track)
	if err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"input":  input,
		"output": path,
		"mode":   res.Mode,
		"theme":  res.Theme,
		"speed":  res.Speed,
	}).Debug("Remixed file")

	b.mu.Lock()
	defer b.mu.Unlock()
	label := string(res.Mode)
	if res.Theme != "" {
		label += "/" + string(res.Theme)
	}
	_, err = fmt.Fprintf(b.out, "%s -> %s (%s, speed %.2f, %.1fs)\n",
		filepath.Base(input), path, label, res.Speed, res.Duration.Seconds())
	return err
}
