// Command remix applies a remix mode or theme to one or more audio files.
//
// Usage:
//
//	remix -mode lofi song.mp3
//	remix -mode themed -theme vintage -texture crackle.wav song.wav
//	remix -preset nightcore -format wav -out ~/remixes a.mp3 b.mp3 c.mp3
//	remix -list
//
// Files are processed in parallel; each output is written to the output
// directory under a random name and printed next to its input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	remix "github.com/tphakala/go-audio-remix"
	"github.com/tphakala/go-audio-remix/internal/config"
)

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (default $REMIX_CONFIG)")
	flag.StringVar(&opts.mode, "mode", string(remix.ModeLofi), "Remix mode: lofi, chipmunk, nightcore, themed")
	flag.StringVar(&opts.theme, "theme", "", "Theme for -mode themed (see -list)")
	flag.BoolVar(&opts.surprise, "surprise", false, "Pick a random theme (implies -mode themed)")
	flag.StringVar(&opts.preset, "preset", "", "Load slider values from a preset (see -list)")
	flag.IntVar(&opts.pitch, "pitch", 0, "Pitch shift in semitones, -12 to 12")
	flag.Float64Var(&opts.speed, "speed", remix.DefaultSpeed, "Playback speed, 0.5 to 2.0")
	flag.Float64Var(&opts.reverb, "reverb", remix.DefaultReverbWet, "Reverb wet level for lofi mode, 0 to 1")
	flag.Float64Var(&opts.slowdown, "slowdown", remix.DefaultSlowdown, "Slowdown factor for lofi mode, 0.5 to 1.0")
	flag.BoolVar(&opts.manualSpeed, "manual-speed", false, "Use -speed as the final speed, ignoring the mode's own factor")
	flag.StringVar(&opts.texturePath, "texture", "", "Background texture file, e.g. vinyl crackle")
	flag.Float64Var(&opts.textureVol, "texture-vol", remix.DefaultTextureVolume, "Texture volume, 0 to 1")
	flag.StringVar(&opts.ambiencePath, "ambience", "", "Background ambience file")
	flag.Float64Var(&opts.ambienceVol, "ambience-vol", remix.DefaultAmbienceVolume, "Ambience volume, 0 to 1")
	flag.StringVar(&opts.format, "format", "", "Output format: ogg or wav (overrides config)")
	flag.StringVar(&opts.quality, "quality", "", "Resampling quality: quick, low, medium, high (overrides config)")
	flag.StringVar(&opts.outDir, "out", "", "Output directory (overrides config)")
	flag.IntVar(&opts.workers, "workers", 0, "Files processed in parallel (overrides config)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Seed for surprise and alien draws; 0 is random")
	list := flag.Bool("list", false, "List modes, themes and presets, then exit")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	opts.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.applyTo(&cfg)
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	if *list {
		return printCatalog(os.Stdout, presets)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s song.mp3                                # Lo-fi remix\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mode themed -theme spooky song.wav     # Themed remix\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -preset chipmunk -texture crackle.wav *.mp3\n", os.Args[0])
		return errors.New("no input files")
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	texture, err := readOptional(opts.texturePath)
	if err != nil {
		return err
	}
	ambience, err := readOptional(opts.ambiencePath)
	if err != nil {
		return err
	}

	rcfg, err := cfg.RemixConfig(log)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	b := &batch{
		remixer:  remix.New(rcfg),
		exporter: rcfg.Exporter,
		outDir:   cfg.OutputDir,
		opts:     opts,
		presets:  presets,
		texture:  texture,
		ambience: ambience,
		log:      log,
		out:      os.Stdout,
	}

	start := time.Now()
	n, err := b.run(context.Background(), inputs, cfg.Workers)
	log.WithFields(logrus.Fields{
		"files":   n,
		"workers": cfg.Workers,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("Batch finished")
	return err
}
