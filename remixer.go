package remix

import (
	"bytes"
	"io"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// Config configures a Remixer. Start from DefaultConfig; in a zero Config
// the quality is QualityQuick.
type Config struct {
	// Quality of every resampling step.
	Quality Quality

	// Exporter encodes the result. Defaults to OpusExporter at 128 kbps.
	Exporter Exporter

	// Logger receives per-step progress at debug level and a summary per
	// remix at info level. Defaults to a logger that discards everything.
	Logger logrus.FieldLogger

	// Seed supplies seeds for requests that carry no random source.
	// Defaults to rand.Uint64.
	Seed func() uint64
}

// Remixer runs the remix pipeline. It keeps no per-request state and is
// safe for concurrent use.
type Remixer struct {
	quality  Quality
	exporter Exporter
	log      logrus.FieldLogger
	seed     func() uint64
}

// Result describes a finished remix.
type Result struct {
	// Data is the encoded output. Empty for RemixTo.
	Data        []byte
	Format      string
	ContentType string

	Mode     Mode
	Theme    Theme // resolved theme, including a surprise pick
	Speed    float64
	Chain    string
	Duration time.Duration
}

// DefaultConfig returns medium quality with Opus export and no logging.
func DefaultConfig() Config {
	return Config{Quality: DefaultQuality}
}

// New creates a Remixer.
func New(cfg Config) *Remixer {
	r := &Remixer{
		quality:  cfg.Quality,
		exporter: cfg.Exporter,
		log:      cfg.Logger,
		seed:     cfg.Seed,
	}
	if r.exporter == nil {
		r.exporter = OpusExporter{Bitrate: DefaultOpusBitrate, Quality: r.quality}
	}
	if r.log == nil {
		r.log = discardLogger()
	}
	if r.seed == nil {
		r.seed = rand.Uint64
	}
	return r
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var defaultRemixer = New(DefaultConfig())

// Remix runs req through a Remixer with default settings.
func Remix(req *Request) (*Result, error) {
	return defaultRemixer.Remix(req)
}

// Remix runs the full pipeline and returns the encoded output in memory.
func (r *Remixer) Remix(req *Request) (*Result, error) {
	var buf bytes.Buffer
	res, err := r.RemixTo(&buf, req)
	if err != nil {
		return nil, err
	}
	res.Data = buf.Bytes()
	return res, nil
}

// RemixTo runs the full pipeline and streams the encoded output to w.
func (r *Remixer) RemixTo(w io.Writer, req *Request) (*Result, error) {
	start := time.Now()
	track, res, err := r.Render(req)
	if err != nil {
		return nil, err
	}

	log := r.log.WithFields(logrus.Fields{
		"function": "Remixer.RemixTo",
		"format":   r.exporter.Format(),
	})
	log.Debug("Exporting remix")
	if err := r.exporter.Export(w, track); err != nil {
		return nil, stageError(StepExport, err)
	}

	res.Format = r.exporter.Format()
	res.ContentType = r.exporter.ContentType()
	r.log.WithFields(logrus.Fields{
		"function": "Remixer.RemixTo",
		"mode":     res.Mode,
		"theme":    res.Theme,
		"speed":    res.Speed,
		"duration": res.Duration,
		"elapsed":  time.Since(start),
	}).Info("Remix complete")
	return res, nil
}

// Render runs every step except export and returns the mixed canonical
// track.
func (r *Remixer) Render(req *Request) (Track, *Result, error) {
	req, err := req.normalized()
	if err != nil {
		return Track{}, nil, stageError(StepValidate, err)
	}
	log := r.log.WithFields(logrus.Fields{
		"function": "Remixer.Render",
		"mode":     req.Mode,
	})

	primary, err := DecodeTrack(req.Primary)
	if err != nil {
		return Track{}, nil, stageError(StepDecode, err)
	}
	texture, err := decodeBackground(req.Texture)
	if err != nil {
		return Track{}, nil, stageError(StepDecode, err)
	}
	ambience, err := decodeBackground(req.Ambience)
	if err != nil {
		return Track{}, nil, stageError(StepDecode, err)
	}
	log.WithFields(logrus.Fields{
		"stage":       StepDecode,
		"channels":    primary.Channels,
		"sample_rate": primary.SampleRate,
		"bit_depth":   primary.BitDepth,
		"frames":      primary.Frames(),
	}).Debug("Decoded primary track")

	primary, err = Normalize(primary, r.quality)
	if err != nil {
		return Track{}, nil, stageError(StepNormalize, err)
	}
	// Backgrounds cover the input length, not the stretched length.
	pinned := primary.Frames()

	rng := req.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(r.seed(), r.seed()))
	}
	plan, err := Resolve(req, rng)
	if err != nil {
		return Track{}, nil, stageError(StepResolve, err)
	}
	speed := EffectiveSpeed(req, plan)
	log = log.WithFields(logrus.Fields{"theme": plan.Theme, "speed": speed})
	log.WithFields(logrus.Fields{
		"stage": StepResolve,
		"chain": plan.Chain.String(),
	}).Debug("Resolved effect plan")

	primary, err = TimeStretch(primary, speed, r.quality)
	if err != nil {
		return Track{}, nil, stageError(StepStretch, err)
	}
	log.WithFields(logrus.Fields{
		"stage":  StepStretch,
		"frames": primary.Frames(),
	}).Debug("Applied time stretch")

	processed, err := plan.Chain.apply(ToSamples(primary), primary.SampleRate, r.quality)
	if err != nil {
		return Track{}, nil, stageError(StepEffects, err)
	}
	mixed := FromSamples(processed, primary.SampleRate)
	log.WithFields(logrus.Fields{
		"stage":  StepEffects,
		"stages": plan.Chain.Len(),
	}).Debug("Applied effect chain")

	for _, bg := range []struct {
		track  *Track
		volume float64
	}{
		{texture, req.Texture.Volume},
		{ambience, req.Ambience.Volume},
	} {
		layer, err := PrepareBackground(bg.track, bg.volume, pinned, r.quality)
		if err != nil {
			return Track{}, nil, stageError(StepBackground, err)
		}
		mixed = Overlay(mixed, layer)
	}
	log.WithFields(logrus.Fields{
		"stage":         StepBackground,
		"pinned_frames": pinned,
	}).Debug("Mixed background layers")

	return mixed, &Result{
		Mode:     plan.Mode,
		Theme:    plan.Theme,
		Speed:    speed,
		Chain:    plan.Chain.String(),
		Duration: mixed.Duration(),
	}, nil
}

// decodeBackground returns nil for an absent or muted layer. A muted
// layer's bytes are never decoded.
func decodeBackground(bg Background) (*Track, error) {
	if len(bg.Data) == 0 || bg.Volume <= 0 {
		return nil, nil
	}
	t, err := DecodeTrack(bg.Data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
