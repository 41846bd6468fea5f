package remix

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tphakala/go-audio-remix/internal/codec"
	"github.com/tphakala/go-audio-remix/internal/engine"
)

// Exporter encodes a finished track.
type Exporter interface {
	// Export writes t to w in the exporter's container.
	Export(w io.Writer, t Track) error
	// Format returns the file extension, without a dot.
	Format() string
	// ContentType returns the MIME type of the output.
	ContentType() string
}

// OpusExporter writes Ogg Opus at 48kHz. Tracks at other rates are
// resampled first.
type OpusExporter struct {
	// Bitrate in bits per second. Zero means DefaultOpusBitrate.
	Bitrate int
	// Quality of the 48kHz conversion.
	Quality Quality
}

// Format implements Exporter.
func (e OpusExporter) Format() string { return "ogg" }

// ContentType implements Exporter.
func (e OpusExporter) ContentType() string { return "audio/ogg" }

// Export implements Exporter.
func (e OpusExporter) Export(w io.Writer, t Track) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	bitrate := e.Bitrate
	if bitrate == 0 {
		bitrate = DefaultOpusBitrate
	}

	m := ToSamples(t)
	if m.Channels() > stereoChannels {
		m = toStereo(m)
	}
	if t.SampleRate != opusSampleRate {
		r, err := engine.NewResampler(float64(t.SampleRate), opusSampleRate, e.Quality.engineQuality())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
		m = MatrixFromChannels(r.ResampleChannels(m.channels)...)
	}

	if err := codec.EncodeOggOpus(w, FromSamples(m, opusSampleRate).Buffer(), bitrate); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// WAVExporter writes 16-bit PCM WAV at the track's own rate.
type WAVExporter struct{}

// Format implements Exporter.
func (WAVExporter) Format() string { return "wav" }

// ContentType implements Exporter.
func (WAVExporter) ContentType() string { return "audio/wav" }

// Export implements Exporter.
func (WAVExporter) Export(w io.Writer, t Track) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if t.BitDepth != CanonicalBitDepth {
		t = FromSamples(ToSamples(t), t.SampleRate)
	}
	if err := codec.EncodeWAV(w, t.Buffer()); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// ExporterFor returns the exporter for a format name ("ogg", "opus" or
// "wav").
func ExporterFor(format string, bitrate int, quality Quality) (Exporter, error) {
	switch strings.ToLower(format) {
	case "ogg", "opus":
		return OpusExporter{Bitrate: bitrate, Quality: quality}, nil
	case "wav":
		return WAVExporter{}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", ErrParameter, format)
}

// ExportToDir writes t into dir under a random file name and returns the
// path. A partially written file is removed on failure.
func ExportToDir(dir string, e Exporter, t Track) (path string, err error) {
	path = filepath.Join(dir, uuid.NewString()+"."+e.Format())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrExport, cerr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
			path = ""
		}
	}()

	if err := e.Export(f, t); err != nil {
		return "", err
	}
	return path, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
