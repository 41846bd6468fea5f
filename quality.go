package remix

import (
	"fmt"
	"strings"

	"github.com/tphakala/go-audio-remix/internal/engine"
)

// Quality selects the resampling kernel used by format normalization,
// time-stretching, pitch shifting and Opus export.
type Quality int

const (
	// QualityQuick uses cubic interpolation. Fastest, with audible aliasing
	// on large ratio changes; suitable for previews.
	QualityQuick Quality = iota

	// QualityLow uses a short windowed-sinc kernel with 60 dB stopband.
	QualityLow

	// QualityMedium uses an 80 dB kernel. This is the default.
	QualityMedium

	// QualityHigh uses a 100 dB kernel with a 95% passband.
	QualityHigh
)

// DefaultQuality is used when a Remixer is built without an explicit quality.
const DefaultQuality = QualityMedium

var qualityNames = map[Quality]string{
	QualityQuick:  "quick",
	QualityLow:    "low",
	QualityMedium: "medium",
	QualityHigh:   "high",
}

// String returns the lowercase preset name.
func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality parses a preset name such as "high". Matching is
// case-insensitive.
func ParseQuality(name string) (Quality, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for q, n := range qualityNames {
		if n == name {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quality %q", ErrParameter, name)
}

// engineQuality converts a Quality to the resampling engine's preset.
func (q Quality) engineQuality() engine.Quality {
	switch q {
	case QualityQuick:
		return engine.QualityQuick
	case QualityLow:
		return engine.QualityLow
	case QualityHigh:
		return engine.QualityHigh
	default:
		return engine.QualityMedium
	}
}
