package effects

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/mathutil"
)

const maxDriveDB = 60.0

// Distortion applies a drive gain followed by a tanh soft clipper.
type Distortion struct {
	drive float64
}

// NewDistortion creates a distortion with driveDB of gain before the
// waveshaper.
func NewDistortion(driveDB float64) (*Distortion, error) {
	if err := checkRange("drive", driveDB, -maxDriveDB, maxDriveDB); err != nil {
		return nil, fmt.Errorf("distortion: %w", err)
	}
	return &Distortion{drive: mathutil.DBToGain(driveDB)}, nil
}

// Process shapes every sample of every channel.
func (d *Distortion) Process(channels [][]float64) error {
	for _, buf := range channels {
		for i, x := range buf {
			buf[i] = math.Tanh(d.drive * x)
		}
	}
	return nil
}
