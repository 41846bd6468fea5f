package remix

// Canonical container format. Every track is normalized to this before any
// processing, and the effect chain accepts nothing else.
const (
	CanonicalSampleRate = 44100
	CanonicalChannels   = 2
	CanonicalBitDepth   = 16
)

// 16-bit sample range
const (
	fullScale16 = 32768.0
	maxSample16 = 32767.0
	minSample16 = -32768.0
)

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2
	maxChannels    = 256
)

// Time-stretch constants
const (
	// Speeds within this distance of 1.0 skip the stretch entirely.
	speedTolerance = 0.01
	nightcoreSpeed = 1.25
)

// Background mixing constants
const (
	// Volume 0 maps to this attenuation, volume 1 to unity gain.
	backgroundFloorDB = -30.0
)

// Request defaults applied to zero-valued fields.
const (
	DefaultSlowdown       = 0.85
	DefaultSpeed          = 1.0
	DefaultReverbWet      = 0.3
	DefaultTextureVolume  = 0.1
	DefaultAmbienceVolume = 0.2

	chipmunkDefaultPitch  = 6
	nightcoreDefaultPitch = 4
)

// Request parameter ranges
const (
	MinPitch    = -12
	MaxPitch    = 12
	MinSpeed    = 0.5
	MaxSpeed    = 2.0
	MinSlowdown = 0.5
	MaxSlowdown = 1.0
)

// Export constants
const (
	DefaultOpusBitrate = 128000
	opusSampleRate     = 48000
)
