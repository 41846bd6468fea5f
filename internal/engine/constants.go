package engine

// Cubic (Hermite) interpolation constants
const (
	// Hermite interpolation coefficients for smooth C1 continuity
	// Formula: y = ((a*x + b)*x + c)*x + d
	// coefA := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	hermiteCoeff0_5 = 0.5
	hermiteCoeff1_5 = 1.5
	hermiteCoeff2_5 = 2.5
)

// Windowed-sinc kernel constants
const (
	// Number of fractional positions stored in the kernel table.
	// Positions in between are linearly interpolated.
	sincPhases = 256

	// Upper bound on the kernel half width in input samples.
	maxHalfWidth = 1024
)

// Quality preset parameters
const (
	lowAttenuation    = 60.0
	lowPassbandEnd    = 0.80
	mediumAttenuation = 80.0
	mediumPassbandEnd = 0.90
	highAttenuation   = 100.0
	highPassbandEnd   = 0.95
)

// Resampling ratio limits
const (
	minRatio = 1.0 / 256.0
	maxRatio = 256.0
)
