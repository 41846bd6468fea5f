// Package mathutil provides the small numeric helpers shared by the remix DSP code.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
// It is used to evaluate the Kaiser window inside the resampler's sinc table.
//
// The polynomial approximations come from Abramowitz & Stegun 9.8.1 and 9.8.2:
//   - for |x| < 3.75 a direct series in (x/3.75)²
//   - otherwise an asymptotic series scaled by eˣ/√x
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	result := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * result / math.Sqrt(ax)
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels (Kaiser & Schafer):
//   - att > 50 dB: β = 0.1102 * (att - 8.7)
//   - 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - otherwise β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserZeroCrossings estimates how many sinc zero crossings per side a
// Kaiser-windowed kernel needs to reach the given attenuation with a
// transition band of transitionBW (normalized to the Nyquist frequency).
//
// Derived from Kaiser's length formula N ≈ (att - 8) / (2.285 * Δω).
func KaiserZeroCrossings(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}
	taps := (attenuation - kaiserFilterLengthOffset) / (kaiserFilterLengthMultiplier * math.Pi * transitionBW)
	n := int(math.Ceil(taps / 2))
	return min(max(n, minZeroCrossings), maxZeroCrossings)
}
