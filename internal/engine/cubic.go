// Package engine implements the sample rate converters used by the remix
// pipeline. All converters work on whole in-memory buffers.
package engine

import "math"

// cubicResample resamples input by ratio (output rate / input rate) using
// 4-point cubic Hermite interpolation. Samples outside the input are zero.
func cubicResample(input []float64, ratio float64, outLen int) []float64 {
	output := make([]float64, outLen)
	step := 1 / ratio
	at := func(i int) float64 {
		if i < 0 || i >= len(input) {
			return 0
		}
		return input[i]
	}

	for i := range output {
		t := float64(i) * step
		n := int(math.Floor(t))
		output[i] = hermite(at(n-1), at(n), at(n+1), at(n+2), t-float64(n))
	}
	return output
}

// hermite interpolates between y1 and y2 at fractional position x.
// Uses the formula: y = ((a*x + b)*x + c)*x + d
func hermite(y0, y1, y2, y3, x float64) float64 {
	coefA := -hermiteCoeff0_5*y0 + hermiteCoeff1_5*y1 - hermiteCoeff1_5*y2 + hermiteCoeff0_5*y3
	coefB := y0 - hermiteCoeff2_5*y1 + 2*y2 - hermiteCoeff0_5*y3
	coefC := -hermiteCoeff0_5*y0 + hermiteCoeff0_5*y2
	coefD := y1

	return ((coefA*x+coefB)*x+coefC)*x + coefD
}
