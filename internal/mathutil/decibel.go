package mathutil

import "math"

// DBToGain converts a level change in decibels to a linear amplitude factor.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/decibelFactor)
}

// GainToDB converts a linear amplitude factor to decibels.
// Non-positive gains map to -Inf.
func GainToDB(gain float64) float64 {
	if gain <= 0 {
		return math.Inf(-1)
	}
	return decibelFactor * math.Log10(gain)
}

// SemitoneRatio returns the frequency ratio for a pitch change in semitones.
func SemitoneRatio(semitones float64) float64 {
	return math.Exp2(semitones / semitonesPerOctave)
}
