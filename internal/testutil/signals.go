package testutil

import (
	"encoding/binary"
	"math"
)

// Sine generates n samples of a sine wave at freq Hz.
func Sine(n int, freq, sampleRate, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

// Impulse returns n samples with a unit impulse at position at.
func Impulse(n, at int) []float64 {
	out := make([]float64, n)
	if at >= 0 && at < n {
		out[at] = 1
	}
	return out
}

// RMS returns the root-mean-square level of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// ZeroCrossingFrequency estimates the fundamental of a clean tone by
// counting rising zero crossings.
func ZeroCrossingFrequency(s []float64, sampleRate float64) float64 {
	var crossings int
	first, last := -1, -1
	for i := 1; i < len(s); i++ {
		if s[i-1] < 0 && s[i] >= 0 {
			if first < 0 {
				first = i
			}
			last = i
			crossings++
		}
	}
	if crossings < 2 {
		return 0
	}
	return float64(crossings-1) * sampleRate / float64(last-first)
}

// PCM16 converts normalized samples to 16-bit integer PCM values.
func PCM16(s []float64) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(math.Round(math.Max(-32768, math.Min(32767, v*32768))))
	}
	return out
}

// InterleaveStereo interleaves two equal-length channels.
func InterleaveStereo(left, right []int) []int {
	out := make([]int, 0, len(left)*2)
	for i := range left {
		out = append(out, left[i], right[i])
	}
	return out
}

// WAVBytes builds an in-memory PCM WAV file from interleaved integer samples.
// Supported bit depths are 8, 16 and 24.
func WAVBytes(data []int, sampleRate, channels, bitDepth int) []byte {
	bytesPerSample := bitDepth / 8
	dataSize := len(data) * bytesPerSample
	buf := make([]byte, 0, 44+dataSize)

	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, "WAVEfmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*channels*bytesPerSample))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels*bytesPerSample))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bitDepth))
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))

	for _, v := range data {
		switch bitDepth {
		case 8:
			buf = append(buf, byte(v+128))
		case 16:
			buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v)))
		case 24:
			buf = append(buf, byte(v), byte(v>>8), byte(v>>16))
		}
	}
	return buf
}
