package math

import "math"

// Tone generates n samples of a sine wave with the given frequency at the given sample rate.
func Tone(amplitude, frequency float64, sampleRate int, n int) []float64 {
	xx := make([]float64, n)
	for i := range xx {
		xx[i] = amplitude * SineEvolve(i, 2*math.Pi*frequency/float64(sampleRate))
	}
	return xx
}

// SineEvolve returns the sine of the i-th step with the given phase increment.
func SineEvolve(i int, p float64) float64 {
	return math.Sin(float64(i) * p)
}
