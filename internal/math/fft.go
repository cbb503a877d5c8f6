package math

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the squared magnitude |X(k)|^2 of the real signal
// for the frequency bins k in [0, N/2].
func PowerSpectrum(xx []float64) []float64 {
	cc := fft.FFTReal(xx)
	ps := make([]float64, len(cc)/2+1)
	for i := range ps {
		r := cmplx.Abs(cc[i])
		ps[i] = r * r
	}
	return ps
}

// Peak returns the bin with the highest power.
func Peak(ps []float64) int {
	var k int
	for i, p := range ps {
		if p > ps[k] {
			k = i
		}
	}
	return k
}
