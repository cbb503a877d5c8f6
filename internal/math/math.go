package math

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Format formats a float with two decimals for display.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Exact formats a float in the shortest form that parses back to the same value.
func Exact(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Percent converts a [0,1] ratio into a rounded percentage.
func Percent(f float64) int {
	return int(math.Round(f * 100))
}

// Clamp limits the value to the [lo, hi] range.
func Clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

// NextPow2 returns the smallest power of two not smaller than n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Sub returns the element-wise difference a - b.
func Sub(a, b []float64) []float64 {
	mustMatch(a, b)
	return floats.SubTo(make([]float64, len(a)), a, b)
}

// SquaredDistance returns the sum of squared element-wise differences.
func SquaredDistance(a, b []float64) float64 {
	d := Sub(a, b)
	return floats.Dot(d, d)
}

func mustMatch(a, b []float64) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(a), len(b)))
	}
}
