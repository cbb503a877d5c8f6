package buffer

import (
	"fmt"
	"math"
)

// Stats is a set of statistical properties of a set of numbers.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v float64) {
	s.count++
	s.sum += v
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	squaredDiff := (v - mean) * (v - s.mean)
	s.dSquared += squaredDiff
	s.mean = mean

	if s.min > v {
		s.min = v
	}

	if s.max < v {
		s.max = v
	}
}

// Avg returns the average value of the set.
func (s Stats) Avg() float64 {
	return s.mean
}

// Sum returns the sum of the set.
func (s Stats) Sum() float64 {
	return s.sum
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

// Min returns the smallest element.
func (s Stats) Min() float64 {
	return s.min
}

// Max returns the largest element.
func (s Stats) Max() float64 {
	return s.max
}

// Variance is the mathematical variance of the set.
func (s Stats) Variance() float64 {
	return s.dSquared / float64(s.count)
}

// StDev is the standard deviation of the set.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// Moments accumulates the raw sum and sum of squares of a stream of vectors,
// one pair per dimension.
// The dimension is fixed by the first pushed vector.
type Moments struct {
	count int
	sum   []float64
	sumSq []float64
}

// NewMoments creates an empty Moments accumulator.
func NewMoments() *Moments {
	return &Moments{}
}

// RestoreMoments re-creates an accumulator from previously persisted sums.
func RestoreMoments(count int, sum, sumSq []float64) (*Moments, error) {
	if len(sum) != len(sumSq) {
		return nil, fmt.Errorf("inconsistent dimensions %d vs %d", len(sum), len(sumSq))
	}
	return &Moments{
		count: count,
		sum:   sum,
		sumSq: sumSq,
	}, nil
}

// Push pushes each value to the corresponding dimension.
func (m *Moments) Push(v ...float64) {
	if m.sum == nil {
		m.sum = make([]float64, len(v))
		m.sumSq = make([]float64, len(v))
	}
	if len(v) != len(m.sum) {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(v), len(m.sum)))
	}
	for i, x := range v {
		m.sum[i] += x
		m.sumSq[i] += x * x
	}
	m.count++
}

// Count returns the number of pushed vectors.
func (m *Moments) Count() int {
	return m.count
}

// Dim returns the vector dimension, 0 if nothing was pushed yet.
func (m *Moments) Dim() int {
	return len(m.sum)
}

// Sum returns the per-dimension sum.
func (m *Moments) Sum() []float64 {
	return m.sum
}

// SumSq returns the per-dimension sum of squares.
func (m *Moments) SumSq() []float64 {
	return m.sumSq
}

// Mean returns the per-dimension mean.
func (m *Moments) Mean() []float64 {
	mean := make([]float64, len(m.sum))
	for i, s := range m.sum {
		mean[i] = s / float64(m.count)
	}
	return mean
}

// StDev returns the per-dimension population standard deviation.
func (m *Moments) StDev() []float64 {
	mean := m.Mean()
	sd := make([]float64, len(m.sum))
	for i, sq := range m.sumSq {
		// NOTE : rounding can push the variance of a constant dimension slightly below 0
		sd[i] = math.Sqrt(math.Max(0, sq/float64(m.count)-mean[i]*mean[i]))
	}
	return sd
}

// Reset drops all accumulated values.
func (m *Moments) Reset() {
	m.count = 0
	m.sum = nil
	m.sumSq = nil
}
