package dataset

import (
	"errors"
	"fmt"

	"github.com/iljakuklic/sfc-project/internal/buffer"
	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"golang.org/x/exp/rand"
)

var (
	// NormalizedErr is returned when samples are added to a normalized data set.
	NormalizedErr = errors.New("data set is normalized")
	// EmptyErr is returned when an empty data set is written out.
	EmptyErr = errors.New("empty data set")
)

// Sample is a pair of input features and the desired output.
type Sample struct {
	Input  []float64
	Output []float64
}

// DataSet is an ordered list of samples with the running input statistics.
type DataSet struct {
	samples    []Sample
	moments    *buffer.Moments
	normalized bool
}

// New creates an empty data set.
func New() *DataSet {
	return &DataSet{
		samples: make([]Sample, 0),
		moments: buffer.NewMoments(),
	}
}

// Add appends a sample and updates the input statistics.
func (d *DataSet) Add(input, output []float64) error {
	if d.normalized {
		return fmt.Errorf("could not add sample %d: %w", len(d.samples), NormalizedErr)
	}
	d.moments.Push(input...)
	d.samples = append(d.samples, Sample{
		Input:  input,
		Output: output,
	})
	return nil
}

// Len returns the number of samples.
func (d *DataSet) Len() int {
	return len(d.samples)
}

// Sample returns the i-th sample.
func (d *DataSet) Sample(i int) Sample {
	return d.samples[i]
}

// Normalized reports whether the inputs have already been normalized.
func (d *DataSet) Normalized() bool {
	return d.normalized
}

// InputDim returns the input vector size, 0 for an empty data set.
func (d *DataSet) InputDim() int {
	return d.moments.Dim()
}

// OutputDim returns the output vector size, 0 for an empty data set.
func (d *DataSet) OutputDim() int {
	if len(d.samples) == 0 {
		return 0
	}
	return len(d.samples[0].Output)
}

// Mean returns the mean of the inputs as they were added.
func (d *DataSet) Mean() []float64 {
	return d.moments.Mean()
}

// StdDev returns the population standard deviation of the inputs as they were added.
// Constant components report 1, so that they can be used as a divisor.
func (d *DataSet) StdDev() []float64 {
	sd := d.moments.StDev()
	for i, s := range sd {
		if s == 0 {
			sd[i] = 1
		}
	}
	return sd
}

// Normalize shifts and scales the inputs to zero mean and unit variance.
// It does nothing if the set has already been normalized or holds at most one sample.
func (d *DataSet) Normalize() {
	if d.normalized || len(d.samples) <= 1 {
		return
	}
	mean := d.Mean()
	sd := d.StdDev()
	for i, s := range d.samples {
		v := sfcmath.Sub(s.Input, mean)
		for j := range v {
			v[j] /= sd[j]
		}
		d.samples[i].Input = v
	}
	d.normalized = true
}

// Shuffle randomly permutes the samples.
func (d *DataSet) Shuffle(src rand.Source) {
	rand.New(src).Shuffle(len(d.samples), func(i, j int) {
		d.samples[i], d.samples[j] = d.samples[j], d.samples[i]
	})
}

// Clear removes all samples and statistics.
func (d *DataSet) Clear() {
	d.samples = make([]Sample, 0)
	d.moments.Reset()
	d.normalized = false
}
