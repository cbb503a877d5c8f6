package net

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	sourceOnce    sync.Once
	defaultSource *lockedSource
)

// DefaultSource returns the process-wide random source,
// seeded from the wall clock on first use.
func DefaultSource() rand.Source {
	sourceOnce.Do(func() {
		defaultSource = &lockedSource{src: rand.NewSource(uint64(time.Now().UnixNano()))}
	})
	return defaultSource
}

type lockedSource struct {
	mutex sync.Mutex
	src   rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.src.Seed(seed)
}

// Layer is a fully-connected layer with bias.
// Row 0 of the weight matrix holds the bias weights,
// the remaining rows correspond to the inputs.
type Layer struct {
	activation Activation
	weights    *mat.Dense
}

// NewLayer creates a layer with zero weights.
func NewLayer(inputs, outputs int, activation Activation) *Layer {
	if inputs < 1 || outputs < 1 {
		panic(fmt.Sprintf("invalid layer dimensions %d x %d", inputs, outputs))
	}
	return &Layer{
		activation: activation,
		weights:    mat.NewDense(inputs+1, outputs, nil),
	}
}

func newLayer(weights *mat.Dense, activation Activation) (*Layer, error) {
	r, c := weights.Dims()
	if r < 2 || c < 1 {
		return nil, fmt.Errorf("weight matrix %d x %d has no inputs: %w", r, c, ShapeMismatchErr)
	}
	return &Layer{
		activation: activation,
		weights:    weights,
	}, nil
}

// Inputs returns the input vector size.
func (l *Layer) Inputs() int {
	r, _ := l.weights.Dims()
	return r - 1
}

// Outputs returns the output vector size.
func (l *Layer) Outputs() int {
	_, c := l.weights.Dims()
	return c
}

// Activation returns the activation function of the layer.
func (l *Layer) Activation() Activation {
	return l.activation
}

// Weights returns a read-only view of the weight matrix.
func (l *Layer) Weights() mat.Matrix {
	return l.weights
}

// Potential computes the weighted sum of the bias-augmented input.
func (l *Layer) Potential(input []float64) []float64 {
	if len(input) != l.Inputs() {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(input), l.Inputs()))
	}
	var p mat.VecDense
	p.MulVec(l.weights.T(), mat.NewVecDense(len(input)+1, augment(input)))
	return p.RawVector().Data
}

// Exec computes the layer output.
func (l *Layer) Exec(input []float64) []float64 {
	return l.activation.F(l.Potential(input))
}

// Randomize fills the weights uniformly from [lo, hi) using the default source.
func (l *Layer) Randomize(lo, hi float64) {
	l.RandomizeFrom(DefaultSource(), lo, hi)
}

// RandomizeFrom fills the weights uniformly from [lo, hi) using the given source.
func (l *Layer) RandomizeFrom(src rand.Source, lo, hi float64) {
	uniform := distuv.Uniform{Min: lo, Max: hi, Src: src}
	r, c := l.weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			l.weights.Set(i, j, uniform.Rand())
		}
	}
}

// augment prepends the constant bias input.
func augment(input []float64) []float64 {
	x := make([]float64, len(input)+1)
	x[0] = 1
	copy(x[1:], input)
	return x
}
