package net

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type sample struct {
	input  []float64
	target []float64
}

var samples = []sample{
	{input: []float64{0.3, -1.2}, target: []float64{-0.1, -2}},
	{input: []float64{-0.7, 0.4}, target: []float64{-1.5, -0.3}},
	{input: []float64{1.1, 0.9}, target: []float64{-0.05, -0.9}},
}

func TestLayerTrainer_NoMomentum(t *testing.T) {

	l := NewLayer(2, 2, Sigmoid)
	l.RandomizeFrom(rand.NewSource(3), -1, 1)
	before := mat.DenseCopyOf(l.weights)

	lt := NewLayerTrainer(l).WithMomentum(0)
	for _, s := range samples {
		lt.Sample(s.input, l.Exec(s.input), s.target)
	}
	assert.Equal(t, len(samples), lt.Samples())
	gradient := mat.DenseCopyOf(lt.Gradient())

	lt.Teach(0.3)

	var expected mat.Dense
	expected.Scale(0.3/float64(len(samples)), gradient)
	expected.Add(before, &expected)
	assert.True(t, mat.EqualApprox(&expected, l.weights, 1e-14))

	// accumulator is reset
	assert.Equal(t, 0, lt.Samples())
	assert.Equal(t, 0.0, mat.Norm(lt.Gradient(), 1))
}

func TestLayerTrainer_Momentum(t *testing.T) {

	l := NewLayer(2, 2, Linear)
	l.RandomizeFrom(rand.NewSource(5), -1, 1)
	w0 := mat.DenseCopyOf(l.weights)

	lt := NewLayerTrainer(l)
	s := samples[0]

	// the first update carries no momentum
	lt.Sample(s.input, l.Exec(s.input), s.target)
	g1 := mat.DenseCopyOf(lt.Gradient())
	lt.Teach(0.5)

	var w1 mat.Dense
	w1.Scale(0.5, g1)
	w1.Add(w0, &w1)
	require.True(t, mat.EqualApprox(&w1, l.weights, 1e-14))

	lt.Sample(s.input, l.Exec(s.input), s.target)
	g2 := mat.DenseCopyOf(lt.Gradient())
	lt.Teach(0.5)

	var step, w2 mat.Dense
	step.Sub(&w1, w0)
	step.Scale(Momentum, &step)
	w2.Scale(0.5, g2)
	w2.Add(&w2, &step)
	w2.Add(&w1, &w2)
	assert.True(t, mat.EqualApprox(&w2, l.weights, 1e-14))
}

func TestLayerTrainer_Panics(t *testing.T) {

	lt := NewLayerTrainer(NewLayer(2, 1, Linear))
	assert.Panics(t, func() {
		lt.Teach(0.1)
	})
	assert.Panics(t, func() {
		lt.Sample([]float64{1}, []float64{0}, []float64{1})
	})
	assert.Panics(t, func() {
		lt.Sample([]float64{1, 2}, []float64{0}, []float64{1, 2})
	})
}

func TestTrainer_Backward(t *testing.T) {

	type test struct {
		output     Activation
		target     float64
		outputBias float64
		hiddenBias float64
	}

	// hidden: linear 1x1 with weight 1, output: 1x1 with weight 2, input 0.
	// the hidden layer receives delta * 2, not the activation-scaled delta.
	tests := map[string]test{
		"sigmoid": {
			output: Sigmoid,
			target: 1,
			// 0.5 * 0.5 * (1 - 0.5)
			outputBias: 0.125,
			// (1 - 0.5) * 2
			hiddenBias: 1,
		},
		"logsigmoid": {
			output: LogSigmoid,
			target: 0,
			// ln2 * (1 - 1/2)
			outputBias: 0.5 * math.Ln2,
			// ln2 * 2
			hiddenBias: 2 * math.Ln2,
		},
		"linear": {
			output:     Linear,
			target:     3,
			outputBias: 3,
			hiddenBias: 6,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			hidden := NewLayer(1, 1, Linear)
			hidden.weights.Set(1, 0, 1)
			output := NewLayer(1, 1, tt.output)
			output.weights.Set(1, 0, 2)
			n, err := NewBuilder().Add(hidden).Add(output).Build()
			require.NoError(t, err)

			trainer := NewTrainer(n)
			trainer.Sample([]float64{0}, []float64{tt.target})

			og := trainer.LayerTrainer(1).Gradient()
			assert.InDelta(t, tt.outputBias, og.At(0, 0), 1e-12)
			// the hidden output is 0
			assert.InDelta(t, 0, og.At(1, 0), 1e-12)

			hg := trainer.LayerTrainer(0).Gradient()
			assert.InDelta(t, tt.hiddenBias, hg.At(0, 0), 1e-12)
			// the input is 0
			assert.InDelta(t, 0, hg.At(1, 0), 1e-12)
		})
	}
}

// with a linear output layer the accumulated gradient is the negative derivative of
// E = 1/2 * sum |target - output|^2 with respect to the layer weights.
func TestTrainer_LinearOutputGradient(t *testing.T) {

	tests := map[string]Activation{
		"sigmoid":    Sigmoid,
		"logsigmoid": LogSigmoid,
		"linear":     Linear,
	}

	for name, hidden := range tests {
		t.Run(name, func(t *testing.T) {

			n, err := New(2, 3, 2, hidden, Linear)
			require.NoError(t, err)
			n.RandomizeFrom(rand.NewSource(11), -1, 1)

			trainer := NewTrainer(n)
			for _, s := range samples {
				trainer.Sample(s.input, s.target)
			}

			loss := func() float64 {
				var e float64
				for _, s := range samples {
					d := make([]float64, len(s.target))
					floats.SubTo(d, s.target, n.Exec(s.input))
					e += 0.5 * floats.Dot(d, d)
				}
				return e
			}

			for i := 0; i < n.Len(); i++ {
				w := n.Layer(i).weights
				data := w.RawMatrix().Data
				x0 := make([]float64, len(data))
				copy(x0, data)

				numerical := fd.Gradient(nil, func(x []float64) float64 {
					copy(data, x)
					return loss()
				}, x0, &fd.Settings{Formula: fd.Central})
				copy(data, x0)

				r, c := w.Dims()
				gradient := trainer.LayerTrainer(i).Gradient()
				for j := 0; j < r; j++ {
					for k := 0; k < c; k++ {
						assert.InDelta(t, -numerical[j*c+k], gradient.At(j, k), 1e-6, "layer %d weight (%d,%d)", i, j, k)
					}
				}
			}
		})
	}
}

func TestTrainer_Converges(t *testing.T) {

	n, err := New(2, 4, 2, Sigmoid, Linear)
	require.NoError(t, err)
	n.RandomizeFrom(rand.NewSource(1), -0.5, 0.5)

	loss := func() float64 {
		var e float64
		for _, s := range samples {
			d := make([]float64, len(s.target))
			floats.SubTo(d, s.target, n.Exec(s.input))
			e += floats.Dot(d, d)
		}
		return e
	}

	initial := loss()
	trainer := NewTrainer(n)
	for i := 0; i < 200; i++ {
		for _, s := range samples {
			trainer.Sample(s.input, s.target)
		}
		trainer.Teach(0.2)
	}
	assert.Less(t, loss(), initial)
}
