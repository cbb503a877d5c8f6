package net

import (
	"fmt"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Momentum is the fraction of the previous weight change added to every update.
const Momentum = 0.1

// LayerTrainer accumulates the weight gradient of one layer over a batch of samples.
type LayerTrainer struct {
	layer    *Layer
	gradient *mat.Dense
	previous *mat.Dense
	samples  int
	momentum float64
}

// NewLayerTrainer creates a trainer for the given layer.
func NewLayerTrainer(layer *Layer) *LayerTrainer {
	r, c := layer.weights.Dims()
	return &LayerTrainer{
		layer:    layer,
		gradient: mat.NewDense(r, c, nil),
		momentum: Momentum,
	}
}

// WithMomentum overrides the momentum constant.
func (lt *LayerTrainer) WithMomentum(momentum float64) *LayerTrainer {
	lt.momentum = momentum
	return lt
}

// Layer returns the trained layer.
func (lt *LayerTrainer) Layer() *Layer {
	return lt.layer
}

// Samples returns the number of samples accumulated since the last update.
func (lt *LayerTrainer) Samples() int {
	return lt.samples
}

// Gradient returns the accumulated gradient.
func (lt *LayerTrainer) Gradient() mat.Matrix {
	return lt.gradient
}

// Sample accumulates the gradient for the recorded layer input and output
// and the error signal arriving at the layer output.
func (lt *LayerTrainer) Sample(input, output, errorSignal []float64) {
	r, c := lt.gradient.Dims()
	if len(input)+1 != r {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(input), r-1))
	}
	if len(errorSignal) != c || len(output) != c {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(errorSignal), c))
	}
	d := lt.layer.activation.D(output)
	floats.Mul(d, errorSignal)
	lt.gradient.RankOne(lt.gradient, 1, mat.NewVecDense(r, augment(input)), mat.NewVecDense(c, d))
	lt.samples++
}

// Teach applies the averaged gradient scaled by the learning rate
// plus the momentum of the previous update, and resets the accumulator.
func (lt *LayerTrainer) Teach(rate float64) {
	if lt.samples == 0 {
		panic("no samples presented before teaching")
	}
	w := lt.layer.weights
	if lt.previous == nil {
		lt.previous = mat.DenseCopyOf(w)
	}

	var update mat.Dense
	update.Scale(rate/float64(lt.samples), lt.gradient)

	var step mat.Dense
	step.Sub(w, lt.previous)
	step.Scale(lt.momentum, &step)
	update.Add(&update, &step)

	lt.previous.Copy(w)
	w.Add(w, &update)

	lt.gradient.Zero()
	lt.samples = 0
}

// backward maps the error signal at the layer output back to the layer input
// through the weights, dropping the bias component.
func (l *Layer) backward(delta []float64) []float64 {
	var v mat.VecDense
	v.MulVec(l.weights, mat.NewVecDense(len(delta), delta))
	delta = make([]float64, l.Inputs())
	copy(delta, v.RawVector().Data[1:])
	return delta
}

// Trainer runs back-propagation over all layers of a network.
type Trainer struct {
	network  *Network
	trainers []*LayerTrainer
}

// NewTrainer creates a trainer with one layer trainer per network layer.
func NewTrainer(network *Network) *Trainer {
	trainers := make([]*LayerTrainer, network.Len())
	for i, l := range network.layers {
		trainers[i] = NewLayerTrainer(l)
	}
	return &Trainer{
		network:  network,
		trainers: trainers,
	}
}

// WithMomentum overrides the momentum constant of all layer trainers.
func (t *Trainer) WithMomentum(momentum float64) *Trainer {
	for _, lt := range t.trainers {
		lt.WithMomentum(momentum)
	}
	return t
}

// Network returns the trained network.
func (t *Trainer) Network() *Network {
	return t.network
}

// LayerTrainer returns the trainer of the i-th layer.
func (t *Trainer) LayerTrainer(i int) *LayerTrainer {
	return t.trainers[i]
}

// Sample presents the input and its desired output,
// accumulating the gradient in every layer trainer.
// The error signal target - output is passed from layer to layer
// through the transposed weights.
func (t *Trainer) Sample(input, target []float64) {
	if len(t.trainers) == 0 {
		panic(EmptyNetworkErr)
	}
	results := make([][]float64, len(t.trainers)+1)
	results[0] = input
	for i, lt := range t.trainers {
		results[i+1] = lt.layer.Exec(results[i])
	}

	delta := sfcmath.Sub(target, results[len(t.trainers)])
	for i := len(t.trainers) - 1; i >= 0; i-- {
		t.trainers[i].Sample(results[i], results[i+1], delta)
		if i > 0 {
			delta = t.trainers[i].layer.backward(delta)
		}
	}
}

// Teach updates the weights of every layer with the given learning rate.
func (t *Trainer) Teach(rate float64) {
	for _, lt := range t.trainers {
		lt.Teach(rate)
	}
}
