package net

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Network is an ordered stack of fully-connected layers.
// The zero value is the empty network, which can not be executed.
type Network struct {
	layers []*Layer
}

// New creates a network with one hidden layer.
func New(inputs, hidden, outputs int, hiddenActivation, outputActivation Activation) (*Network, error) {
	if hidden < 1 {
		return nil, fmt.Errorf("hidden layer of size %d: %w", hidden, NoHiddenUnitsErr)
	}
	return NewBuilder().
		Add(NewLayer(inputs, hidden, hiddenActivation)).
		Add(NewLayer(hidden, outputs, outputActivation)).
		Build()
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at the given index.
func (n *Network) Layer(i int) *Layer {
	return n.layers[i]
}

// Inputs returns the input vector size.
func (n *Network) Inputs() (int, error) {
	if len(n.layers) == 0 {
		return 0, EmptyNetworkErr
	}
	return n.layers[0].Inputs(), nil
}

// Outputs returns the output vector size.
func (n *Network) Outputs() (int, error) {
	if len(n.layers) == 0 {
		return 0, EmptyNetworkErr
	}
	return n.layers[len(n.layers)-1].Outputs(), nil
}

// Exec computes the network output for the given input.
func (n *Network) Exec(input []float64) []float64 {
	if len(n.layers) == 0 {
		panic(EmptyNetworkErr)
	}
	x := input
	for _, l := range n.layers {
		x = l.Exec(x)
	}
	return x
}

// Randomize randomizes all layer weights from [lo, hi) using the default source.
func (n *Network) Randomize(lo, hi float64) {
	n.RandomizeFrom(DefaultSource(), lo, hi)
}

// RandomizeFrom randomizes all layer weights from [lo, hi) using the given source.
func (n *Network) RandomizeFrom(src rand.Source, lo, hi float64) {
	for _, l := range n.layers {
		l.RandomizeFrom(src, lo, hi)
	}
}

// Builder accumulates layers for a network.
type Builder struct {
	layers []*Layer
	err    error
}

// NewBuilder creates a new network builder.
func NewBuilder() *Builder {
	return &Builder{
		layers: make([]*Layer, 0),
	}
}

// Add appends the layer to the network.
// The layer inputs must match the outputs of the previously added layer.
func (b *Builder) Add(layer *Layer) *Builder {
	if b.err != nil {
		return b
	}
	if l := len(b.layers); l > 0 && b.layers[l-1].Outputs() != layer.Inputs() {
		b.err = fmt.Errorf("layer %d has %d inputs but the network has %d outputs: %w",
			l, layer.Inputs(), b.layers[l-1].Outputs(), ShapeMismatchErr)
		return b
	}
	b.layers = append(b.layers, layer)
	return b
}

// Build creates the network out of the added layers.
func (b *Builder) Build() (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}
	layers := make([]*Layer, len(b.layers))
	copy(layers, b.layers)
	return &Network{layers: layers}, nil
}
