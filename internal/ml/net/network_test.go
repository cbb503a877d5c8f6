package net

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNew(t *testing.T) {

	n, err := New(3, 4, 2, Sigmoid, LogSigmoid)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Len())
	assert.Equal(t, Sigmoid, n.Layer(0).Activation())
	assert.Equal(t, LogSigmoid, n.Layer(1).Activation())

	in, err := n.Inputs()
	require.NoError(t, err)
	assert.Equal(t, 3, in)
	out, err := n.Outputs()
	require.NoError(t, err)
	assert.Equal(t, 2, out)

	_, err = New(3, 0, 2, Sigmoid, Linear)
	assert.True(t, errors.Is(err, NoHiddenUnitsErr))
}

func TestBuilder_ShapeMismatch(t *testing.T) {

	_, err := NewBuilder().
		Add(NewLayer(3, 4, Sigmoid)).
		Add(NewLayer(5, 2, Linear)).
		Build()
	assert.True(t, errors.Is(err, ShapeMismatchErr))

	// layers added after the build do not leak into the network
	b := NewBuilder().Add(NewLayer(3, 4, Sigmoid))
	n, err := b.Build()
	require.NoError(t, err)
	b.Add(NewLayer(4, 1, Linear))
	assert.Equal(t, 1, n.Len())
}

func TestNetwork_Empty(t *testing.T) {

	n, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = n.Inputs()
	assert.True(t, errors.Is(err, EmptyNetworkErr))
	_, err = n.Outputs()
	assert.True(t, errors.Is(err, EmptyNetworkErr))

	assert.Panics(t, func() {
		n.Exec([]float64{1})
	})
	assert.Panics(t, func() {
		NewTrainer(n).Sample([]float64{1}, []float64{1})
	})
}

func TestNetwork_Shape(t *testing.T) {

	src := rand.NewSource(1)
	uniform := rand.New(src)

	type test struct {
		layers []int
	}

	tests := map[string]test{
		"single": {layers: []int{3, 1}},
		"hidden": {layers: []int{2, 4, 1}},
		"deep":   {layers: []int{5, 7, 3, 6}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b := NewBuilder()
			for i := 1; i < len(tt.layers); i++ {
				b.Add(NewLayer(tt.layers[i-1], tt.layers[i], Sigmoid))
			}
			n, err := b.Build()
			require.NoError(t, err)
			n.RandomizeFrom(src, -1, 1)

			for k := 0; k < 10; k++ {
				input := make([]float64, tt.layers[0])
				for i := range input {
					input[i] = uniform.Float64()*4 - 2
				}
				out := n.Exec(input)
				assert.Equal(t, tt.layers[len(tt.layers)-1], len(out))
			}

			assert.Panics(t, func() {
				n.Exec(make([]float64, tt.layers[0]+1))
			})
		})
	}
}
