package classifier

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

var points = []dataset.Sample{
	{Input: []float64{-1, -1}, Output: []float64{1}},
	{Input: []float64{-1, 0}, Output: []float64{-1}},
	{Input: []float64{-1, 1}, Output: []float64{1}},
	{Input: []float64{0, -1}, Output: []float64{-1}},
	{Input: []float64{0, 0}, Output: []float64{-1}},
	{Input: []float64{0, 1}, Output: []float64{-1}},
	{Input: []float64{1, -1}, Output: []float64{1}},
	{Input: []float64{1, 0}, Output: []float64{-1}},
	{Input: []float64{1, 1}, Output: []float64{1}},
}

func pointSet(t *testing.T) *dataset.DataSet {
	ds := dataset.New()
	for _, p := range points {
		require.NoError(t, ds.Add(p.Input, p.Output))
	}
	return ds
}

func cloneNetwork(t *testing.T, n *net.Network) *net.Network {
	var buf bytes.Buffer
	_, err := n.WriteTo(&buf)
	require.NoError(t, err)
	m, err := net.ReadNetwork(&buf, net.DefaultRegistry())
	require.NoError(t, err)
	return m
}

func assertSameWeights(t *testing.T, expected, actual *net.Network) {
	require.Equal(t, expected.Len(), actual.Len())
	for i := 0; i < expected.Len(); i++ {
		assert.True(t, mat.EqualApprox(expected.Layer(i).Weights(), actual.Layer(i).Weights(), 1e-12), "layer %d", i)
	}
}

func TestNewTrainer(t *testing.T) {

	n, err := net.New(2, 3, 1, net.Sigmoid, net.Linear)
	require.NoError(t, err)

	type test struct {
		network *net.Network
		labels  []string
		train   *dataset.DataSet
		err     error
		names   []string
	}

	wide, err := net.New(3, 3, 1, net.Sigmoid, net.Linear)
	require.NoError(t, err)

	tests := map[string]test{
		"nil-train": {
			network: n,
			err:     EmptyDataSetErr,
		},
		"empty-train": {
			network: n,
			train:   dataset.New(),
			err:     EmptyDataSetErr,
		},
		"too-many-labels": {
			network: n,
			labels:  []string{"a", "b"},
			train:   pointSet(t),
			err:     net.ShapeMismatchErr,
		},
		"inputs": {
			network: wide,
			train:   pointSet(t),
			err:     net.ShapeMismatchErr,
		},
		"default-label": {
			network: n,
			train:   pointSet(t),
			names:   []string{"output-0"},
		},
		"label": {
			network: n,
			labels:  []string{"corner"},
			train:   pointSet(t),
			names:   []string{"corner"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tr, err := NewTrainer(tt.network, tt.labels, tt.train, nil, nil)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.names, tr.Classifier().Labels())
			assert.Equal(t, tt.train.Mean(), tr.Classifier().Mean())
			assert.Equal(t, tt.train.StdDev(), tr.Classifier().StdDev())
			assert.NotEmpty(t, tr.ID())
		})
	}
}

func TestNewTrainer_Fallback(t *testing.T) {

	n, err := net.New(2, 3, 1, net.Sigmoid, net.Linear)
	require.NoError(t, err)
	n.RandomizeFrom(rand.NewSource(1), -1, 1)

	train := pointSet(t)
	xval := dataset.New()
	require.NoError(t, xval.Add([]float64{0.5, 0.5}, []float64{3}))

	tr, err := NewTrainer(n, nil, train, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tr.TrainError(), tr.CrossValidationError())
	assert.Equal(t, tr.TrainError(), tr.TestError())

	tr, err = NewTrainer(n, nil, train, dataset.New(), xval)
	require.NoError(t, err)
	assert.NotEqual(t, tr.TrainError(), tr.CrossValidationError())
	assert.Equal(t, tr.CrossValidationError(), tr.TestError())
}

func TestTrainer_PresentChunk(t *testing.T) {

	n, err := net.New(2, 3, 1, net.Sigmoid, net.Linear)
	require.NoError(t, err)
	n.RandomizeFrom(rand.NewSource(2), -1, 1)
	reference := cloneNetwork(t, n)

	train := pointSet(t)
	tr, err := NewTrainer(n, nil, train, nil, nil)
	require.NoError(t, err)
	tr.PresentChunk(3, 2, 0.4)

	// one update for the whole chunk, samples as stored
	expected := net.NewTrainer(reference)
	for i := 2; i < 5; i++ {
		s := train.Sample(i)
		expected.Sample(s.Input, s.Output)
	}
	expected.Teach(0.4)

	assertSameWeights(t, reference, n)
}

func TestTrainer_Present(t *testing.T) {

	type test struct {
		chunk  int
		chunks [][2]int
	}

	tests := map[string]test{
		"whole-set": {
			chunk:  0,
			chunks: [][2]int{{0, 9}},
		},
		"chunks": {
			chunk:  4,
			chunks: [][2]int{{0, 4}, {4, 8}, {8, 9}},
		},
		"larger": {
			chunk:  20,
			chunks: [][2]int{{0, 9}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			n, err := net.New(2, 3, 1, net.Sigmoid, net.Linear)
			require.NoError(t, err)
			n.RandomizeFrom(rand.NewSource(3), -1, 1)
			reference := cloneNetwork(t, n)

			train := pointSet(t)
			train.Normalize()
			tr, err := NewTrainer(n, nil, train, nil, nil)
			require.NoError(t, err)
			tr.Present(tt.chunk, 0.3)

			expected := net.NewTrainer(reference)
			for _, c := range tt.chunks {
				for i := c[0]; i < c[1]; i++ {
					s := train.Sample(i)
					expected.Sample(s.Input, s.Output)
				}
				expected.Teach(0.3)
			}

			assertSameWeights(t, reference, n)
		})
	}
}

func TestTrainer_Teach(t *testing.T) {

	const seeds = 50
	converged, separated := 0, 0
	for seed := uint64(1); seed <= seeds; seed++ {

		data := pointSet(t)
		data.Normalize()

		n, err := net.New(2, 4, 1, net.Sigmoid, net.Linear)
		require.NoError(t, err)
		n.RandomizeFrom(rand.NewSource(seed), -1, 1)

		tr, err := NewTrainer(n, []string{"output"}, data, data, data)
		require.NoError(t, err)

		iterations := 0
		tr.WithObserver(ObserverFunc(func(it Iteration) {
			iterations++
			assert.Equal(t, tr.ID(), it.Session)
			assert.Equal(t, iterations, it.Iteration)
		}))

		ok := tr.Teach(0, 0.02)
		history := tr.History()
		assert.Equal(t, iterations+1, len(history))
		if iterations < MaxIterations {
			// success is defined by the cross-validation error
			assert.Equal(t, history[len(history)-1] <= history[0], ok, "seed %d", seed)
		}
		if !ok {
			continue
		}
		converged++

		c := tr.Classifier()
		correct := true
		for _, p := range points {
			out := c.Exec(p.Input)
			if math.Signbit(out[0]) != math.Signbit(p.Output[0]) {
				correct = false
			}
		}
		if correct {
			separated++
		}
	}
	t.Logf("%d of %d seeds converged, %d separated the points", converged, seeds, separated)
	assert.Greater(t, converged, seeds/2)
	assert.Greater(t, separated, 0)
}
