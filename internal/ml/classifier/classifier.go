package classifier

import (
	"errors"
	"fmt"
	"math"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"gonum.org/v1/gonum/floats"
)

// EmptyDataSetErr is returned when training is requested without training samples.
var EmptyDataSetErr = errors.New("empty data set")

// Classifier wraps a network with the input normalization and the output labels.
type Classifier struct {
	network *net.Network
	mean    []float64
	stddev  []float64
	labels  []string
}

// New creates a classifier, checking the normalization and labels against the network shape.
func New(network *net.Network, mean, stddev []float64, labels []string) (*Classifier, error) {
	in, err := network.Inputs()
	if err != nil {
		return nil, err
	}
	out, err := network.Outputs()
	if err != nil {
		return nil, err
	}
	if len(mean) != in || len(stddev) != in {
		return nil, fmt.Errorf("normalization of size %d/%d for %d inputs: %w", len(mean), len(stddev), in, net.ShapeMismatchErr)
	}
	if len(labels) != out {
		return nil, fmt.Errorf("%d labels for %d outputs: %w", len(labels), out, net.ShapeMismatchErr)
	}
	return &Classifier{
		network: network,
		mean:    mean,
		stddev:  stddev,
		labels:  labels,
	}, nil
}

// Network returns the wrapped network.
func (c *Classifier) Network() *net.Network {
	return c.network
}

// Mean returns the input mean.
func (c *Classifier) Mean() []float64 {
	return c.mean
}

// StdDev returns the input standard deviation.
func (c *Classifier) StdDev() []float64 {
	return c.stddev
}

// Labels returns the output labels.
func (c *Classifier) Labels() []string {
	return c.labels
}

// Normalize maps a raw feature vector into the network input domain.
func (c *Classifier) Normalize(v []float64) []float64 {
	if len(v) != len(c.mean) {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(v), len(c.mean)))
	}
	x := make([]float64, len(v))
	floats.SubTo(x, v, c.mean)
	floats.Div(x, c.stddev)
	return x
}

// Exec classifies a single raw feature vector.
func (c *Classifier) Exec(v []float64) []float64 {
	return c.network.Exec(c.Normalize(v))
}

// ExecSet averages the outputs over all samples of the data set.
func (c *Classifier) ExecSet(ds *dataset.DataSet) []float64 {
	mustNotBeEmpty(ds)
	sum := make([]float64, len(c.labels))
	for i := 0; i < ds.Len(); i++ {
		floats.Add(sum, c.Exec(ds.Sample(i).Input))
	}
	floats.Scale(1/float64(ds.Len()), sum)
	return sum
}

// Error returns the squared error of a single raw feature vector.
func (c *Classifier) Error(v, target []float64) float64 {
	return sfcmath.SquaredDistance(c.Exec(v), target)
}

// ErrorSet returns the total squared error over the data set.
func (c *Classifier) ErrorSet(ds *dataset.DataSet) float64 {
	mustNotBeEmpty(ds)
	var e float64
	for i := 0; i < ds.Len(); i++ {
		s := ds.Sample(i)
		e += c.Error(s.Input, s.Output)
	}
	return e
}

// Score maps a log domain output into [0,1] for display.
func Score(v float64) float64 {
	r := math.Exp(v)
	return math.Sqrt(math.Max(0, r*(2-r)))
}

func mustNotBeEmpty(ds *dataset.DataSet) {
	if ds.Len() == 0 {
		panic(EmptyDataSetErr)
	}
}
