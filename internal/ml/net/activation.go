package net

import (
	"fmt"
	"math"
)

// Activation identifies one of the supported activation functions.
type Activation uint8

const (
	// Linear is the identity, f(x) = x.
	Linear Activation = iota
	// Sigmoid is the logistic function, f(x) = 1 / (1 + e^-x).
	Sigmoid
	// LogSigmoid is the logarithm of the logistic function, f(x) = -ln(1 + e^-x).
	LogSigmoid
)

type function struct {
	name string
	f    func(x float64) float64
	// df is the derivative expressed in terms of the function output.
	df func(y float64) float64
}

var functions = [...]function{
	Linear: {
		name: "linear",
		f:    func(x float64) float64 { return x },
		df:   func(y float64) float64 { return 1 },
	},
	Sigmoid: {
		name: "sigmoid",
		f:    sigmoid,
		df:   func(y float64) float64 { return y * (1 - y) },
	},
	LogSigmoid: {
		name: "logsigmoid",
		f:    logSigmoid,
		// e^y recovers the sigmoid value
		df: func(y float64) float64 { return 1 - math.Exp(y) },
	},
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func logSigmoid(x float64) float64 {
	if x < 0 {
		return x - math.Log1p(math.Exp(x))
	}
	return -math.Log1p(math.Exp(-x))
}

func (a Activation) function() function {
	if !a.Valid() {
		panic(fmt.Sprintf("invalid activation %d", a))
	}
	return functions[a]
}

// Valid reports whether the activation is one of the known variants.
func (a Activation) Valid() bool {
	return int(a) < len(functions)
}

// String returns the name the activation is serialized with.
func (a Activation) String() string {
	if !a.Valid() {
		return fmt.Sprintf("activation(%d)", a)
	}
	return functions[a].name
}

// F applies the activation element-wise to the potential vector.
func (a Activation) F(v []float64) []float64 {
	f := a.function().f
	y := make([]float64, len(v))
	for i, x := range v {
		y[i] = f(x)
	}
	return y
}

// D returns the element-wise derivative for the given activation output.
func (a Activation) D(out []float64) []float64 {
	df := a.function().df
	d := make([]float64, len(out))
	for i, y := range out {
		d[i] = df(y)
	}
	return d
}

// Registry resolves activations by their serialized name.
// It is built once and never modified afterwards.
type Registry struct {
	byName map[string]Activation
}

// NewRegistry creates a registry for the given activations.
func NewRegistry(activations ...Activation) Registry {
	byName := make(map[string]Activation, len(activations))
	for _, a := range activations {
		byName[a.String()] = a
	}
	return Registry{byName: byName}
}

// DefaultRegistry creates a registry with all the known activations.
func DefaultRegistry() Registry {
	return NewRegistry(Linear, Sigmoid, LogSigmoid)
}

// Lookup resolves the activation with the given name.
func (r Registry) Lookup(name string) (Activation, error) {
	a, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("'%s': %w", name, UnknownActivationErr)
	}
	return a, nil
}
