package net

import "errors"

var (
	// EmptyNetworkErr is returned when the size of a network without layers is queried.
	EmptyNetworkErr = errors.New("empty network")
	// ShapeMismatchErr is returned when adjacent layers do not fit together.
	ShapeMismatchErr = errors.New("shape mismatch")
	// NoHiddenUnitsErr is returned for a hidden layer without units.
	NoHiddenUnitsErr = errors.New("no hidden units")
	// UnknownActivationErr is returned when an activation name cannot be resolved.
	UnknownActivationErr = errors.New("unknown activation function")
)
