package storage

import "errors"

var (
	// NotFoundErr is returned when the requested file does not exist.
	NotFoundErr = errors.New("not found")
	// CouldNotLoadErr is returned when a file exists but can not be decoded.
	CouldNotLoadErr = errors.New("could not load")
)
