package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
)

const maxTokenSize = 64 * 1024 * 1024

// MarshalText renders the layer as "<activation> <weight matrix>".
func (l *Layer) MarshalText() ([]byte, error) {
	if !l.activation.Valid() {
		return nil, fmt.Errorf("%s: %w", l.activation, UnknownActivationErr)
	}
	return []byte(l.activation.String() + " " + sfcmath.FormatMatrix(l.weights)), nil
}

// WriteTo writes the network one layer per line.
func (n *Network) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, l := range n.layers {
		b, err := l.MarshalText()
		if err != nil {
			return 0, err
		}
		sb.Write(b)
		sb.WriteString("\n")
	}
	c, err := io.WriteString(w, sb.String())
	return int64(c), err
}

// Decoder reads whitespace separated network tokens from a stream.
type Decoder struct {
	scanner  *bufio.Scanner
	registry Registry
}

// NewDecoder creates a decoder resolving activation names with the given registry.
func NewDecoder(r io.Reader, registry Registry) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)
	return &Decoder{
		scanner:  scanner,
		registry: registry,
	}
}

// Token returns the next token, or io.EOF when the stream is exhausted.
func (d *Decoder) Token() (string, error) {
	if d.scanner.Scan() {
		return d.scanner.Text(), nil
	}
	if err := d.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Vector reads the next vector token.
func (d *Decoder) Vector() ([]float64, error) {
	token, err := d.Token()
	if err != nil {
		return nil, err
	}
	return sfcmath.ParseVector(token)
}

// Layer reads the next layer, or returns io.EOF when the stream is exhausted.
func (d *Decoder) Layer() (*Layer, error) {
	name, err := d.Token()
	if err != nil {
		return nil, err
	}
	token, err := d.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("could not read weights of '%s' layer: %w", name, err)
	}
	activation, err := d.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	weights, err := sfcmath.ParseMatrix(token)
	if err != nil {
		return nil, fmt.Errorf("could not parse weights of '%s' layer: %w", name, err)
	}
	return newLayer(weights, activation)
}

// Network reads layers until the stream is exhausted.
func (d *Decoder) Network() (*Network, error) {
	builder := NewBuilder()
	for {
		l, err := d.Layer()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		builder.Add(l)
	}
	return builder.Build()
}

// ReadNetwork decodes a network from the reader.
func ReadNetwork(r io.Reader, registry Registry) (*Network, error) {
	return NewDecoder(r, registry).Network()
}
