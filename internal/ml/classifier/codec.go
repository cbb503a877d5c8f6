package classifier

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
)

// LabelDelimiter separates the labels on the first line of a classifier file.
const LabelDelimiter = ";"

// WriteTo writes the labels line, the normalization line and the network.
func (c *Classifier) WriteTo(w io.Writer) (int64, error) {
	head := fmt.Sprintf("%s\n%s %s\n",
		strings.Join(c.labels, LabelDelimiter),
		sfcmath.FormatVector(c.mean),
		sfcmath.FormatVector(c.stddev))
	n, err := io.WriteString(w, head)
	if err != nil {
		return int64(n), err
	}
	m, err := c.network.WriteTo(w)
	return int64(n) + m, err
}

// Read reads a classifier written by WriteTo.
func Read(r io.Reader, registry net.Registry) (*Classifier, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("could not read labels: %w", err)
	}
	labels := strings.Split(strings.TrimRight(line, "\r\n"), LabelDelimiter)

	decoder := net.NewDecoder(br, registry)
	mean, err := decoder.Vector()
	if err != nil {
		return nil, fmt.Errorf("could not read mean: %w", err)
	}
	stddev, err := decoder.Vector()
	if err != nil {
		return nil, fmt.Errorf("could not read standard deviation: %w", err)
	}
	network, err := decoder.Network()
	if err != nil {
		return nil, fmt.Errorf("could not read network: %w", err)
	}
	return New(network, mean, stddev, labels)
}
