package main

import (
	"errors"
	"fmt"
	"io"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/ml/classifier"
	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"github.com/rs/zerolog/log"
)

// toy is the corners against the edges and centre of a 3x3 grid.
var toy = []dataset.Sample{
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

func demo(opts options, stdin io.Reader, stdout io.Writer) error {
	data := dataset.New()
	for _, s := range toy {
		if err := data.Add(s.Input, s.Output); err != nil {
			return err
		}
	}
	data.Normalize()

	network, err := net.New(data.InputDim(), 4, data.OutputDim(), net.Sigmoid, net.Linear)
	if err != nil {
		return err
	}
	network.RandomizeFrom(source(opts.cfg.Train.Seed), -1, 1)

	t, err := classifier.NewTrainer(network, []string{"output"}, data, data, data)
	if err != nil {
		return err
	}
	if !t.Teach(0, 0.02) {
		log.Warn().Str("session", t.ID()).Msg("training did not converge")
	}
	c := t.Classifier()

	decoder := net.NewDecoder(stdin, net.DefaultRegistry())
	for {
		v, err := decoder.Vector()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(v) != data.InputDim() {
			return fmt.Errorf("vector %s has %d elements instead of %d: %w", sfcmath.FormatVector(v), len(v), data.InputDim(), UsageErr)
		}
		if _, err := fmt.Fprintln(stdout, sfcmath.FormatVector(c.Exec(v))); err != nil {
			return err
		}
	}
}
