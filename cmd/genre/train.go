package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/iljakuklic/sfc-project/internal/buffer"
	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/metrics"
	"github.com/iljakuklic/sfc-project/internal/ml/classifier"
	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"github.com/iljakuklic/sfc-project/internal/storage/file"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// candidate is the outcome of one training session.
type candidate struct {
	Try        int       `json:"try"`
	Session    string    `json:"session"`
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
	TrainError float64   `json:"train_error"`
	TestError  float64   `json:"test_error"`
	History    []float64 `json:"history"`
}

func source(seed uint64) rand.Source {
	if seed == 0 {
		return net.DefaultSource()
	}
	return rand.NewSource(seed)
}

func loadDataSet(path string) (*dataset.DataSet, error) {
	var ds *dataset.DataSet
	err := file.Load(path, func(r io.Reader) error {
		var err error
		ds, err = dataset.Read(r)
		return err
	})
	return ds, err
}

func train(opts options, _ io.Reader, stdout io.Writer) error {
	cfg := opts.cfg.Train
	if cfg.Hidden < 1 {
		return fmt.Errorf("specify number of hidden layer units: %w", UsageErr)
	}
	if opts.out == "" {
		return fmt.Errorf("specify classifier output filename: %w", UsageErr)
	}
	if len(opts.files) < 1 || len(opts.files) > 3 {
		return fmt.Errorf("specify training, testing and cross-validation data files: %w", UsageErr)
	}
	if len(opts.cfg.Labels) == 0 {
		return fmt.Errorf("specify output labels: %w", UsageErr)
	}

	sets := make([]*dataset.DataSet, 3)
	for i, path := range opts.files {
		ds, err := loadDataSet(path)
		if err != nil {
			return err
		}
		log.Info().Str("file", path).Int("samples", ds.Len()).Msg("loaded data set")
		sets[i] = ds
	}
	if sets[0].Len() == 0 {
		return fmt.Errorf("no training samples in '%s': %w", opts.files[0], classifier.EmptyDataSetErr)
	}

	observer := metrics.New()
	if opts.cfg.Metrics != "" {
		srv := observer.Serve(opts.cfg.Metrics)
		defer srv.Close()
	}

	src := source(cfg.Seed)
	candidates := make([]candidate, 0, cfg.Tries)
	testErrors := buffer.NewStats()
	var best *classifier.Classifier
	var bestHistory []float64
	bestErr := -1.0

	for i := 1; i <= cfg.Tries; i++ {
		network, err := net.New(sets[0].InputDim(), cfg.Hidden, sets[0].OutputDim(), net.Sigmoid, net.LogSigmoid)
		if err != nil {
			return err
		}
		network.RandomizeFrom(src, -cfg.Init, cfg.Init)

		t, err := classifier.NewTrainer(network, opts.cfg.Labels, sets[0], sets[1], sets[2])
		if err != nil {
			return err
		}
		t.WithObserver(observer)
		log.Info().Int("try", i).Str("session", t.ID()).Msg("training classifier")

		ok := t.Teach(cfg.Chunk, cfg.Rate)
		observer.Finish(t.ID(), ok)
		c := candidate{
			Try:        i,
			Session:    t.ID(),
			Converged:  ok,
			Iterations: len(t.History()) - 1,
			History:    t.History(),
		}
		if !ok {
			candidates = append(candidates, c)
			continue
		}

		c.TrainError = t.TrainError()
		c.TestError = t.TestError()
		candidates = append(candidates, c)
		testErrors.Push(c.TestError)
		if bestErr < 0 || c.TestError < bestErr {
			bestErr = c.TestError
			best = t.Classifier()
			bestHistory = t.History()
		}
		if err := file.Save(opts.out+"."+strconv.Itoa(i), t.Classifier()); err != nil {
			return err
		}
	}

	report(stdout, candidates)
	if err := file.SaveJSON(opts.out+".json", candidates); err != nil {
		log.Warn().Err(err).Msg("could not save training report")
	}
	if best == nil {
		return fmt.Errorf("none of the %d classifiers converged", cfg.Tries)
	}

	log.Info().
		Str("file", opts.out).
		Float64("test_error", bestErr).
		Float64("avg_test_error", testErrors.Avg()).
		Int("converged", testErrors.Count()).
		Msg("writing best classifier")
	if len(bestHistory) > 1 {
		fmt.Fprintln(stdout, asciigraph.Plot(bestHistory,
			asciigraph.Height(10),
			asciigraph.Caption("cross-validation error")))
	}
	return file.Save(opts.out, best)
}

func report(w io.Writer, candidates []candidate) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"try", "session", "converged", "iterations", "train error", "test error"})
	for _, c := range candidates {
		table.Append([]string{
			strconv.Itoa(c.Try),
			c.Session,
			strconv.FormatBool(c.Converged),
			strconv.Itoa(c.Iterations),
			sfcmath.Format(c.TrainError),
			sfcmath.Format(c.TestError),
		})
	}
	table.Render()
}
