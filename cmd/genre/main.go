package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iljakuklic/sfc-project/infra/config"
	"github.com/iljakuklic/sfc-project/internal/features"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `%s <mode> <switches>
    mode is one of: train, classify, dataset, features, demo, help
      train -o <classifier_file> -l <colon-separated_labels> -h <hidden_units> [-c chunk] [-t tries] [-r rate] [-s seed] [-m addr] <train.dat> [test.dat [xval.dat]]
          train the classifier, up to three data sets: training, testing, cross-validation
      classify -f <classifier_file> <wav_file>...
          classify audio recordings
      dataset -l <colon-separated_labels> -d <directory> -o <output_file> [-s seed]
          extract, normalize and shuffle the annotated recordings of a directory
      features [-o <output_file>] <wav_file>...
          print the features of the recordings
      demo
          train on a toy data set, then classify vectors read from stdin
    every mode accepts -v (verbose) and -config <file.yaml> (defaults)
`

// UsageErr is returned for invalid command lines.
var UsageErr = errors.New("invalid usage")

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

// options are the parsed switches of a mode, on top of the configured defaults.
type options struct {
	cfg        config.Genre
	out        string
	classifier string
	dir        string
	files      []string
}

type mode func(opts options, stdin io.Reader, stdout io.Writer) error

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	prog := "genre"
	if len(args) > 0 {
		prog = args[0]
	}
	if len(args) < 2 {
		return fmt.Errorf("mode needs to be specified, try: %s help: %w", prog, UsageErr)
	}

	var m mode
	switch args[1] {
	case "help":
		_, err := fmt.Fprintf(stdout, usage, prog)
		return err
	case "train":
		m = train
	case "classify":
		m = classify
	case "dataset":
		m = buildDataSet
	case "features":
		m = showFeatures
	case "demo":
		m = demo
	default:
		return fmt.Errorf("unknown mode '%s': %w", args[1], UsageErr)
	}

	opts, err := parse(args[1], args[2:])
	if err != nil {
		return err
	}
	if opts.cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return m(opts, stdin, stdout)
}

func parse(name string, args []string) (options, error) {
	cfg := config.Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "yaml file with the defaults")
	verbose := fs.Bool("v", false, "verbose output")
	out := fs.String("o", "", "output file")
	cls := fs.String("f", "", "classifier file")
	dir := fs.String("d", "", "data directory")
	labels := fs.String("l", "", "colon separated labels")
	hidden := fs.Int("h", cfg.Train.Hidden, "hidden units")
	chunk := fs.Int("c", cfg.Train.Chunk, "samples per weight update, 0 for the whole set")
	tries := fs.Int("t", cfg.Train.Tries, "number of classifiers to train")
	rate := fs.Float64("r", cfg.Train.Rate, "initial learning rate")
	seed := fs.Uint64("s", cfg.Train.Seed, "random seed, 0 seeds from the clock")
	metrics := fs.String("m", cfg.Metrics, "address to serve the metrics on")

	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("%s: %w", err.Error(), UsageErr)
	}
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return options{}, err
		}
		cfg = c
	}

	// explicit switches override the configuration
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = *verbose
		case "l":
			cfg.Labels = splitLabels(*labels)
		case "h":
			cfg.Train.Hidden = *hidden
		case "c":
			cfg.Train.Chunk = *chunk
		case "t":
			cfg.Train.Tries = *tries
		case "r":
			cfg.Train.Rate = *rate
		case "s":
			cfg.Train.Seed = *seed
		case "m":
			cfg.Metrics = *metrics
		}
	})

	return options{
		cfg:        cfg,
		out:        *out,
		classifier: *cls,
		dir:        *dir,
		files:      fs.Args(),
	}, nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

func (o options) extractor() *features.MFCC {
	m := features.NewMFCC()
	if o.cfg.Features.Coefficients > 0 {
		m.WithCoefficients(o.cfg.Features.Coefficients)
	}
	return m
}
