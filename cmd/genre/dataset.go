package main

import (
	"fmt"
	"io"

	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/storage/file"
	"github.com/rs/zerolog/log"
)

func buildDataSet(opts options, _ io.Reader, _ io.Writer) error {
	if len(opts.cfg.Labels) == 0 {
		return fmt.Errorf("specify desired labels: %w", UsageErr)
	}
	if opts.dir == "" {
		return fmt.Errorf("specify data directory: %w", UsageErr)
	}
	if opts.out == "" {
		return fmt.Errorf("specify output filename: %w", UsageErr)
	}

	data := dataset.New()
	log.Info().Str("dir", opts.dir).Msg("loading data and extracting features")
	if err := data.LoadDir(opts.dir, opts.cfg.Labels, opts.extractor()); err != nil {
		return err
	}
	log.Info().Int("samples", data.Len()).Msg("normalizing data")
	data.Normalize()
	log.Info().Msg("shuffling data")
	data.Shuffle(source(opts.cfg.Train.Seed))
	log.Info().Str("file", opts.out).Msg("writing data")
	return file.Save(opts.out, data)
}
