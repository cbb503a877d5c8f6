package main

import (
	"bufio"
	"fmt"
	"io"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/storage/file"
)

func showFeatures(opts options, _ io.Reader, stdout io.Writer) error {
	if len(opts.files) == 0 {
		return fmt.Errorf("specify files to extract features from: %w", UsageErr)
	}

	out := stdout
	if opts.out != "" {
		f, err := file.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	extractor := opts.extractor()
	for _, path := range opts.files {
		frames, err := extractor.Extract(path)
		if err != nil {
			return err
		}
		for _, f := range frames {
			if _, err := fmt.Fprintln(w, sfcmath.FormatVector(f)); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
