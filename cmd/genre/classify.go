package main

import (
	"fmt"
	"io"
	"strings"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/iljakuklic/sfc-project/internal/ml/classifier"
	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"github.com/iljakuklic/sfc-project/internal/storage/file"
	"github.com/olekukonko/tablewriter"
)

const barSize = 40

func loadClassifier(path string) (*classifier.Classifier, error) {
	var c *classifier.Classifier
	err := file.Load(path, func(r io.Reader) error {
		var err error
		c, err = classifier.Read(r, net.DefaultRegistry())
		return err
	})
	return c, err
}

func classify(opts options, _ io.Reader, stdout io.Writer) error {
	if opts.classifier == "" {
		return fmt.Errorf("specify classifier filename: %w", UsageErr)
	}
	if len(opts.files) == 0 {
		return fmt.Errorf("nothing to classify: %w", UsageErr)
	}

	c, err := loadClassifier(opts.classifier)
	if err != nil {
		return err
	}
	extractor := opts.extractor()

	for _, path := range opts.files {
		ds := dataset.New()
		if err := ds.LoadRecording(strings.TrimSuffix(path, dataset.AudioExt), nil, extractor); err != nil {
			return err
		}
		result := c.ExecSet(ds)

		fmt.Fprintf(stdout, "=== %s\n--- %s\n", path, sfcmath.FormatVector(result))
		table := tablewriter.NewWriter(stdout)
		table.SetBorder(false)
		table.SetHeader([]string{"label", "score", ""})
		for i, l := range c.Labels() {
			s := classifier.Score(result[i])
			table.Append([]string{l, bar(s), fmt.Sprintf("%d%%", sfcmath.Percent(s))})
		}
		table.Render()
		fmt.Fprintln(stdout)
	}
	return nil
}

func bar(score float64) string {
	marks := int(barSize*score + 0.5)
	if marks > barSize {
		marks = barSize
	}
	return "[" + strings.Repeat("#", marks) + strings.Repeat(" ", barSize-marks) + "]"
}
