package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iljakuklic/sfc-project/internal/buffer"
	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
)

// WriteTo writes the data set in the cache format:
// a header line with the input sums, sums of squares and the normalized flag,
// followed by one "input output" line per sample.
func (d *DataSet) WriteTo(w io.Writer) (int64, error) {
	if len(d.samples) == 0 {
		return 0, fmt.Errorf("nothing to write: %w", EmptyErr)
	}
	bw := bufio.NewWriter(w)
	var n int64
	write := func(s string) error {
		c, err := bw.WriteString(s)
		n += int64(c)
		return err
	}

	flag := "0"
	if d.normalized {
		flag = "1"
	}
	header := fmt.Sprintf("%s %s %s\n",
		sfcmath.FormatVector(d.moments.Sum()),
		sfcmath.FormatVector(d.moments.SumSq()),
		flag)
	if err := write(header); err != nil {
		return n, err
	}
	for _, s := range d.samples {
		line := sfcmath.FormatVector(s.Input) + " " + sfcmath.FormatVector(s.Output) + "\n"
		if err := write(line); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Read reads a data set written by WriteTo.
func Read(r io.Reader) (*DataSet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing header: %w", io.ErrUnexpectedEOF)
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 3 {
		return nil, fmt.Errorf("header has %d fields instead of 3: %w", len(fields), sfcmath.FormatErr)
	}
	sum, err := sfcmath.ParseVector(fields[0])
	if err != nil {
		return nil, fmt.Errorf("could not parse sum: %w", err)
	}
	sumSq, err := sfcmath.ParseVector(fields[1])
	if err != nil {
		return nil, fmt.Errorf("could not parse sum of squares: %w", err)
	}
	normalized, err := strconv.ParseBool(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid normalized flag '%s': %w", fields[2], sfcmath.FormatErr)
	}

	samples := make([]Sample, 0)
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d has %d fields instead of 2: %w", line, len(fields), sfcmath.FormatErr)
		}
		in, err := sfcmath.ParseVector(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(in) != len(sum) {
			return nil, fmt.Errorf("line %d: inconsistent dimensions %d vs %d: %w", line, len(in), len(sum), sfcmath.FormatErr)
		}
		out, err := sfcmath.ParseVector(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, Sample{Input: in, Output: out})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	moments, err := buffer.RestoreMoments(len(samples), sum, sumSq)
	if err != nil {
		return nil, fmt.Errorf("could not restore statistics: %w", err)
	}
	return &DataSet{
		samples:    samples,
		moments:    moments,
		normalized: normalized,
	}, nil
}
