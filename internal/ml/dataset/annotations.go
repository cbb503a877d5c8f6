package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
)

const (
	minScore = 0.002
	maxScore = 0.998
)

// Annotations maps a label to its score in percent.
type Annotations map[string]float64

// ParseAnnotations reads "score label" lines.
// The label is the rest of the line and may contain spaces.
func ParseAnnotations(r io.Reader) (Annotations, error) {
	a := make(Annotations)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		i := strings.IndexAny(text, " \t")
		if i < 0 {
			return nil, fmt.Errorf("line %d: missing label: %w", line, sfcmath.FormatErr)
		}
		score, err := strconv.ParseFloat(text[:i], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid score '%s': %w", line, text[:i], sfcmath.FormatErr)
		}
		a[strings.TrimSpace(text[i:])] = score
	}
	return a, scanner.Err()
}

// LoadAnnotations reads the annotations file at the given path.
func LoadAnnotations(path string) (Annotations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open annotations '%s': %w", path, err)
	}
	defer f.Close()
	return ParseAnnotations(f)
}

// Target builds the desired output for the given labels.
// Scores are clamped into (0,1) and mapped to the log domain of the network output.
// Labels without an annotation score 0.
func (a Annotations) Target(labels []string) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		out[i] = math.Log(sfcmath.Clamp(a[l]/100, minScore, maxScore))
	}
	return out
}
