package math

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FormatErr is returned when a vector or matrix token does not follow the notation.
var FormatErr = errors.New("malformed notation")

// FormatVector renders the vector as "[n](v1,v2,...)".
// The rendering contains no whitespace, so it can be read back as a single token.
func FormatVector(v []float64) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strconv.Itoa(len(v)))
	sb.WriteString("]")
	writeTuple(&sb, v)
	return sb.String()
}

// FormatMatrix renders the matrix as "[r,c]((a,b),(c,d))".
func FormatMatrix(m mat.Matrix) string {
	r, c := m.Dims()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%d,%d](", r, c))
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		mat.Row(row, i, m)
		writeTuple(&sb, row)
	}
	sb.WriteString(")")
	return sb.String()
}

// ParseVector parses a token produced by FormatVector.
func ParseVector(token string) ([]float64, error) {
	dims, body, err := header(token, 1)
	if err != nil {
		return nil, err
	}
	v, err := tuple(body)
	if err != nil {
		return nil, err
	}
	if len(v) != dims[0] {
		return nil, fmt.Errorf("vector '%s' declares %d elements but has %d: %w", token, dims[0], len(v), FormatErr)
	}
	return v, nil
}

// ParseMatrix parses a token produced by FormatMatrix.
func ParseMatrix(token string) (*mat.Dense, error) {
	dims, body, err := header(token, 2)
	if err != nil {
		return nil, err
	}
	r, c := dims[0], dims[1]
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("matrix '%s' is empty: %w", token, FormatErr)
	}
	if len(body) < 2 || body[0] != '(' || body[len(body)-1] != ')' {
		return nil, fmt.Errorf("matrix '%s' rows are not enclosed: %w", token, FormatErr)
	}
	rows := splitRows(body[1 : len(body)-1])
	if len(rows) != r {
		return nil, fmt.Errorf("matrix '%s' declares %d rows but has %d: %w", token, r, len(rows), FormatErr)
	}
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		v, err := tuple(row)
		if err != nil {
			return nil, err
		}
		if len(v) != c {
			return nil, fmt.Errorf("matrix row %d has %d columns instead of %d: %w", i, len(v), c, FormatErr)
		}
		data = append(data, v...)
	}
	return mat.NewDense(r, c, data), nil
}

func writeTuple(sb *strings.Builder, v []float64) {
	sb.WriteString("(")
	for i, f := range v {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(Exact(f))
	}
	sb.WriteString(")")
}

// header splits "[d1,d2](...)" into its dimensions and the remaining body.
func header(token string, n int) ([]int, string, error) {
	end := strings.IndexByte(token, ']')
	if !strings.HasPrefix(token, "[") || end < 0 {
		return nil, "", fmt.Errorf("missing dimensions in '%s': %w", token, FormatErr)
	}
	parts := strings.Split(token[1:end], ",")
	if len(parts) != n {
		return nil, "", fmt.Errorf("expected %d dimensions in '%s': %w", n, token, FormatErr)
	}
	dims := make([]int, n)
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 {
			return nil, "", fmt.Errorf("invalid dimension '%s' in '%s': %w", p, token, FormatErr)
		}
		dims[i] = d
	}
	return dims, token[end+1:], nil
}

// tuple parses "(a,b,c)".
func tuple(s string) ([]float64, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple '%s': %w", s, FormatErr)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	v := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s': %w", p, FormatErr)
		}
		v[i] = f
	}
	return v, nil
}

// splitRows splits "(a,b),(c,d)" into "(a,b)" and "(c,d)".
func splitRows(s string) []string {
	rows := make([]string, 0)
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				rows = append(rows, s[start:i+1])
			}
		}
	}
	return rows
}
