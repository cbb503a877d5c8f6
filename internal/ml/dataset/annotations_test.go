package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sfcmath "github.com/iljakuklic/sfc-project/internal/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotations(t *testing.T) {

	a, err := ParseAnnotations(strings.NewReader("80 rock\n\n  15 heavy metal \n0.5\tjazz\n"))
	require.NoError(t, err)
	assert.Equal(t, Annotations{"rock": 80, "heavy metal": 15, "jazz": 0.5}, a)

	target := a.Target([]string{"rock", "heavy metal", "jazz", "pop", "classic"})
	assert.InDeltaSlice(t, []float64{
		math.Log(0.8),
		math.Log(0.15),
		math.Log(0.005),
		math.Log(0.002),
		math.Log(0.002),
	}, target, 1e-15)

	full := Annotations{"x": 100}
	assert.Equal(t, []float64{math.Log(0.998)}, full.Target([]string{"x"}))
}

func TestParseAnnotations_Malformed(t *testing.T) {

	tests := map[string]string{
		"score":   "many rock\n",
		"label":   "80\n",
		"garbled": "80 rock\nx80 pop\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAnnotations(strings.NewReader(input))
			assert.True(t, errors.Is(err, sfcmath.FormatErr), "%v", err)
		})
	}
}

type stubExtractor struct {
	frames map[string][][]float64
	calls  []string
}

func (s *stubExtractor) Extract(path string) ([][]float64, error) {
	s.calls = append(s.calls, filepath.Base(path))
	f, ok := s.frames[filepath.Base(path)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return f, nil
}

func TestDataSet_LoadDir(t *testing.T) {

	dir := t.TempDir()
	for name, content := range map[string]string{
		"b.wav":     "",
		"b.tag":     "60 rock\n",
		"a.wav":     "",
		"a.tag":     "20 rock\n90 jazz\n",
		"notes.txt": "ignored",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.wav"), 0755))

	extractor := &stubExtractor{frames: map[string][][]float64{
		"a.wav": {{1, 1}, {2, 2}},
		"b.wav": {{3, 3}},
	}}

	d := New()
	require.NoError(t, d.LoadDir(dir, []string{"jazz", "rock"}, extractor))

	assert.Equal(t, []string{"a.wav", "b.wav"}, extractor.calls)
	require.Equal(t, 3, d.Len())
	assert.Equal(t, []float64{math.Log(0.9), math.Log(0.2)}, d.Sample(0).Output)
	assert.Equal(t, []float64{math.Log(0.002), math.Log(0.6)}, d.Sample(2).Output)
	assert.Equal(t, []float64{3, 3}, d.Sample(2).Input)
}

func TestDataSet_LoadRecording(t *testing.T) {

	dir := t.TempDir()
	extractor := &stubExtractor{frames: map[string][][]float64{
		"x.wav": {{1}, {2}, {3}},
	}}

	// no labels, no annotations needed
	d := New()
	require.NoError(t, d.LoadRecording(filepath.Join(dir, "x"), nil, extractor))
	assert.Equal(t, 3, d.Len())
	assert.Empty(t, d.Sample(0).Output)

	// missing annotations
	err := d.LoadRecording(filepath.Join(dir, "x"), []string{"rock"}, extractor)
	assert.Error(t, err)

	// missing recording
	err = d.LoadRecording(filepath.Join(dir, "y"), nil, extractor)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = New().LoadDir(filepath.Join(dir, "none"), nil, extractor)
	assert.Error(t, err)
}
