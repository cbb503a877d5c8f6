package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// AudioExt is the extension of the recordings.
	AudioExt = ".wav"
	// TagExt is the extension of the annotation files.
	TagExt = ".tag"
)

// Extractor turns a recording into a sequence of feature vectors.
type Extractor interface {
	Extract(path string) ([][]float64, error)
}

// LoadRecording adds the frames of <base>.wav with the target built from <base>.tag.
// The annotations are not read when no labels are requested.
func (d *DataSet) LoadRecording(base string, labels []string, extractor Extractor) error {
	target := make([]float64, 0)
	if len(labels) > 0 {
		a, err := LoadAnnotations(base + TagExt)
		if err != nil {
			return err
		}
		target = a.Target(labels)
	}

	frames, err := extractor.Extract(base + AudioExt)
	if err != nil {
		return fmt.Errorf("could not extract features of '%s': %w", base, err)
	}
	for _, f := range frames {
		if err := d.Add(f, target); err != nil {
			return err
		}
	}
	log.Debug().Str("recording", base).Int("frames", len(frames)).Msg("loaded")
	return nil
}

// LoadDir loads every recording of the directory, non-recursively, in name order.
func (d *DataSet) LoadDir(dir string, labels []string, extractor Extractor) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read directory '%s': %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == AudioExt {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		base := filepath.Join(dir, strings.TrimSuffix(name, AudioExt))
		if err := d.LoadRecording(base, labels, extractor); err != nil {
			return err
		}
	}
	log.Info().Str("dir", dir).Int("recordings", len(names)).Int("samples", d.Len()).Msg("loaded directory")
	return nil
}
