package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iljakuklic/sfc-project/internal/storage"
	"github.com/rs/zerolog/log"
)

// Create creates the file at the given path, making its directory if needed.
func Create(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	// check if the directory exists
	info, err := os.Stat(dir)
	if err != nil {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("could not make dir: %s: %w", dir, err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path given is not a directory: %s", dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create file '%s': %w", path, err)
	}
	return f, nil
}

// Save writes the value into the file at the given path.
func Save(path string, value io.WriterTo) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	_, err = value.WriteTo(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not write to file '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close file '%s': %w", path, err)
	}
	log.Debug().Str("file", path).Msg("saved")
	return nil
}

// Load opens the file at the given path and passes it to the decode function.
func Load(path string, decode func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not open file '%s': %w", path, storage.NotFoundErr)
		}
		return fmt.Errorf("could not open file '%s': %w", path, err)
	}
	defer f.Close()
	if err := decode(f); err != nil {
		return fmt.Errorf("could not decode file '%s': %s: %w", path, err.Error(), storage.CouldNotLoadErr)
	}
	return nil
}

// SaveJSON writes the value as indented json.
func SaveJSON(path string, value interface{}) error {
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal '%+v': %w", value, err)
	}
	f, err := Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("could not write bytes to file '%s': %w", path, err)
	}
	return nil
}

// LoadJSON reads the json file into the value.
func LoadJSON(path string, value interface{}) error {
	return Load(path, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(value)
	})
}
