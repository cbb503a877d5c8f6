package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Genre holds the defaults of the command line.
type Genre struct {
	Verbose  bool     `yaml:"verbose"`
	Metrics  string   `yaml:"metrics"`
	Labels   []string `yaml:"labels"`
	Train    Train    `yaml:"train"`
	Features Features `yaml:"features"`
}

// Train holds the training parameters.
type Train struct {
	Hidden int     `yaml:"hidden"`
	Chunk  int     `yaml:"chunk"`
	Tries  int     `yaml:"tries"`
	Rate   float64 `yaml:"rate"`
	Seed   uint64  `yaml:"seed"`
	Init   float64 `yaml:"init"`
}

// Features holds the feature extraction parameters.
type Features struct {
	Coefficients int `yaml:"coefficients"`
}

// Default returns the built-in defaults.
func Default() Genre {
	return Genre{
		Train: Train{
			Chunk: 20,
			Tries: 1,
			Rate:  0.5,
			Init:  1,
		},
		Features: Features{
			Coefficients: 15,
		},
	}
}

// Load reads the yaml file on top of the defaults.
func Load(path string) (Genre, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not load config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal config '%s': %w", path, err)
	}
	log.Info().Str("config", path).Msg("loaded config")
	return cfg, nil
}

// MustLoad loads the config or panics.
func MustLoad(path string) Genre {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
