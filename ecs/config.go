package ecs

import (
	"io"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config tunes a World.
type Config struct {
	// Workers bounds the goroutines used by systems that opted into parallel processing.
	Workers int `yaml:"workers"`
	// InitialCapacity preallocates entity storage.
	InitialCapacity int `yaml:"initial_capacity"`
}

// DefaultConfig returns the configuration used when NewWorld gets no WithConfig option.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// LoadConfig decodes a YAML document on top of DefaultConfig. An empty document
// yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "ecs: decode config")
	}
	if cfg.InitialCapacity < 0 {
		return Config{}, errors.Errorf("ecs: initial_capacity must not be negative, got %d", cfg.InitialCapacity)
	}
	return cfg.clamped(), nil
}

// clamped returns c with at least one worker and a non-negative capacity.
func (c Config) clamped() Config {
	c.Workers = max(c.Workers, 1)
	c.InitialCapacity = max(c.InitialCapacity, 0)
	return c
}
