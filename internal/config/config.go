// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package config holds the configuration of the sgdemo
// command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/sglib/input"
)

const prefix = "config: "

func newErr(reason string) error { return errors.New(prefix + reason) }

var (
	errFrames = newErr("frames must not be negative")
	errStep   = newErr("step must be positive")
	errScene  = newErr("no scene file")
)

// Config is used to configure a demo run.
type Config struct {
	// Scene file to load.
	//
	// Default is "scene.yaml".
	Scene string `toml:"scene"`

	// Directory that assets are loaded from. An empty
	// value means the directory of Scene.
	//
	// Default is "".
	Assets string `toml:"assets"`

	// Number of frames to run. Zero runs until the
	// process is interrupted.
	//
	// Default is 60.
	Frames int `toml:"frames"`

	// Time step of each frame, in seconds.
	//
	// Default is 1/60.
	Step float32 `toml:"step"`

	// Log level ("debug", "info", "warn" or "error").
	//
	// Default is "info".
	LogLevel string `toml:"log_level"`

	// Reload the scene when its file changes.
	//
	// Default is false.
	Watch bool `toml:"watch"`

	// Print the graph after loading it.
	//
	// Default is false.
	Dump bool `toml:"dump"`

	// Keys held down during the run (e.g., "up",
	// "pad4"). Cameras with movement enabled follow them.
	//
	// Default is none.
	Hold []string `toml:"hold,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Scene:    "scene.yaml",
		Assets:   "",
		Frames:   60,
		Step:     1.0 / 60,
		LogLevel: "info",
		Watch:    false,
		Dump:     false,
	}
}

// Parse decodes b over the default configuration.
// Unknown keys are an error.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf(prefix+"%w", err)
	}
	return cfg, cfg.Validate()
}

// Load reads the named file and decodes it with Parse.
// A missing file yields the default configuration.
func Load(name string) (Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf(prefix+"%w", err)
	}
	return Parse(b)
}

// Marshal encodes cfg as TOML.
func (cfg *Config) Marshal() ([]byte, error) {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf(prefix+"%w", err)
	}
	return b, nil
}

// Validate checks that cfg can be used.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Scene == "":
		return errScene
	case cfg.Frames < 0:
		return errFrames
	case cfg.Step <= 0:
		return errStep
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	_, err := cfg.Keys()
	return err
}

// Level returns the slog level named by LogLevel.
func (cfg *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return 0, fmt.Errorf(prefix+"log_level: %w", err)
	}
	return l, nil
}

// Keys returns the keys named by Hold.
func (cfg *Config) Keys() ([]input.Key, error) {
	keys := make([]input.Key, 0, len(cfg.Hold))
	for _, s := range cfg.Hold {
		k, err := input.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf(prefix+"hold %q: %w", s, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
