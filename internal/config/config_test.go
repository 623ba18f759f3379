// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sglib/input"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate\nhave %v\nwant nil", err)
	}
	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
	keys, err := cfg.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	// An empty document is the default configuration.
	have, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, have)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
scene = "arm.yaml"
frames = 10
step = 0.5
log_level = "DEBUG"
watch = true
hold = ["up", "Pad4"]
`))
	require.NoError(t, err)
	want := Default()
	want.Scene = "arm.yaml"
	want.Frames = 10
	want.Step = 0.5
	want.LogLevel = "DEBUG"
	want.Watch = true
	want.Hold = []string{"up", "Pad4"}
	if !assert.ObjectsAreEqual(want, cfg) {
		t.Fatalf("Parse\nhave %+v\nwant %+v", cfg, want)
	}
	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
	keys, err := cfg.Keys()
	require.NoError(t, err)
	assert.Equal(t, []input.Key{input.KeyUp, input.KeyPad4}, keys)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`frame = 3`))
	var strict *toml.StrictMissingError
	assert.True(t, errors.As(err, &strict), "unknown key: %v", err)

	_, err = Parse([]byte(`frames = "ten"`))
	assert.Error(t, err)

	for _, x := range [...]struct {
		doc string
		err error
	}{
		{`frames = -1`, errFrames},
		{`step = 0.0`, errStep},
		{`scene = ""`, errScene},
	} {
		if _, err := Parse([]byte(x.doc)); !errors.Is(err, x.err) {
			t.Fatalf("Parse(%q)\nhave %v\nwant %v", x.doc, err, x.err)
		}
	}
	_, err = Parse([]byte(`log_level = "loud"`))
	assert.Error(t, err)
	_, err = Parse([]byte(`hold = ["nokey"]`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg.Frames = 3
	cfg.Dump = true
	cfg.Hold = []string{"left"}
	b, err := cfg.Marshal()
	require.NoError(t, err)
	name := filepath.Join(dir, "sgdemo.toml")
	require.NoError(t, os.WriteFile(name, b, 0o644))
	have, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, cfg, have)

	_, err = Load(dir)
	assert.Error(t, err)
}
