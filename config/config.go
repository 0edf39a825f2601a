// Package config holds the settings shared by the hypertile commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"hypertile/render"
	"hypertile/tiling"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the on-disk configuration. Zero fields are filled from Default
// by Load.
type Config struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`

	VisibilityRadius float64 `yaml:"visibility_radius" toml:"visibility_radius"`
	SearchRadius     float64 `yaml:"search_radius" toml:"search_radius"`
	MaxVisits        int     `yaml:"max_visits" toml:"max_visits"`
	PanClampRadius   float64 `yaml:"pan_clamp_radius" toml:"pan_clamp_radius"`

	MarkerSize float64 `yaml:"marker_size" toml:"marker_size"`
	Canvas     string  `yaml:"canvas" toml:"canvas"`
	Background string  `yaml:"background" toml:"background"`
	Outline    string  `yaml:"outline" toml:"outline"`

	StatsPeriodMS int `yaml:"stats_period_ms" toml:"stats_period_ms"`

	Addr  string `yaml:"addr" toml:"addr"`
	Scene string `yaml:"scene" toml:"scene"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:            500,
		Height:           500,
		VisibilityRadius: 0.95,
		SearchRadius:     0.2,
		MaxVisits:        100000,
		PanClampRadius:   0.9,
		MarkerSize:       render.DefaultMarkerSize,
		Background:       "#888",
		Outline:          "#000",
		StatsPeriodMS:    5000,
		Addr:             ":8080",
		Scene:            "heptagons",
	}
}

// decoder unmarshals a whole document into v.
type decoder func(r io.Reader, v any) error

func yamlDecode(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil // empty file
	}
	return err
}

func tomlDecode(r io.Reader, v any) error {
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	return d.Decode(v)
}

func decoderFor(path string) (decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlDecode, nil
	case ".toml":
		return tomlDecode, nil
	}
	return nil, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
}

// Load reads a YAML or TOML file, chosen by extension, over Default. An
// empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	dec, err := decoderFor(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(path, data, dec)
}

// Parse is Load for in-memory data; format is "yaml" or "toml".
func Parse(format string, data []byte) (Config, error) {
	dec, err := decoderFor("config." + format)
	if err != nil {
		return Config{}, err
	}
	return decode("<"+format+">", data, dec)
}

func decode(name string, data []byte, dec decoder) (Config, error) {
	cfg := Default()
	if err := dec(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks ranges and style strings.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Width, c.Height))
	}
	if !(c.VisibilityRadius > 0 && c.VisibilityRadius < 1) {
		errs = append(errs, fmt.Errorf("%w: visibility_radius %v not in (0, 1)", ErrInvalid, c.VisibilityRadius))
	}
	if !(c.SearchRadius > 0 && !math.IsInf(c.SearchRadius, 1)) {
		errs = append(errs, fmt.Errorf("%w: search_radius %v must be positive and finite", ErrInvalid, c.SearchRadius))
	}
	if c.MaxVisits < 0 {
		errs = append(errs, fmt.Errorf("%w: max_visits %d", ErrInvalid, c.MaxVisits))
	}
	if !(c.PanClampRadius > 0 && c.PanClampRadius < 1) {
		errs = append(errs, fmt.Errorf("%w: pan_clamp_radius %v not in (0, 1)", ErrInvalid, c.PanClampRadius))
	}
	if !(c.MarkerSize > 0 && !math.IsInf(c.MarkerSize, 1)) {
		errs = append(errs, fmt.Errorf("%w: marker_size %v", ErrInvalid, c.MarkerSize))
	}
	if c.StatsPeriodMS < 0 {
		errs = append(errs, fmt.Errorf("%w: stats_period_ms %d", ErrInvalid, c.StatsPeriodMS))
	}
	for _, s := range []struct{ name, v string }{
		{"canvas", c.Canvas}, {"background", c.Background}, {"outline", c.Outline},
	} {
		if _, err := render.ParseStyle(s.v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, s.name, err))
		}
	}
	return errors.Join(errs...)
}

// TilingOptions returns the traversal settings.
func (c Config) TilingOptions() tiling.Options {
	return tiling.Options{
		VisibilityRadius: c.VisibilityRadius,
		SearchRadius:     c.SearchRadius,
		MaxVisits:        c.MaxVisits,
	}
}

// RenderOptions returns the disk painting settings. Call Validate first;
// bad style strings are treated as unset here.
func (c Config) RenderOptions() render.Options {
	canvas, _ := render.ParseStyle(c.Canvas)
	bg, _ := render.ParseStyle(c.Background)
	outline, _ := render.ParseStyle(c.Outline)
	return render.Options{
		Canvas:     canvas,
		Background: bg,
		Outline:    outline,
		MarkerSize: c.MarkerSize,
	}
}

// StatsPeriod is how often frame statistics are logged. Zero disables them.
func (c Config) StatsPeriod() time.Duration {
	return time.Duration(c.StatsPeriodMS) * time.Millisecond
}
