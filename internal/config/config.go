// Package config loads splinemap settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"splinemap/internal/curve"
	"splinemap/internal/layer"
	"splinemap/internal/spline"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config mirrors the TOML file. Command-line flags are applied on top of it.
type Config struct {
	Waypoints       string         `toml:"waypoints"`
	Base            string         `toml:"base"`
	ShowArrows      bool           `toml:"show_arrows"`
	ArrowPosition   curve.Position `toml:"arrow_position"`
	ArrowIcon       string         `toml:"arrow_icon"`
	IconURL         string         `toml:"icon_url"`
	IconSize        float64        `toml:"icon_size"`
	ResampleDensity int            `toml:"resample_density"`
	Alpha           float64        `toml:"alpha"`
	LogFile         string         `toml:"log_file"`
	Debug           bool           `toml:"debug"`
}

func Default() Config {
	return Config{
		ShowArrows:      true,
		ArrowPosition:   curve.End,
		IconSize:        layer.DefaultIconSize,
		ResampleDensity: curve.DefaultDensity,
		Alpha:           spline.DefaultAlpha,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.ResampleDensity < 2:
		return fmt.Errorf("%w: resample_density must be at least 2, got %d", ErrInvalid, c.ResampleDensity)
	case c.Alpha < 0 || c.Alpha > 1:
		return fmt.Errorf("%w: alpha must be within [0, 1], got %g", ErrInvalid, c.Alpha)
	case c.IconSize <= 0:
		return fmt.Errorf("%w: icon_size must be positive, got %g", ErrInvalid, c.IconSize)
	case c.ArrowPosition < curve.End || c.ArrowPosition > curve.Center:
		return fmt.Errorf("%w: unknown arrow position %d", ErrInvalid, int(c.ArrowPosition))
	}
	return nil
}

// Layer returns the generation settings for layer.Layer.
func (c Config) Layer() layer.Config {
	return layer.Config{
		ShowArrows:      c.ShowArrows,
		ArrowPosition:   c.ArrowPosition,
		ArrowIcon:       c.ArrowIcon,
		IconSize:        c.IconSize,
		ResampleDensity: c.ResampleDensity,
		Alpha:           c.Alpha,
	}
}
