package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Overrides are environment settings applied on top of a loaded config.
// Unset variables leave the config untouched.
type Overrides struct {
	FPS         *int           `env:"BRIX_FPS"`
	Mode        *string        `env:"BRIX_MODE"`
	TileSize    *float64       `env:"BRIX_TILE_SIZE"`
	SubmitDelay *time.Duration `env:"BRIX_SUBMIT_DELAY"`
	Theme       *string        `env:"BRIX_THEME"`
}

// ParseOverrides reads the process environment.
func ParseOverrides() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ParseOverridesFrom reads the given environment instead of the process's.
func ParseOverridesFrom(environ map[string]string) (Overrides, error) {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

func (o Overrides) Apply(c *Config) {
	if o.FPS != nil {
		c.FPS = *o.FPS
	}
	if o.Mode != nil {
		c.Mode = *o.Mode
	}
	if o.TileSize != nil {
		c.TileSize = *o.TileSize
	}
	if o.SubmitDelay != nil {
		c.SubmitDelay = o.SubmitDelay.Seconds()
	}
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
}

// ApplyEnv applies the process environment to c.
func (c *Config) ApplyEnv() error {
	o, err := ParseOverrides()
	if err != nil {
		return err
	}
	o.Apply(c)
	return nil
}
