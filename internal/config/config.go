package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

const (
	DefaultFPS         = 30
	DefaultTileSize    = 20.0
	DefaultSubmitDelay = 1.5
	DefaultTheme       = "brand"
	MaxFPS             = 240
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Title       string       `yaml:"title"`
	FPS         int          `yaml:"fps"`
	Mode        string       `yaml:"mode"`
	TileSize    float64      `yaml:"tile_size"`
	SubmitDelay float64      `yaml:"submit_delay_seconds"`
	Theme       string       `yaml:"theme"`
	Camera      CameraConfig `yaml:"camera"`
	Rigs        []RigConfig  `yaml:"rigs"`
}

type CameraConfig struct {
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Distance  float64 `yaml:"distance"`
}

type RigConfig struct {
	ID      string   `yaml:"id"`
	Palette []string `yaml:"palette"`
	Action  string   `yaml:"action"`
	Delay   float64  `yaml:"delay"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
}

// DefaultConfig is the hero page.
func DefaultConfig() *Config {
	return GetPreset("hero")
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. A rigs list in data replaces the
// default rigs entirely.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Rigs = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Rigs) == 0 {
		cfg.Rigs = DefaultConfig().Rigs
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Rigs = make([]RigConfig, len(c.Rigs))
	for i, r := range c.Rigs {
		r.Palette = append([]string(nil), r.Palette...)
		out.Rigs[i] = r
	}
	return &out
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks every field and every rig, wrapping the first problem
// found in ErrInvalid.
func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return invalid("fps %d out of range 1..%d", c.FPS, MaxFPS)
	}
	if _, err := rig.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.TileSize <= 0 {
		return invalid("tile_size must be positive")
	}
	if c.SubmitDelay < 0 {
		return invalid("submit_delay_seconds must not be negative")
	}
	if len(c.Rigs) == 0 {
		return invalid("no rigs")
	}
	seen := make(map[string]bool, len(c.Rigs))
	for i, r := range c.Rigs {
		if r.ID == "" {
			return invalid("rig %d: missing id", i)
		}
		if seen[r.ID] {
			return invalid("rig %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true
		if _, err := r.spec(); err != nil {
			return fmt.Errorf("%w: rig %q: %w", ErrInvalid, r.ID, err)
		}
	}
	return nil
}

func (r RigConfig) spec() (page.Spec, error) {
	pal, err := rig.NewPalette(r.Palette...)
	if err != nil {
		return page.Spec{}, err
	}
	a, err := rig.ParseAction(r.Action)
	if err != nil {
		return page.Spec{}, err
	}
	if r.Delay < 0 {
		return page.Spec{}, errors.New("negative delay")
	}
	return page.Spec{
		ID:       r.ID,
		Palette:  pal,
		Action:   a,
		Delay:    r.Delay,
		Position: rig.Vec2{X: r.X, Y: r.Y},
	}, nil
}

// Specs converts the rigs for the page composer.
func (c *Config) Specs() ([]page.Spec, error) {
	out := make([]page.Spec, len(c.Rigs))
	for i, r := range c.Rigs {
		s, err := r.spec()
		if err != nil {
			return nil, fmt.Errorf("rig %q: %w", r.ID, err)
		}
		out[i] = s
	}
	return out, nil
}

func (c *Config) RenderMode() rig.Mode {
	m, err := rig.ParseMode(c.Mode)
	if err != nil {
		return rig.Mode2D
	}
	return m
}

func (c *Config) SubmitDelayDuration() time.Duration {
	return time.Duration(c.SubmitDelay * float64(time.Second))
}

// NewCamera returns a camera at the configured orbit. An empty camera
// block keeps the defaults.
func (c *Config) NewCamera() *scene.Camera {
	cam := scene.NewCamera()
	if c.Camera != (CameraConfig{}) {
		cam.SetOrbit(c.Camera.Azimuth, c.Camera.Elevation, c.Camera.Distance)
	}
	return cam
}

// Composer builds the page state for this config.
func (c *Config) Composer() (*page.Composer, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return page.NewComposer(specs, c.RenderMode()), nil
}
