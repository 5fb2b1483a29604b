package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FPS != DefaultFPS {
		t.Errorf("expected fps %d, got %d", DefaultFPS, cfg.FPS)
	}
	if len(cfg.Rigs) != 3 {
		t.Fatalf("expected the three hero rigs, got %d", len(cfg.Rigs))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.SubmitDelayDuration() != 1500*time.Millisecond {
		t.Errorf("submit delay = %v", cfg.SubmitDelayDuration())
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("solo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.RenderMode() != rig.Mode3D {
		t.Errorf("solo should render in 3d, got %s", cfg.RenderMode())
	}

	cfg.Rigs[0].Palette[0] = "#000000"
	if GetPreset("solo").Rigs[0].Palette[0] == "#000000" {
		t.Error("GetPreset must return a copy")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"hero", "parade", "solo"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListPresets()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"fps too high", func(c *Config) { c.FPS = MaxFPS + 1 }},
		{"bad mode", func(c *Config) { c.Mode = "4d" }},
		{"tile size", func(c *Config) { c.TileSize = 0 }},
		{"negative submit delay", func(c *Config) { c.SubmitDelay = -1 }},
		{"no rigs", func(c *Config) { c.Rigs = nil }},
		{"missing id", func(c *Config) { c.Rigs[0].ID = "" }},
		{"duplicate id", func(c *Config) { c.Rigs[1].ID = c.Rigs[0].ID }},
		{"short palette", func(c *Config) { c.Rigs[0].Palette = c.Rigs[0].Palette[:2] }},
		{"bad color", func(c *Config) { c.Rigs[0].Palette[1] = "blue" }},
		{"bad action", func(c *Config) { c.Rigs[2].Action = "dancing" }},
		{"negative delay", func(c *Config) { c.Rigs[0].Delay = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Rigs[0].Palette = []string{"#fff"}
	if err := cfg.Validate(); !errors.Is(err, rig.ErrPaletteSize) {
		t.Errorf("palette cause should be kept, got %v", err)
	}
}

func TestSpecs(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}
	if specs[1].Action != rig.Lightbulb || specs[1].Delay != 0.5 || specs[2].Position.X != 22 {
		t.Errorf("unexpected spec %+v", specs[1])
	}

	c, err := cfg.Composer()
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Errorf("composer has %d rigs", c.Len())
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	cfg := GetPreset("parade")
	cfg.FPS = 24
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.FPS != 24 || len(got.Rigs) != 5 || got.Rigs[4].Action != "waving" {
		t.Errorf("round trip lost data: %+v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("fps: 12\nmode: 3d\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 12 || cfg.RenderMode() != rig.Mode3D {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.Rigs) != 3 || cfg.TileSize != DefaultTileSize {
		t.Error("unset fields should keep the defaults")
	}

	cfg, err = Parse([]byte("rigs:\n  - id: one\n    palette: ['#111111', '#222222', '#333333']\n    action: jumping\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Rigs) != 1 || cfg.Rigs[0].ID != "one" {
		t.Errorf("rigs should replace the defaults, got %+v", cfg.Rigs)
	}

	if _, err := Parse([]byte("fps: [")); err == nil {
		t.Error("expected a yaml error")
	}
}

func TestOverrides(t *testing.T) {
	o, err := ParseOverridesFrom(map[string]string{
		"BRIX_FPS":          "60",
		"BRIX_MODE":         "3d",
		"BRIX_SUBMIT_DELAY": "250ms",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	o.Apply(cfg)
	if cfg.FPS != 60 || cfg.Mode != "3d" || cfg.SubmitDelayDuration() != 250*time.Millisecond {
		t.Errorf("overrides not applied: fps %d mode %s delay %v", cfg.FPS, cfg.Mode, cfg.SubmitDelayDuration())
	}
	if cfg.TileSize != DefaultTileSize || cfg.Theme != DefaultTheme {
		t.Error("unset variables must not change the config")
	}

	if _, err := ParseOverridesFrom(map[string]string{"BRIX_FPS": "fast"}); err == nil {
		t.Error("expected a parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BRIX_TILE_SIZE", "16")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.TileSize != 16 {
		t.Errorf("tile size = %f", cfg.TileSize)
	}
}

func TestNewCamera(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera = CameraConfig{Azimuth: 90, Elevation: 5, Distance: 100}
	cam := cfg.NewCamera()
	if cam.Azimuth != scene.MaxAzimuth || cam.Elevation != 5 || cam.Distance != scene.MaxDistance {
		t.Errorf("camera not clamped: %+v", cam)
	}

	cfg.Camera = CameraConfig{}
	if *cfg.NewCamera() != *scene.NewCamera() {
		t.Error("empty camera block should keep the defaults")
	}
}
