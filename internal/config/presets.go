package config

import "sort"

var (
	brandPalette  = []string{"#3490dc", "#6cb2eb", "#2779bd"}
	yellowPalette = []string{"#ffed4a", "#fff382", "#e3d160"}
	redPalette    = []string{"#f56565", "#fc8181", "#e53e3e"}
	greenPalette  = []string{"#38c172", "#51d88a", "#1f9d55"}
	purplePalette = []string{"#9561e2", "#a779e9", "#794acf"}
)

var Presets = map[string]*Config{
	"hero": {
		Title: "brix", FPS: DefaultFPS, Mode: "2d", TileSize: DefaultTileSize,
		SubmitDelay: DefaultSubmitDelay, Theme: DefaultTheme,
		Camera: CameraConfig{Azimuth: 0, Elevation: 10, Distance: 14},
		Rigs: []RigConfig{
			{ID: "walker", Palette: brandPalette, Action: "walking", Delay: 0, X: 2, Y: 1},
			{ID: "thinker", Palette: yellowPalette, Action: "lightbulb", Delay: 0.5, X: 12, Y: 0},
			{ID: "drinker", Palette: redPalette, Action: "milk", Delay: 1, X: 22, Y: 1.5},
		},
	},
	"parade": {
		Title: "brix parade", FPS: DefaultFPS, Mode: "2d", TileSize: 12,
		SubmitDelay: DefaultSubmitDelay, Theme: "night",
		Camera: CameraConfig{Azimuth: -20, Elevation: 15, Distance: 18},
		Rigs: []RigConfig{
			{ID: "walker", Palette: brandPalette, Action: "walking", Delay: 0, X: 1},
			{ID: "thinker", Palette: yellowPalette, Action: "lightbulb", Delay: 0.2, X: 8},
			{ID: "drinker", Palette: redPalette, Action: "milk", Delay: 0.4, X: 15},
			{ID: "jumper", Palette: greenPalette, Action: "jumping", Delay: 0.6, X: 22},
			{ID: "waver", Palette: purplePalette, Action: "waving", Delay: 0.8, X: 29},
		},
	},
	"solo": {
		Title: "brix", FPS: DefaultFPS, Mode: "3d", TileSize: 28,
		SubmitDelay: DefaultSubmitDelay, Theme: DefaultTheme,
		Camera: CameraConfig{Azimuth: 25, Elevation: 10, Distance: 10},
		Rigs: []RigConfig{
			{ID: "brix", Palette: brandPalette, Action: "waving"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
