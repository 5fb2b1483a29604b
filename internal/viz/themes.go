package viz

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// Bg is the theme background as a blendable color.
func (t Theme) Bg() colorful.Color {
	c, err := colorful.Hex(string(t.Background))
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Available themes
var (
	ThemeBrand = Theme{
		Name:       "brand",
		Primary:    lipgloss.Color("#3490dc"),
		Secondary:  lipgloss.Color("#6cb2eb"),
		Accent:     lipgloss.Color("#2779bd"),
		Background: lipgloss.Color("#0f172a"),
		Text:       lipgloss.Color("#f8fafc"),
		Muted:      lipgloss.Color("#64748b"),
		Success:    lipgloss.Color("#38c172"),
		Error:      lipgloss.Color("#e3342f"),
	}

	ThemeNight = Theme{
		Name:       "night",
		Primary:    lipgloss.Color("#9561e2"),
		Secondary:  lipgloss.Color("#6cb2eb"),
		Accent:     lipgloss.Color("#fde047"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#e5e7eb"),
		Muted:      lipgloss.Color("#4b5563"),
		Success:    lipgloss.Color("#51d88a"),
		Error:      lipgloss.Color("#f56565"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeBrand

	Themes = []Theme{
		ThemeBrand,
		ThemeNight,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeBrand
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles to the theme after the current one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = ThemeBrand
	return CurrentTheme
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
