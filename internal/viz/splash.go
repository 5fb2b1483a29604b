package viz

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SplashDuration is how long the loading screen shows before the page.
const SplashDuration = 2 * time.Second

// Splash bounce timing: each block bounces once a second, staggered.
const (
	BouncePeriod  = 1.0
	BounceStagger = 0.2
	BounceHeight  = 2 // rows
)

// Bounce returns the lift of splash block i at t seconds, in [0, 1].
func Bounce(i int, t float64) float64 {
	local := t - float64(i)*BounceStagger
	if local < 0 {
		return 0
	}
	return math.Abs(math.Sin(math.Pi * local / BouncePeriod))
}

// RenderSplash draws the four bouncing blocks and the loading caption.
func RenderSplash(t float64, theme Theme, width, height int) string {
	colors := []lipgloss.Color{theme.Primary, theme.Secondary, theme.Accent, theme.Text}
	const blockW, blockH = 6, 2

	cell := func(i int) string {
		lift := int(math.Round(Bounce(i, t) * BounceHeight))
		block := lipgloss.NewStyle().
			Background(colors[i]).
			Width(blockW).
			Height(blockH).
			Render("")
		return lipgloss.NewStyle().
			Width(blockW + 1).
			Height(blockH + BounceHeight).
			Render(strings.Repeat("\n", BounceHeight-lift) + block)
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cell(0), cell(1)),
		lipgloss.JoinHorizontal(lipgloss.Top, cell(2), cell(3)),
	)
	caption := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).MarginTop(1).Render("Loading Brix...")
	body := lipgloss.JoinVertical(lipgloss.Center, grid, caption)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
