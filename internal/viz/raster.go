package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/blocks"
)

// Raster is a color pixel grid drawn with half blocks: each terminal cell
// shows two vertically stacked pixels.
type Raster struct {
	Cols, Rows int
	Background colorful.Color
	pix        []colorful.Color
	set        []bool
}

func NewRaster(cols, rows int, bg colorful.Color) *Raster {
	n := cols * rows * 2
	return &Raster{Cols: cols, Rows: rows, Background: bg, pix: make([]colorful.Color, n), set: make([]bool, n)}
}

// Size returns the pixel extent.
func (r *Raster) Size() (int, int) { return r.Cols, r.Rows * 2 }

func (r *Raster) Clear() {
	for i := range r.set {
		r.set[i] = false
	}
}

// Blend paints a pixel over what is already there.
func (r *Raster) Blend(x, y int, c colorful.Color, alpha float64) {
	w, h := r.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := y*w + x
	under := r.Background
	if r.set[i] {
		under = r.pix[i]
	}
	if alpha < 1 {
		c = under.BlendRgb(c, alpha)
	}
	r.pix[i] = c
	r.set[i] = true
}

// At returns the pixel color and whether anything was drawn there.
func (r *Raster) At(x, y int) (colorful.Color, bool) {
	w, h := r.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return r.Background, false
	}
	i := y*w + x
	if !r.set[i] {
		return r.Background, false
	}
	return r.pix[i], true
}

// DrawFigure rasterizes a figure, scaling its pixel coordinates first.
func (r *Raster) DrawFigure(f blocks.Figure, scale float64) {
	w, h := r.Size()
	f.Fill(w, h, scale, r.Blend)
}

func (r *Raster) Render() string {
	var b strings.Builder
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			top, okTop := r.At(col, row*2)
			bottom, okBottom := r.At(col, row*2+1)
			if !okTop && !okBottom {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex())).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
