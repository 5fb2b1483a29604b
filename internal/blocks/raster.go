package blocks

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PixelFunc receives one covered pixel with its quad color and opacity.
type PixelFunc func(x, y int, c colorful.Color, alpha float64)

// Fill rasterizes the figure into a w x h pixel grid, calling set for
// every pixel whose center lies inside a quad, back to front. Figure
// coordinates are multiplied by scale first.
func (f Figure) Fill(w, h int, scale float64, set PixelFunc) {
	for _, q := range f.Quads {
		sq := q
		for i, p := range q.Points {
			sq.Points[i] = p.Mul(scale)
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range sq.Points {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
		x0, x1 := clampInt(int(math.Floor(minX)), 0, w), clampInt(int(math.Ceil(maxX)), 0, w)
		y0, y1 := clampInt(int(math.Floor(minY)), 0, h), clampInt(int(math.Ceil(maxY)), 0, h)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if sq.Contains(mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}) {
					set(x, y, q.Color, q.Alpha)
				}
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
