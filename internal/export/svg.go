package export

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/analysis"
	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/scene"
)

func header(sb *strings.Builder, width, height int, bg colorful.Color) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg.Hex())
}

// FigureToSVG draws 2D figures as filled polygons, in their own pixel
// coordinates, painted in order.
func FigureToSVG(figs []blocks.Figure, width, height int, bg colorful.Color) string {
	var sb strings.Builder
	header(&sb, width, height, bg)

	for _, f := range figs {
		sb.WriteString("<g shape-rendering=\"crispEdges\">\n")
		for _, q := range f.Quads {
			sb.WriteString(`<polygon points="`)
			for i, p := range q.Points {
				if i > 0 {
					sb.WriteByte(' ')
				}
				fmt.Fprintf(&sb, "%.2f,%.2f", p[0], p[1])
			}
			fmt.Fprintf(&sb, `" fill="%s"`, q.Color.Hex())
			if q.Alpha < 1 {
				fmt.Fprintf(&sb, ` fill-opacity="%.3f"`, q.Alpha)
			}
			sb.WriteString("/>\n")
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type svgSurface struct {
	sb   *strings.Builder
	w, h int
}

func (s svgSurface) Size() (int, int) { return s.w, s.h }

func (s svgSurface) Line(x0, y0, x1, y1 float64, c colorful.Color) {
	fmt.Fprintf(s.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, x0, y0, x1, y1, c.Hex())
}

// WireframeToSVG projects wireframes through cam and draws them as lines,
// farthest first.
func WireframeToSVG(frames []scene.Wireframe, cam *scene.Camera, width, height int, bg colorful.Color) string {
	var all scene.Wireframe
	for _, w := range frames {
		all.Edges = append(all.Edges, w.Edges...)
	}

	var sb strings.Builder
	header(&sb, width, height, bg)
	sb.WriteString("<g fill=\"none\" stroke-width=\"1.5\" stroke-linecap=\"round\">\n")
	scene.Render(svgSurface{sb: &sb, w: width, h: height}, all, cam)
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG plots a sampled channel as a polyline scaled to fit.
func TraceToSVG(tr analysis.Trace, width, height int, strokeColor string) string {
	if tr.Len() < 2 {
		return ""
	}

	minX, maxX := tr.Time(0), tr.Time(tr.Len()-1)
	minY, maxY := tr.Bounds()

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, width, height, colorful.Color{R: 0.04, G: 0.04, B: 0.04})
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, v := range tr.Values {
		x := (tr.Time(i) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
