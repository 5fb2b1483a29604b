package gui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/contact"
	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

// headroomTiles is the space kept above the rigs for the idea glyph and
// jumps.
const headroomTiles = 4.0

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// white returns a 1x1 white source for DrawTriangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// view maps figure pixels to the hero area of the window.
type view struct {
	scale  float64    // screen px per figure px
	origin mgl64.Vec2 // screen position of the page origin
}

// newView fits every rig of c into the hero area, centered horizontally.
func newView(c *page.Composer, tileSize float64) view {
	if tileSize <= 0 {
		tileSize = blocks.DefaultTileSize
	}
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for i := 0; i < c.Len(); i++ {
		s, _ := c.Spec(i)
		if i == 0 {
			minX, maxX, minY, maxY = s.Position.X, s.Position.X, s.Position.Y, s.Position.Y
			continue
		}
		minX, maxX = math.Min(minX, s.Position.X), math.Max(maxX, s.Position.X)
		minY, maxY = math.Min(minY, s.Position.Y), math.Max(maxY, s.Position.Y)
	}
	wTiles := maxX - minX + blocks.FigureWidth + 2
	hTiles := maxY - minY + blocks.FigureHeight + headroomTiles + 1
	tilePx := math.Min(screenWidth/wTiles, heroHeight/hTiles)

	return view{
		scale: tilePx / tileSize,
		origin: mgl64.Vec2{
			(1-minX)*tilePx + (screenWidth-wTiles*tilePx)/2,
			(headroomTiles - minY) * tilePx,
		},
	}
}

func (v view) toScreen(p mgl64.Vec2) mgl64.Vec2 { return v.origin.Add(p.Mul(v.scale)) }

func (v view) toFigure(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}.Sub(v.origin).Mul(1 / v.scale)
}

// quadVertices returns the two triangles of q in screen space.
func (v view) quadVertices(q blocks.Quad) ([]ebiten.Vertex, []uint16) {
	c := q.Color.Clamped()
	vs := make([]ebiten.Vertex, len(q.Points))
	for i, p := range q.Points {
		s := v.toScreen(p)
		vs[i] = ebiten.Vertex{
			DstX: float32(s[0]), DstY: float32(s[1]),
			SrcX: 1, SrcY: 1,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B),
			ColorA: float32(q.Alpha),
		}
	}
	return vs, []uint16{0, 1, 2, 0, 2, 3}
}

// lineSurface draws scene wireframes onto the hero area.
type lineSurface struct {
	dst *ebiten.Image
}

func (s lineSurface) Size() (int, int) { return screenWidth, heroHeight }

func (s lineSurface) Line(x0, y0, x1, y1 float64, c colorful.Color) {
	r, g, b := c.Clamped().RGB255()
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), 2,
		color.RGBA{R: r, G: g, B: b, A: 0xff}, true)
}

func (a *App) Draw(screen *ebiten.Image) {
	r, g, b := a.Theme.Bg().Clamped().RGB255()
	screen.Fill(color.RGBA{R: r, G: g, B: b, A: 0xff})

	if a.Stage.Composer().Mode() == rig.Mode3D {
		a.drawWireframes(screen)
	} else {
		a.drawFigures(screen)
	}
	a.drawHUD(screen)
}

func (a *App) drawFigures(screen *ebiten.Image) {
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModeStraightAlpha}
	src := white()
	for _, f := range a.frames {
		if f.Err != nil || f.Props.Mode != rig.Mode2D {
			continue
		}
		for _, q := range f.Figure.Quads {
			vs, is := a.view.quadVertices(q)
			screen.DrawTriangles(vs, is, src, op)
		}
	}
}

func (a *App) drawWireframes(screen *ebiten.Image) {
	var all scene.Wireframe
	for _, f := range a.frames {
		if f.Err == nil && f.Props.Mode == rig.Mode3D {
			all.Edges = append(all.Edges, f.Wireframe.Edges...)
		}
	}
	hero := screen.SubImage(image.Rect(0, 0, screenWidth, heroHeight)).(*ebiten.Image)
	scene.Render(lineSurface{dst: hero}, all, a.Camera)
}

func (a *App) drawHUD(screen *ebiten.Image) {
	vector.StrokeLine(screen, 0, heroHeight, screenWidth, heroHeight, 1, color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}, false)

	var legend strings.Builder
	comp := a.Stage.Composer()
	for i := 0; i < comp.Len(); i++ {
		p, err := comp.View(i)
		if err != nil {
			continue
		}
		mark := " "
		switch {
		case p.Highlighted:
			mark = ">"
		case p.Dimmed:
			mark = "."
		}
		fmt.Fprintf(&legend, "%s [%d] %-10s %s", mark, i+1, p.ID, p.Action)
		if i < len(a.frames) && a.frames[i].Err != nil {
			legend.WriteString("  (render failed)")
		}
		legend.WriteByte('\n')
	}
	ebitenutil.DebugPrintAt(screen, legend.String(), 24, heroHeight+16)

	if a.contactOpen {
		ebitenutil.DebugPrintAt(screen, a.contactText(), screenWidth/2, heroHeight+16)
	} else {
		ebitenutil.DebugPrintAt(screen, "1-9/click: select  esc: clear  m: 2D/3D  arrows: orbit  +/-: zoom  tab: contact  q: quit",
			24, screenHeight-40)
	}
	ebitenutil.DebugPrintAt(screen, a.statusLine(), 24, screenHeight-20)
}

func (a *App) contactText() string {
	var b strings.Builder
	b.WriteString("GET IN TOUCH\n\n")
	state := a.sub.State()
	if state == contact.Submitted {
		b.WriteString("Message sent.\n\nn: send another  tab: back")
		return b.String()
	}

	form := a.form
	if state == contact.Loading {
		form = a.sub.Pending()
	}
	values := []string{form.Name, form.Email, form.Message}
	for i, name := range []string{"Name", "Email", "Message"} {
		cursor := "  "
		if i == a.field && state == contact.Editing {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-8s %s\n", cursor, name, values[i])
	}
	b.WriteByte('\n')
	switch {
	case state == contact.Loading:
		b.WriteString("Sending" + strings.Repeat(".", a.ticks/10%4))
	case a.formErr != "":
		b.WriteString(a.formErr)
	default:
		b.WriteString("enter: send  up/down: field  tab: back")
	}
	return b.String()
}
