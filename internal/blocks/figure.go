package blocks

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/rig"
)

// Quad is one posed tile in figure-local pixels, corners in drawing order.
type Quad struct {
	Part    string
	Segment rig.Segment
	Points  [4]mgl64.Vec2
	Color   colorful.Color
	Alpha   float64
}

// Contains reports whether p lies inside the quad.
func (q Quad) Contains(p mgl64.Vec2) bool {
	var pos, neg bool
	for i := range q.Points {
		a, b := q.Points[i], q.Points[(i+1)%len(q.Points)]
		c := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// Figure is a posed 2D character, painted back to front.
type Figure struct {
	TileSize float64
	Quads    []Quad
}

// Build lays out every tile of the character for the given pose. Colors
// come from the palette by the fixed slot table; the prop is included only
// when the pose carries one.
func Build(pose rig.Pose, pal rig.Palette, tileSize float64) Figure {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	f := Figure{TileSize: tileSize, Quads: make([]Quad, 0, 32)}

	root := jointMatrix(pose.Transform2D(rig.Body, tileSize), scaled(figurePivot, tileSize))

	head := root.Mul3(f.place(headPart, pose))
	f.add(headPart, head, pal, 1)
	for _, p := range faceParts {
		f.add(p, head.Mul3(f.place(p, pose)), pal, 1)
	}

	f.add(torsoPart, root.Mul3(f.place(torsoPart, pose)), pal, 1)
	for _, p := range limbParts {
		f.add(p, root.Mul3(f.place(p, pose)), pal, 1)
	}

	var prop *Part
	switch pose.Prop.Kind {
	case rig.PropIdea:
		prop = &ideaPart
	case rig.PropCup:
		prop = &cupPart
	}
	if prop != nil && pose.Prop.Opacity > 0 {
		tr := rig.Transform2D{
			Rotation:  pose.Prop.Roll,
			Translate: rig.Vec2{X: pose.Prop.Offset.X * tileSize, Y: pose.Prop.Offset.Y * tileSize},
			Scale:     rig.Vec2{X: pose.Prop.Scale, Y: pose.Prop.Scale},
		}
		m := root.Mul3(translate(scaled(prop.Origin, tileSize))).Mul3(jointMatrix(tr, scaled(prop.Pivot, tileSize)))
		f.add(*prop, m, pal, pose.Prop.Opacity)
	}

	return f
}

func (f *Figure) place(p Part, pose rig.Pose) mgl64.Mat3 {
	m := translate(scaled(p.Origin, f.TileSize))
	if p.Segment < rig.NumSegments {
		m = m.Mul3(jointMatrix(pose.Transform2D(p.Segment, f.TileSize), scaled(p.Pivot, f.TileSize)))
	}
	return m
}

func (f *Figure) add(p Part, m mgl64.Mat3, pal rig.Palette, alpha float64) {
	ts := f.TileSize
	for _, t := range p.Tiles {
		c := t.Fixed
		if t.Slot != noPalette {
			c = pal.At(t.Slot)
		}
		x0, y0 := t.X*ts, t.Y*ts
		x1, y1 := (t.X+t.W)*ts, (t.Y+t.H)*ts
		f.Quads = append(f.Quads, Quad{
			Part:    p.Name,
			Segment: p.Segment,
			Points: [4]mgl64.Vec2{
				apply(m, x0, y0), apply(m, x1, y0), apply(m, x1, y1), apply(m, x0, y1),
			},
			Color: c,
			Alpha: alpha,
		})
	}
}

// Bounds returns the axis-aligned box around every quad.
func (f Figure) Bounds() (min, max mgl64.Vec2) {
	if len(f.Quads) == 0 {
		return
	}
	min = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, q := range f.Quads {
		for _, p := range q.Points {
			min[0], min[1] = math.Min(min[0], p[0]), math.Min(min[1], p[1])
			max[0], max[1] = math.Max(max[0], p[0]), math.Max(max[1], p[1])
		}
	}
	return
}

// At returns the topmost quad covering p.
func (f Figure) At(p mgl64.Vec2) (Quad, bool) {
	for i := len(f.Quads) - 1; i >= 0; i-- {
		if f.Quads[i].Contains(p) {
			return f.Quads[i], true
		}
	}
	return Quad{}, false
}

// Offset moves the figure by (dx, dy) pixels.
func (f Figure) Offset(dx, dy float64) Figure {
	out := Figure{TileSize: f.TileSize, Quads: make([]Quad, len(f.Quads))}
	for i, q := range f.Quads {
		for j := range q.Points {
			q.Points[j] = q.Points[j].Add(mgl64.Vec2{dx, dy})
		}
		out.Quads[i] = q
	}
	return out
}

// Dim blends every color toward bg by amount in [0, 1]; the page uses it to
// de-emphasize characters that are not selected.
func (f Figure) Dim(bg colorful.Color, amount float64) Figure {
	amount = math.Max(0, math.Min(1, amount))
	out := Figure{TileSize: f.TileSize, Quads: make([]Quad, len(f.Quads))}
	for i, q := range f.Quads {
		q.Color = q.Color.BlendLab(bg, amount).Clamped()
		out.Quads[i] = q
	}
	return out
}

func jointMatrix(t rig.Transform2D, pivot rig.Vec2) mgl64.Mat3 {
	return mgl64.Translate2D(t.Translate.X+pivot.X, t.Translate.Y+pivot.Y).
		Mul3(mgl64.HomogRotate2D(mgl64.DegToRad(t.Rotation))).
		Mul3(mgl64.Scale2D(t.Scale.X, t.Scale.Y)).
		Mul3(mgl64.Translate2D(-pivot.X, -pivot.Y))
}

func translate(v rig.Vec2) mgl64.Mat3 { return mgl64.Translate2D(v.X, v.Y) }

func scaled(v rig.Vec2, s float64) rig.Vec2 { return rig.Vec2{X: v.X * s, Y: v.Y * s} }

func apply(m mgl64.Mat3, x, y float64) mgl64.Vec2 {
	v := m.Mul3x1(mgl64.Vec3{x, y, 1})
	return mgl64.Vec2{v[0], v[1]}
}
