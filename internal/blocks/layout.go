package blocks

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/rig"
)

// DefaultTileSize is the edge of one block in pixels. Every block position
// is an integer multiple of it; facial features sit on half and quarter
// tiles.
const DefaultTileSize = 20

// Figure extent in tiles.
const (
	FigureWidth  = 5
	FigureHeight = 7
)

// Fixed colors for features that do not follow the palette.
var (
	White    = colorful.Color{R: 1, G: 1, B: 1}
	IdeaGlow = mustHex("#fde047")
	CupLid   = mustHex("#e5e7eb")
)

// noPalette marks a tile drawn in its fixed color.
const noPalette = -1

// Tile is one block of a part, in tiles relative to the part origin.
type Tile struct {
	X, Y, W, H float64
	Slot       int
	Fixed      colorful.Color
}

// Part is a rigid group of tiles posed by one segment.
type Part struct {
	Name    string
	Segment rig.Segment
	Origin  rig.Vec2 // tiles, relative to the parent origin
	Pivot   rig.Vec2 // tiles, relative to Origin
	Tiles   []Tile
}

func block(x, y float64, slot int) Tile { return Tile{X: x, Y: y, W: 1, H: 1, Slot: slot} }

func feature(x, y, w, h float64) Tile {
	return Tile{X: x, Y: y, W: w, H: h, Slot: noPalette, Fixed: White}
}

// Head tiles reuse primary and accent in a checkerboard; the table is the
// product's look and is kept as-is.
var headPart = Part{
	Name: "head", Segment: rig.Head,
	Origin: rig.Vec2{X: 1, Y: 0}, Pivot: rig.Vec2{X: 1.5, Y: 3},
	Tiles: []Tile{
		block(0, 0, rig.Primary), block(1, 0, rig.Secondary), block(2, 0, rig.Primary),
		block(0, 1, rig.Accent), block(1, 1, rig.Primary), block(2, 1, rig.Accent),
		block(0, 2, rig.Primary), block(1, 2, rig.Accent), block(2, 2, rig.Primary),
	},
}

// Face parts are children of the head.
var faceParts = []Part{
	{Name: "eye", Segment: rig.EyeLeft, Origin: rig.Vec2{X: 0.5, Y: 0.5}, Pivot: rig.Vec2{X: 0.25, Y: 0.25},
		Tiles: []Tile{feature(0, 0, 0.5, 0.5)}},
	{Name: "eye", Segment: rig.EyeRight, Origin: rig.Vec2{X: 2, Y: 0.5}, Pivot: rig.Vec2{X: 0.25, Y: 0.25},
		Tiles: []Tile{feature(0, 0, 0.5, 0.5)}},
	{Name: "mouth", Segment: rig.Mouth, Origin: rig.Vec2{X: 1, Y: 2.25}, Pivot: rig.Vec2{X: 0.5, Y: 0.125},
		Tiles: []Tile{feature(0, 0, 1, 0.25)}},
}

var torsoPart = Part{
	Name: "torso", Segment: rig.NumSegments,
	Origin: rig.Vec2{X: 1, Y: 3},
	Tiles: []Tile{
		block(0, 0, rig.Secondary), block(1, 0, rig.Primary), block(2, 0, rig.Secondary),
		block(0, 1, rig.Accent), block(1, 1, rig.Secondary), block(2, 1, rig.Accent),
	},
}

var limbParts = []Part{
	{Name: "arm", Segment: rig.LeftArm, Origin: rig.Vec2{X: 0, Y: 3}, Pivot: rig.Vec2{X: 0.5},
		Tiles: []Tile{block(0, 0, rig.Accent), block(0, 1, rig.Primary)}},
	{Name: "arm", Segment: rig.RightArm, Origin: rig.Vec2{X: 4, Y: 3}, Pivot: rig.Vec2{X: 0.5},
		Tiles: []Tile{block(0, 0, rig.Accent), block(0, 1, rig.Primary)}},
	{Name: "leg", Segment: rig.LeftLeg, Origin: rig.Vec2{X: 1, Y: 5}, Pivot: rig.Vec2{X: 0.5},
		Tiles: []Tile{block(0, 0, rig.Secondary), block(0, 1, rig.Primary)}},
	{Name: "leg", Segment: rig.RightLeg, Origin: rig.Vec2{X: 3, Y: 5}, Pivot: rig.Vec2{X: 0.5},
		Tiles: []Tile{block(0, 0, rig.Secondary), block(0, 1, rig.Primary)}},
}

// figurePivot is where the body transform rotates the whole character.
var figurePivot = rig.Vec2{X: FigureWidth / 2.0, Y: FigureHeight / 2.0}

var ideaPart = Part{
	Name: "idea", Segment: rig.NumSegments,
	Origin: rig.Vec2{X: 1.5, Y: -3.2}, Pivot: rig.Vec2{X: 1, Y: 1},
	Tiles: []Tile{
		{X: 0, Y: 0, W: 2, H: 2, Slot: noPalette, Fixed: IdeaGlow},
		{X: 0.4, Y: 0.4, W: 1.2, H: 1.2, Slot: noPalette, Fixed: White},
	},
}

var cupPart = Part{
	Name: "cup", Segment: rig.NumSegments,
	Origin: rig.Vec2{X: 5.8, Y: 0.6}, Pivot: rig.Vec2{X: 0.8, Y: 1.2},
	Tiles: []Tile{
		{X: 0, Y: 0, W: 1.6, H: 2.4, Slot: noPalette, Fixed: White},
		{X: 0.4, Y: -0.4, W: 0.8, H: 0.4, Slot: noPalette, Fixed: CupLid},
	},
}

// SlotTable returns the palette slot of every block tile of the named part
// ("head", "torso", "arm", "leg"), row-major. Fixed-color tiles report -1.
func SlotTable(name string) []int {
	var p *Part
	switch name {
	case "head":
		p = &headPart
	case "torso":
		p = &torsoPart
	default:
		for i := range limbParts {
			if limbParts[i].Name == name {
				p = &limbParts[i]
				break
			}
		}
	}
	if p == nil {
		return nil
	}
	out := make([]int, len(p.Tiles))
	for i, t := range p.Tiles {
		out[i] = t.Slot
	}
	return out
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
