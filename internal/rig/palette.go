package rig

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette slots. Segment tiles reference colors by slot, never by value.
const (
	Primary = iota
	Secondary
	Accent
)

// Palette is the ordered (primary, secondary, accent) coloring of a rig.
// Order is significant: the block layout maps slots to fixed body parts.
type Palette [3]colorful.Color

// NewPalette parses exactly three hex colors.
func NewPalette(hexes ...string) (Palette, error) {
	var p Palette
	if len(hexes) != len(p) {
		return p, fmt.Errorf("%w: got %d", ErrPaletteSize, len(hexes))
	}
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: slot %d %q", ErrInvalidColor, i, h)
		}
		p[i] = c
	}
	return p, nil
}

// MustPalette is NewPalette for static tables; it panics on error.
func MustPalette(hexes ...string) Palette {
	p, err := NewPalette(hexes...)
	if err != nil {
		panic(err)
	}
	return p
}

// At returns the color in slot i.
func (p Palette) At(i int) colorful.Color { return p[i] }

// Hex returns the palette as hex strings in slot order.
func (p Palette) Hex() []string {
	return []string{p[Primary].Hex(), p[Secondary].Hex(), p[Accent].Hex()}
}
