package page

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

// Spec is a rig as placed on the page. Position is in tiles from the page
// origin.
type Spec struct {
	ID       string
	Palette  rig.Palette
	Action   rig.Action
	Delay    float64
	Position rig.Vec2
}

// Props is what a mounted rig is told to display.
type Props struct {
	ID          string
	Palette     rig.Palette
	Action      rig.Action
	Delay       float64
	Position    rig.Vec2
	Mode        rig.Mode
	Highlighted bool
	Dimmed      bool
}

// Composer is the single holder of page state: the rig specs and which
// one, if any, is selected. Rigs never write back into it; their props
// are derived from it with View. It is owned by the UI goroutine.
type Composer struct {
	specs    []Spec
	mode     rig.Mode
	selected int
}

const idle = -1

func NewComposer(specs []Spec, mode rig.Mode) *Composer {
	return &Composer{specs: append([]Spec(nil), specs...), mode: mode, selected: idle}
}

func (c *Composer) Len() int { return len(c.specs) }

// Spec returns the rig as configured, never as remapped by selection.
func (c *Composer) Spec(i int) (Spec, error) {
	if i < 0 || i >= len(c.specs) {
		return Spec{}, fmt.Errorf("%w: %d", ErrNoSuchRig, i)
	}
	return c.specs[i], nil
}

// Center is the middle of the placed rigs in scene units, at the height
// of a figure's middle. Cameras aim here to frame the whole page.
func (c *Composer) Center() mgl64.Vec3 {
	if len(c.specs) == 0 {
		return scene.FigureCenter
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range c.specs {
		minX, maxX = math.Min(minX, s.Position.X), math.Max(maxX, s.Position.X)
		minY, maxY = math.Min(minY, s.Position.Y), math.Max(maxY, s.Position.Y)
	}
	return scene.FigureCenter.Add(mgl64.Vec3{
		(minX + maxX) / 2 * rig.WorldUnitsPerTile,
		-(minY + maxY) / 2 * rig.WorldUnitsPerTile,
		0,
	})
}

// Selected returns the selected index, if any.
func (c *Composer) Selected() (int, bool) {
	return c.selected, c.selected != idle
}

// Click toggles selection of rig i: selecting it from idle or from another
// rig, or returning to idle when it is already selected. Out of range
// indices leave the state untouched.
func (c *Composer) Click(i int) error {
	if i < 0 || i >= len(c.specs) {
		return fmt.Errorf("%w: %d", ErrNoSuchRig, i)
	}
	if c.selected == i {
		c.selected = idle
	} else {
		c.selected = i
	}
	return nil
}

// Clear returns to idle.
func (c *Composer) Clear() { c.selected = idle }

func (c *Composer) Mode() rig.Mode { return c.mode }

func (c *Composer) SetMode(m rig.Mode) { c.mode = m }

// ToggleMode switches between 2D and 3D and returns the new mode.
func (c *Composer) ToggleMode() rig.Mode {
	if c.mode == rig.Mode2D {
		c.mode = rig.Mode3D
	} else {
		c.mode = rig.Mode2D
	}
	return c.mode
}

// View derives the props of rig i from the current state.
func (c *Composer) View(i int) (Props, error) {
	s, err := c.Spec(i)
	if err != nil {
		return Props{}, err
	}
	p := Props{
		ID:       s.ID,
		Palette:  s.Palette,
		Action:   s.Action,
		Delay:    s.Delay,
		Position: s.Position,
		Mode:     c.mode,
	}
	if sel, ok := c.Selected(); ok {
		if sel == i {
			p.Highlighted = true
			p.Action = SelectedAction(s.Action)
		} else {
			p.Dimmed = true
		}
	}
	return p, nil
}

// Views returns the props of every rig in order.
func (c *Composer) Views() []Props {
	out := make([]Props, len(c.specs))
	for i := range c.specs {
		out[i], _ = c.View(i)
	}
	return out
}

// SelectedAction is what a rig does while selected: a walker jumps,
// everyone else waves.
func SelectedAction(a rig.Action) rig.Action {
	if a == rig.Walking {
		return rig.Jumping
	}
	return rig.Waving
}
