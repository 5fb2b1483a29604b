package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/rig"
)

// Node names of the character tree.
const (
	NameBody     = "body"
	NameTorso    = "torso"
	NameHead     = "head"
	NameEyeLeft  = "eye-left"
	NameEyeRight = "eye-right"
	NameMouth    = "mouth"
	NameLeftArm  = "arm-left"
	NameRightArm = "arm-right"
	NameLeftLeg  = "leg-left"
	NameRightLeg = "leg-right"
	NameCup      = "cup"
	NameIdea     = "idea"
)

// FigureCenter is the body pivot in world units, with the feet on y = 0.
var FigureCenter = mgl64.Vec3{0, blocks.FigureHeight / 2.0, 0}

var (
	unit     = mgl64.Vec3{1, 1, 1}
	faceZ    = 0.55
	featureD = 0.1
)

// Rig is the 3D character: a node tree colored once from the palette and
// posed every frame.
type Rig struct {
	Root    *Node
	Palette rig.Palette

	action rig.Action
	joints [rig.NumSegments]*Node
	hand   *Node
	cup    *Node
	idea   *Node
}

// Build constructs the character for the palette and attaches the prop of
// the initial action.
func Build(pal rig.Palette, a rig.Action) *Rig {
	p := func(slot int) colorful.Color { return pal.At(slot) }

	body := NewNode(NameBody, FigureCenter)

	torso := NewNode(NameTorso, mgl64.Vec3{})
	torso.Add(Box("torso-upper", mgl64.Vec3{}, mgl64.Vec3{3, 1, 1}, mgl64.Vec3{}, p(rig.Secondary)))
	torso.Add(Box("torso-lower", mgl64.Vec3{0, -1, 0}, mgl64.Vec3{3, 1, 1}, mgl64.Vec3{}, p(rig.Accent)))
	body.Add(torso)

	head := Box(NameHead, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{3, 3, 1}, mgl64.Vec3{0, 1.5, 0}, p(rig.Primary))
	eyeL := Box(NameEyeLeft, mgl64.Vec3{-0.75, 2.25, faceZ}, mgl64.Vec3{0.5, 0.5, featureD}, mgl64.Vec3{}, blocks.White)
	eyeR := Box(NameEyeRight, mgl64.Vec3{0.75, 2.25, faceZ}, mgl64.Vec3{0.5, 0.5, featureD}, mgl64.Vec3{}, blocks.White)
	mouth := Box(NameMouth, mgl64.Vec3{0, 0.625, faceZ}, mgl64.Vec3{1, 0.25, featureD}, mgl64.Vec3{}, blocks.White)
	head.Add(eyeL).Add(eyeR).Add(mouth)
	body.Add(head)

	limb := func(name string, x, y float64, upper, lower int) (*Node, *Node) {
		g := NewNode(name, mgl64.Vec3{x, y, 0})
		g.Add(Box(name+"-upper", mgl64.Vec3{0, -0.5, 0}, unit, mgl64.Vec3{}, p(upper)))
		low := Box(name+"-lower", mgl64.Vec3{0, -1.5, 0}, unit, mgl64.Vec3{}, p(lower))
		g.Add(low)
		body.Add(g)
		return g, low
	}
	armL, handL := limb(NameLeftArm, -2, 0.5, rig.Accent, rig.Primary)
	armR, _ := limb(NameRightArm, 2, 0.5, rig.Accent, rig.Primary)
	legL, _ := limb(NameLeftLeg, -1, -1.5, rig.Secondary, rig.Primary)
	legR, _ := limb(NameRightLeg, 1, -1.5, rig.Secondary, rig.Primary)

	cup := Box(NameCup, mgl64.Vec3{0, -0.6, 0.9}, mgl64.Vec3{0.8, 1.2, 0.8}, mgl64.Vec3{0, 0.6, 0}, blocks.White)
	cup.Add(Box("cup-lid", mgl64.Vec3{0, 1.3, 0}, mgl64.Vec3{0.4, 0.2, 0.4}, mgl64.Vec3{}, blocks.CupLid))

	idea := NewNode(NameIdea, mgl64.Vec3{0, 4.5, 0})
	idea.Mesh = &Mesh{Kind: SphereMesh, Size: mgl64.Vec3{1.2, 1.2, 1.2}}
	idea.Color = blocks.IdeaGlow
	idea.Emissive = true

	r := &Rig{Root: body, Palette: pal, hand: handL, cup: cup, idea: idea, action: rig.Action(255)}
	r.joints = [rig.NumSegments]*Node{
		rig.Head:     head,
		rig.LeftArm:  armL,
		rig.RightArm: armR,
		rig.LeftLeg:  legL,
		rig.RightLeg: legR,
		rig.Body:     body,
		rig.EyeLeft:  eyeL,
		rig.EyeRight: eyeR,
		rig.Mouth:    mouth,
	}
	r.SetAction(a)
	return r
}

// Action is the action whose prop is attached.
func (r *Rig) Action() rig.Action { return r.action }

// SetAction attaches the prop belonging to a and detaches the other one.
func (r *Rig) SetAction(a rig.Action) {
	if a == r.action {
		return
	}
	r.action = a
	r.hand.Remove(r.cup)
	r.joints[rig.Head].Remove(r.idea)
	switch a {
	case rig.Milk:
		r.hand.Add(r.cup)
	case rig.Lightbulb:
		r.joints[rig.Head].Add(r.idea)
	}
}

// Joint returns the node posed by segment s.
func (r *Rig) Joint(s rig.Segment) *Node {
	if s >= rig.NumSegments {
		return nil
	}
	return r.joints[s]
}

// Prop returns the attached prop node, or nil.
func (r *Rig) Prop() *Node {
	switch {
	case r.cup.Parent() != nil:
		return r.cup
	case r.idea.Parent() != nil:
		return r.idea
	}
	return nil
}

// Apply overwrites every posed node with rest plus the pose delta. A pose
// for a different action switches the attached prop first.
func (r *Rig) Apply(p rig.Pose) {
	if p.Action.Valid() {
		r.SetAction(p.Action)
	}
	for s, n := range r.joints {
		t := p.Transform3D(rig.Segment(s))
		n.Position = n.Rest.Add(vec(t.Translate))
		n.Rotation = vec(t.Rotation)
		n.Scale = vec(t.Scale)
	}

	prop := r.Prop()
	if prop == nil {
		return
	}
	prop.Reset()
	pr := p.Prop
	prop.Rotation = mgl64.Vec3{0, 0, -mgl64.DegToRad(pr.Roll)}
	prop.Position = prop.Rest.Add(mgl64.Vec3{pr.Offset.X, -pr.Offset.Y, 0}.Mul(rig.WorldUnitsPerTile))
	s := pr.Scale
	if pr.Kind == rig.PropIdea {
		s *= pr.Opacity
	}
	prop.Scale = mgl64.Vec3{s, s, s}
}

func vec(v rig.Vec3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }
