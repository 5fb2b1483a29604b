package rig

// Waveform constants, seconds and degrees.
const (
	StridePeriod    = 1.0
	BobPeriod       = 0.5
	ArmSwing        = 20.0
	LegSwing        = 15.0
	BobHeight       = 0.25 // tiles
	PatrolPeriod    = 20.0
	PatrolReach     = 2.5 // tiles
	ReachPeriod     = 2.0
	IdeaRaise       = 30.0
	ScratchAngle    = 160.0
	ScratchPeriod   = 5.0
	FloatPeriod     = 4.0
	FloatHeight     = 0.5 // tiles
	IdeaPeriod      = 3.0
	IdeaOffset      = 1.0
	IdeaRise        = 0.75 // tiles
	MilkRaise       = -20.0
	DrinkAngle      = -130.0
	DrinkPeriod     = 4.0
	HeadTiltBack    = -20.0
	SwayPeriod      = 6.0
	SwayAngle       = 10.0
	CupPeriod       = 2.0
	CupOffset       = 0.5
	CupTilt         = -20.0
	JumpPeriod      = 1.5
	JumpHeight      = 1.0 // tiles
	WavePeriod      = 1.5
	WaveRaise       = -150.0
	WaveSwing       = 45.0
	BlinkPeriod     = 3.0
	BlinkStagger    = 0.2
	BlinkGrowth     = 0.2
	MouthPeriod     = 2.0
	MouthOffset     = 0.5
	MouthWiden      = 0.5
	MouthOpen       = 1.0
	ExtremeGate     = 0.7
	scratchWiggle   = 10.0
	scratchWigglePd = 0.5
)

// PropKind names the auxiliary object an action carries.
type PropKind uint8

const (
	PropNone PropKind = iota
	PropIdea
	PropCup
)

func (k PropKind) String() string {
	switch k {
	case PropIdea:
		return "idea"
	case PropCup:
		return "cup"
	default:
		return "none"
	}
}

// Prop is the state of the action prop at one instant. Offset is in tiles
// relative to the prop's anchor.
type Prop struct {
	Kind    PropKind
	Roll    float64
	Offset  Vec2
	Scale   float64
	Opacity float64
}

// Pose is the complete set of segment joints for one instant.
type Pose struct {
	Action  Action
	Phase   float64
	Extreme bool
	Joints  [NumSegments]Joint
	Prop    Prop
}

// Joint returns the motion of segment s.
func (p Pose) Joint(s Segment) Joint {
	if s >= NumSegments {
		return restJoint()
	}
	return p.Joints[s]
}

// Transform2D returns the screen transform of s for the given tile size.
func (p Pose) Transform2D(s Segment, tileSize float64) Transform2D {
	return p.Joint(s).Flat(tileSize)
}

// Transform3D returns the world transform of s.
func (p Pose) Transform3D(s Segment) Transform3D {
	return p.Joint(s).Spatial()
}

type poseFunc func(p *Pose, t float64)

var poseTable = [numActions]poseFunc{
	Walking:   walk,
	Lightbulb: lightbulb,
	Milk:      milk,
	Jumping:   jump,
	Waving:    wave,
}

// Evaluate computes the pose of action a at phase seconds. It is a pure
// function of its inputs. Values outside the enumerated actions yield the
// idle pose and are logged once per value.
func Evaluate(a Action, phase float64) Pose {
	p := Pose{Action: a, Phase: phase}
	for i := range p.Joints {
		p.Joints[i] = restJoint()
	}
	p.Prop = Prop{Scale: 1}

	if a.Valid() {
		poseTable[a](&p, phase)
	} else {
		warnUnknownAction(a)
	}

	blink(&p, phase)
	return p
}

// Idle returns the rest pose with only the eye pulse running.
func Idle(phase float64) Pose {
	p := Pose{Action: numActions, Phase: phase}
	for i := range p.Joints {
		p.Joints[i] = restJoint()
	}
	p.Prop = Prop{Scale: 1}
	blink(&p, phase)
	return p
}

// Segment2D evaluates a single segment in screen space.
func Segment2D(a Action, phase float64, s Segment, tileSize float64) Transform2D {
	return Evaluate(a, phase).Transform2D(s, tileSize)
}

// Segment3D evaluates a single segment in world space.
func Segment3D(a Action, phase float64, s Segment) Transform3D {
	return Evaluate(a, phase).Transform3D(s)
}

func blink(p *Pose, t float64) {
	l := 1 + BlinkGrowth*swell(t, BlinkPeriod, 0)
	r := 1 + BlinkGrowth*swell(t, BlinkPeriod, BlinkStagger)
	p.Joints[EyeLeft].Scale = Vec2{l, l}
	p.Joints[EyeRight].Scale = Vec2{r, r}
}

func stride(p *Pose, t float64) {
	p.Joints[LeftArm].Roll = ArmSwing * osc(t, StridePeriod, 0.2)
	p.Joints[RightArm].Roll = -ArmSwing * osc(t, StridePeriod, 0.3)

	s := osc(t, StridePeriod, 0)
	p.Joints[LeftLeg].Roll = -LegSwing * s
	p.Joints[RightLeg].Roll = LegSwing * s

	p.Joints[Body].Offset.Y = -BobHeight * swell(t, BobPeriod, 0)
}

func walk(p *Pose, t float64) {
	stride(p, t)
	p.Joints[Body].Offset.X = PatrolReach * mirror(t, PatrolPeriod)
}

func jump(p *Pose, t float64) {
	stride(p, t)
	lift := osc(t, JumpPeriod, 0)
	if lift < 0 {
		lift = -lift
	}
	p.Joints[Body].Offset.Y -= JumpHeight * lift
}

func lightbulb(p *Pose, t float64) {
	p.Joints[Body].Offset.Y = -FloatHeight * swell(t, FloatPeriod, 0)
	p.Joints[LeftArm].Roll = ArmSwing * osc(t, StridePeriod, 0.2)

	arm := &p.Joints[RightArm]
	arm.Roll = IdeaRaise * swell(t, ReachPeriod, 0.3)
	if over(t, ScratchPeriod, ExtremeGate) {
		p.Extreme = true
		arm.Roll = ScratchAngle + scratchWiggle*osc(t, scratchWigglePd, 0)
		p.Joints[Mouth].Scale.Y = 1 + MouthOpen*swell(t, MouthPeriod, MouthOffset)
	}

	p.Prop = IdeaGlyph(t - IdeaOffset)
}

// IdeaGlyph returns the idea prop at its own local phase: it fades in,
// grows and rises to a peak at mid-cycle, then returns to its start state.
func IdeaGlyph(local float64) Prop {
	s := swell(local, IdeaPeriod, 0)
	return Prop{
		Kind:    PropIdea,
		Opacity: s,
		Scale:   0.5 + 0.7*s,
		Offset:  Vec2{Y: -IdeaRise * s},
	}
}

func milk(p *Pose, t float64) {
	p.Joints[Body].Roll = -SwayAngle * osc(t, SwayPeriod, 0)
	p.Joints[RightArm].Roll = -ArmSwing * osc(t, StridePeriod, 0.3)

	arm := &p.Joints[LeftArm]
	arm.Roll = MilkRaise * swell(t, ReachPeriod, 0.2)
	if over(t, DrinkPeriod, ExtremeGate) {
		p.Extreme = true
		arm.Roll = DrinkAngle
		p.Joints[Head].Pitch = HeadTiltBack
		p.Joints[Mouth].Scale.X = 1 + MouthWiden*swell(t, MouthPeriod, MouthOffset)
	}

	p.Prop = Prop{
		Kind:    PropCup,
		Roll:    CupTilt * swell(t, CupPeriod, CupOffset),
		Scale:   1,
		Opacity: 1,
	}
}

func wave(p *Pose, t float64) {
	arm := &p.Joints[RightArm]
	arm.Roll = WaveRaise
	arm.Pitch = WaveSwing * osc(t, WavePeriod, 0)
}
