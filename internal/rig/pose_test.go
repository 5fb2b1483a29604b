package rig

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

const tol = 1e-9

func slowestPeriod(a Action) float64 {
	switch a {
	case Walking:
		return PatrolPeriod
	case Lightbulb:
		return ScratchPeriod
	case Milk:
		return SwayPeriod
	case Jumping:
		return BlinkPeriod
	default:
		return BlinkPeriod
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	for _, a := range Actions() {
		span := 2 * slowestPeriod(a)
		for ph := 0.0; ph <= span; ph += 0.037 {
			p1 := Evaluate(a, ph)
			_ = Evaluate(Waving, ph+1) // unrelated call in between
			p2 := Evaluate(a, ph)
			if p1 != p2 {
				t.Fatalf("%s at %.3f: poses differ:\n%+v\n%+v", a, ph, p1, p2)
			}
		}
	}
}

func TestWalking_LegsAntiphase(t *testing.T) {
	half := StridePeriod / 2
	for ph := 0.0; ph < 2*StridePeriod; ph += 0.01 {
		l0 := Evaluate(Walking, ph).Joint(LeftLeg).Roll
		l1 := Evaluate(Walking, ph+half).Joint(LeftLeg).Roll
		r0 := Evaluate(Walking, ph).Joint(RightLeg).Roll
		if math.Abs(l0+l1) > tol {
			t.Errorf("left leg at %.2f=%f and +half=%f are not sign-inverted", ph, l0, l1)
		}
		if math.Abs(l0+r0) > tol {
			t.Errorf("legs at %.2f: left=%f right=%f not mirrored", ph, l0, r0)
		}
	}
}

func TestWalking_Scenario(t *testing.T) {
	g := NewWithT(t)
	pal := MustPalette("#3490dc", "#6cb2eb", "#2779bd")
	g.Expect(pal.Hex()).To(Equal([]string{"#3490dc", "#6cb2eb", "#2779bd"}))

	at0 := Evaluate(Walking, 0)
	g.Expect(at0.Transform2D(LeftLeg, 20).Rotation).To(BeZero())
	g.Expect(at0.Transform2D(RightLeg, 20).Rotation).To(BeZero())

	q := Evaluate(Walking, 0.25)
	l := q.Transform2D(LeftLeg, 20).Rotation
	r := q.Transform2D(RightLeg, 20).Rotation
	g.Expect(l * r).To(BeNumerically("<", 0))
	g.Expect(math.Abs(l)).To(BeNumerically("~", math.Abs(r), tol))
	g.Expect(math.Abs(l)).To(BeNumerically("~", LegSwing, tol))
}

func TestExtremeReachable(t *testing.T) {
	tests := []struct {
		action Action
		period float64
		check  func(Pose) bool
	}{
		{Lightbulb, ScratchPeriod, func(p Pose) bool { return p.Joint(RightArm).Roll > ScratchAngle-scratchWiggle-tol }},
		{Milk, DrinkPeriod, func(p Pose) bool { return p.Joint(LeftArm).Roll == DrinkAngle && p.Joint(Head).Pitch == HeadTiltBack }},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			hits, samples := 0, 0
			for ph := 0.0; ph < tt.period; ph += 0.005 {
				samples++
				p := Evaluate(tt.action, ph)
				if p.Extreme {
					hits++
					if !tt.check(p) {
						t.Fatalf("extreme at %.3f without extreme joints: %+v", ph, p.Joints)
					}
				}
			}
			if hits == 0 {
				t.Errorf("extreme pose never reached within %.1fs", tt.period)
			}
			if hits == samples {
				t.Errorf("extreme pose is continuous, expected duty cycle")
			}
		})
	}
}

func TestHeadTiltsOnlyWhileDrinking(t *testing.T) {
	for ph := 0.0; ph < 2*DrinkPeriod; ph += 0.01 {
		p := Evaluate(Milk, ph)
		tilted := p.Joint(Head).Pitch != 0
		if tilted != p.Extreme {
			t.Fatalf("at %.2f head tilt=%v extreme=%v", ph, tilted, p.Extreme)
		}
	}
}

func TestEyePulseBounds(t *testing.T) {
	actions := append(Actions(), Action(200))
	SetLogger(log.New(&bytes.Buffer{}, "", 0))
	defer SetLogger(log.Default())

	for _, a := range actions {
		for ph := 0.0; ph < 3*BlinkPeriod; ph += 0.013 {
			p := Evaluate(a, ph)
			for _, s := range []Segment{EyeLeft, EyeRight} {
				sc := p.Transform2D(s, 20).Scale
				if sc.X < 1-tol || sc.X > 1+BlinkGrowth+tol || sc.X != sc.Y {
					t.Fatalf("%s %s at %.3f: scale %+v out of [1, 1.2]", a, s, ph, sc)
				}
			}
		}
	}
}

func TestEyesStaggered(t *testing.T) {
	p := Evaluate(Walking, 1.0)
	l := p.Joint(EyeLeft).Scale.X
	r := p.Joint(EyeRight).Scale.X
	if l == r {
		t.Errorf("eyes pulse in unison: %f", l)
	}
	shifted := Evaluate(Walking, 1.0+BlinkStagger).Joint(EyeRight).Scale.X
	if math.Abs(shifted-l) > tol {
		t.Errorf("right eye should trail left by %.1fs: %f vs %f", BlinkStagger, shifted, l)
	}
}

func TestIdeaGlyph_ClosedLoop(t *testing.T) {
	g := NewWithT(t)

	start := IdeaGlyph(0)
	g.Expect(start.Opacity).To(BeZero())
	g.Expect(IdeaGlyph(IdeaPeriod / 2).Opacity).To(BeNumerically("~", 1, tol))
	g.Expect(IdeaGlyph(IdeaPeriod).Opacity).To(BeNumerically("~", start.Opacity, tol))
	g.Expect(IdeaGlyph(IdeaPeriod).Scale).To(BeNumerically("~", start.Scale, tol))
	g.Expect(IdeaGlyph(IdeaPeriod).Offset.Y).To(BeNumerically("~", start.Offset.Y, tol))

	prev := -1.0
	for l := 0.0; l <= IdeaPeriod/2; l += 0.05 {
		o := IdeaGlyph(l).Opacity
		g.Expect(o).To(BeNumerically(">=", prev))
		prev = o
	}

	p := Evaluate(Lightbulb, IdeaOffset)
	g.Expect(p.Prop.Kind).To(Equal(PropIdea))
	g.Expect(p.Prop.Opacity).To(BeNumerically("~", 0, tol))
}

func TestJumping(t *testing.T) {
	for ph := 0.0; ph < 2*JumpPeriod; ph += 0.01 {
		j := Evaluate(Jumping, ph)
		w := Evaluate(Walking, ph)
		if y := j.Joint(Body).Offset.Y; y > tol {
			t.Fatalf("jump at %.2f moves down: %f", ph, y)
		}
		for _, s := range []Segment{LeftArm, RightArm, LeftLeg, RightLeg} {
			if j.Joint(s) != w.Joint(s) {
				t.Fatalf("jump %s at %.2f diverges from walking", s, ph)
			}
		}
	}
	if y := Evaluate(Jumping, JumpPeriod/4).Joint(Body).Offset.Y; y > -JumpHeight+tol {
		t.Errorf("expected full lift at quarter period, got %f", y)
	}
}

func TestWaving(t *testing.T) {
	for ph := 0.0; ph < 2*WavePeriod; ph += 0.01 {
		p := Evaluate(Waving, ph)
		if p.Joint(LeftArm) != restJoint() {
			t.Fatalf("left arm moves while waving at %.2f", ph)
		}
		if math.Abs(p.Joint(RightArm).Pitch) > WaveSwing+tol {
			t.Fatalf("swing out of range at %.2f: %f", ph, p.Joint(RightArm).Pitch)
		}
	}
	quarter := Evaluate(Waving, WavePeriod/4).Transform3D(RightArm)
	if math.Abs(quarter.Rotation.X-radians(WaveSwing)) > tol {
		t.Errorf("expected out-of-plane swing %f, got %f", radians(WaveSwing), quarter.Rotation.X)
	}
}

func TestMouthRestsOutsideExtremes(t *testing.T) {
	for _, a := range []Action{Walking, Jumping, Waving} {
		for ph := 0.0; ph < 6; ph += 0.1 {
			if sc := Evaluate(a, ph).Joint(Mouth).Scale; sc != (Vec2{1, 1}) {
				t.Fatalf("%s mouth moved at %.1f: %+v", a, ph, sc)
			}
		}
	}
	for ph := 0.0; ph < ScratchPeriod; ph += 0.01 {
		p := Evaluate(Lightbulb, ph)
		if !p.Extreme && p.Joint(Mouth).Scale.Y != 1 {
			t.Fatalf("mouth opens outside scratch at %.2f", ph)
		}
	}
}

func TestUnknownAction_FallsBackToIdle(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(log.Default())

	warned.Range(func(k, _ any) bool {
		warned.Delete(k)
		return true
	})

	bad := Action(99)
	p := Evaluate(bad, 1.7)
	idle := Idle(1.7)
	for _, s := range Segments() {
		if p.Joint(s) != idle.Joint(s) {
			t.Errorf("%s: expected idle joint %+v, got %+v", s, idle.Joint(s), p.Joint(s))
		}
	}
	if p.Prop.Kind != PropNone {
		t.Errorf("expected no prop, got %s", p.Prop.Kind)
	}

	Evaluate(bad, 2.0)
	if n := strings.Count(buf.String(), "action(99)"); n != 1 {
		t.Errorf("expected one log line for action(99), got %d: %q", n, buf.String())
	}
}

func TestJointConversions(t *testing.T) {
	j := Joint{Roll: 30, Pitch: 15, Offset: Vec2{1, -0.5}, Scale: Vec2{1.5, 1}}

	flat := j.Flat(20)
	if flat.Rotation != 45 {
		t.Errorf("expected folded rotation 45, got %f", flat.Rotation)
	}
	if flat.Translate != (Vec2{20, -10}) {
		t.Errorf("unexpected translate %+v", flat.Translate)
	}

	sp := j.Spatial()
	if math.Abs(sp.Rotation.Z+radians(30)) > tol || math.Abs(sp.Rotation.X-radians(15)) > tol {
		t.Errorf("unexpected rotation %+v", sp.Rotation)
	}
	if sp.Translate.Y != 0.5 {
		t.Errorf("expected y flipped to 0.5, got %f", sp.Translate.Y)
	}

	if Identity2D() != restJoint().Flat(20) {
		t.Error("rest joint should flatten to identity")
	}
	if Identity3D() != restJoint().Spatial() {
		t.Error("rest joint should lift to identity")
	}
}

func TestSegmentHelpers(t *testing.T) {
	a := Segment2D(Walking, 0.25, LeftLeg, 20)
	b := Evaluate(Walking, 0.25).Transform2D(LeftLeg, 20)
	if a != b {
		t.Errorf("Segment2D disagrees with Evaluate: %+v vs %+v", a, b)
	}
	if Segment3D(Milk, 1, Body) != Evaluate(Milk, 1).Transform3D(Body) {
		t.Error("Segment3D disagrees with Evaluate")
	}
}
