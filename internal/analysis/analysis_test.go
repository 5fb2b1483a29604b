package analysis

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/brix/internal/rig"
)

func TestSample(t *testing.T) {
	tr, err := Sample(func(t float64) float64 { return t }, 0, 1, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 4 || tr.Values[3] != 0.75 {
		t.Errorf("unexpected samples %v", tr.Values)
	}
	if _, err := Sample(math.Sin, 0, 1, 0); !errors.Is(err, ErrBadStep) {
		t.Errorf("expected ErrBadStep, got %v", err)
	}
	if tr, _ := Sample(math.Sin, 1, 0, 0.1); tr.Len() != 0 {
		t.Error("reversed range should be empty")
	}
}

func TestTrace_BoundsAndExceeds(t *testing.T) {
	g := NewWithT(t)
	tr, _ := Sample(func(t float64) float64 { return math.Sin(2 * math.Pi * t / 5) }, 0, 10, 0.001)

	lo, hi := tr.Bounds()
	g.Expect(lo).To(BeNumerically("~", -1, 1e-4))
	g.Expect(hi).To(BeNumerically("~", 1, 1e-4))

	i, ok := tr.Exceeds(0.7)
	g.Expect(ok).To(BeTrue())
	g.Expect(tr.Time(i)).To(BeNumerically("~", 5*math.Asin(0.7)/(2*math.Pi), 2e-3))

	_, ok = tr.Exceeds(2)
	g.Expect(ok).To(BeFalse())

	g.Expect(tr.DutyCycle(0.7)).To(BeNumerically("~", 0.5-2*math.Asin(0.7)/(2*math.Pi), 2e-3))
}

func TestTrace_DominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(float64) float64
		period float64
	}{
		{"sine 2s", func(t float64) float64 { return math.Sin(math.Pi * t) }, 2},
		{"sine 1.5s offset", func(t float64) float64 { return 3 + math.Sin(2*math.Pi*(t-0.3)/1.5) }, 1.5},
		{"squared sine 4s", func(t float64) float64 { return math.Pow(math.Sin(math.Pi*t/4), 2) }, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := Sample(tt.fn, 0, 60, 0.01)
			p, err := tr.DominantPeriod()
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(p-tt.period) > 0.05*tt.period {
				t.Errorf("period = %f, want %f", p, tt.period)
			}
		})
	}

	flat, _ := Sample(func(float64) float64 { return 1 }, 0, 10, 0.1)
	if _, err := flat.DominantPeriod(); !errors.Is(err, ErrFlatTrace) {
		t.Errorf("expected ErrFlatTrace, got %v", err)
	}
	short := Trace{Step: 1, Values: []float64{1, 2}}
	if _, err := short.DominantPeriod(); !errors.Is(err, ErrShortTrace) {
		t.Errorf("expected ErrShortTrace, got %v", err)
	}
}

func TestJointTrace_WalkingLegs(t *testing.T) {
	g := NewWithT(t)
	left, err := JointTrace(rig.Walking, rig.LeftLeg, Roll, 0, 40, 0.01)
	g.Expect(err).NotTo(HaveOccurred())
	right, _ := JointTrace(rig.Walking, rig.RightLeg, Roll, 0, 40, 0.01)

	lo, hi := left.Bounds()
	g.Expect(lo).To(BeNumerically("~", -rig.LegSwing, 1e-2))
	g.Expect(hi).To(BeNumerically("~", rig.LegSwing, 1e-2))
	for i := range left.Values {
		g.Expect(left.Values[i]).To(BeNumerically("~", -right.Values[i], 1e-9))
	}

	p, err := left.DominantPeriod()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p).To(BeNumerically("~", rig.StridePeriod, 0.05))
}

func TestExtremeTrace_Lightbulb(t *testing.T) {
	g := NewWithT(t)
	tr, err := ExtremeTrace(rig.Lightbulb, 0, 50, 0.005)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tr.DutyCycle(0.5)).To(BeNumerically("~", 0.5-math.Asin(rig.ExtremeGate)/math.Pi, 5e-3))

	p, err := tr.DominantPeriod()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p).To(BeNumerically("~", rig.ScratchPeriod, 0.25))
}

func TestAnalyze(t *testing.T) {
	reports, err := Analyze(rig.Waving, 30, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	var swing *Report
	for i, r := range reports {
		if r.Segment == rig.LeftArm {
			t.Errorf("waving left arm should be still, got %+v", r)
		}
		if r.Segment == rig.RightArm && r.Channel == Pitch {
			swing = &reports[i]
		}
	}
	if swing == nil {
		t.Fatal("no report for the waving arm")
	}
	if math.Abs(swing.Period-rig.WavePeriod) > 0.1 {
		t.Errorf("wave period = %f", swing.Period)
	}
}

func TestParseChannel(t *testing.T) {
	for _, c := range Channels() {
		got, err := ParseChannel(c.String())
		if err != nil || got != c {
			t.Errorf("ParseChannel(%s) = %v, %v", c, got, err)
		}
	}
	if c, err := ParseChannel("OffsetY"); err != nil || c != OffsetY {
		t.Errorf("ParseChannel(OffsetY) = %v, %v", c, err)
	}
	if _, err := ParseChannel("yaw"); !errors.Is(err, ErrChannel) {
		t.Errorf("expected ErrChannel, got %v", err)
	}
}
