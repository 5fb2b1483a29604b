package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/brix/internal/rig"
)

var (
	ErrShortTrace = errors.New("analysis: trace too short")
	ErrFlatTrace  = errors.New("analysis: trace has no oscillation")
	ErrBadStep    = errors.New("analysis: step must be positive")
	ErrChannel    = errors.New("analysis: unknown channel")
)

// Trace is a signal sampled at a fixed step.
type Trace struct {
	Start  float64
	Step   float64
	Values []float64
}

// Sample evaluates fn on [from, to) every step seconds.
func Sample(fn func(t float64) float64, from, to, step float64) (Trace, error) {
	if step <= 0 {
		return Trace{}, ErrBadStep
	}
	n := int(math.Ceil((to - from) / step))
	if n < 0 {
		n = 0
	}
	tr := Trace{Start: from, Step: step, Values: make([]float64, n)}
	for i := range tr.Values {
		tr.Values[i] = fn(tr.Time(i))
	}
	return tr, nil
}

func (tr Trace) Len() int { return len(tr.Values) }

// Time returns the sample time of index i.
func (tr Trace) Time(i int) float64 { return tr.Start + float64(i)*tr.Step }

// Bounds returns the smallest and largest sample.
func (tr Trace) Bounds() (min, max float64) {
	if len(tr.Values) == 0 {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range tr.Values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

// Exceeds returns the first index whose sample is strictly above th.
func (tr Trace) Exceeds(th float64) (int, bool) {
	for i, v := range tr.Values {
		if v > th {
			return i, true
		}
	}
	return -1, false
}

// DutyCycle is the fraction of samples strictly above th.
func (tr Trace) DutyCycle(th float64) float64 {
	if len(tr.Values) == 0 {
		return 0
	}
	n := 0
	for _, v := range tr.Values {
		if v > th {
			n++
		}
	}
	return float64(n) / float64(len(tr.Values))
}

// DominantPeriod estimates the strongest period in seconds from the peak
// of the power spectrum, refined by parabolic interpolation.
func (tr Trace) DominantPeriod() (float64, error) {
	if len(tr.Values) < 8 {
		return 0, ErrShortTrace
	}
	ps := PowerSpectrum(tr.Values)
	k, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			k, peak = i, ps[i]
		}
	}
	if k == 0 || peak < 1e-9 {
		return 0, ErrFlatTrace
	}

	bin := float64(k)
	if k > 0 && k < len(ps)-1 {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return float64(len(tr.Values)) * tr.Step / bin, nil
}

// Channel is one scalar of a joint.
type Channel uint8

const (
	Roll Channel = iota
	Pitch
	OffsetX
	OffsetY
	ScaleX
	ScaleY
	numChannels
)

var channelNames = [numChannels]string{"roll", "pitch", "offset-x", "offset-y", "scale-x", "scale-y"}

func (c Channel) String() string {
	if c < numChannels {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

func Channels() []Channel {
	out := make([]Channel, numChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

func ParseChannel(s string) (Channel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range channelNames {
		if n == s || strings.ReplaceAll(n, "-", "") == s {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrChannel, s)
}

// Of extracts the channel from a joint.
func (c Channel) Of(j rig.Joint) float64 {
	switch c {
	case Roll:
		return j.Roll
	case Pitch:
		return j.Pitch
	case OffsetX:
		return j.Offset.X
	case OffsetY:
		return j.Offset.Y
	case ScaleX:
		return j.Scale.X
	case ScaleY:
		return j.Scale.Y
	}
	return 0
}

// JointTrace samples one channel of one segment of an action.
func JointTrace(a rig.Action, s rig.Segment, c Channel, from, to, step float64) (Trace, error) {
	return Sample(func(t float64) float64 {
		return c.Of(rig.Evaluate(a, t).Joint(s))
	}, from, to, step)
}

// Report summarizes one moving channel.
type Report struct {
	Segment  rig.Segment
	Channel  Channel
	Min, Max float64
	Period   float64 // 0 when no period was found
}

// Analyze samples every channel of every segment of a over duration
// seconds and reports the ones that move.
func Analyze(a rig.Action, duration, step float64) ([]Report, error) {
	var out []Report
	for _, s := range rig.Segments() {
		for _, c := range Channels() {
			tr, err := JointTrace(a, s, c, 0, duration, step)
			if err != nil {
				return nil, err
			}
			lo, hi := tr.Bounds()
			if hi-lo < 1e-9 {
				continue
			}
			r := Report{Segment: s, Channel: c, Min: lo, Max: hi}
			if p, err := tr.DominantPeriod(); err == nil {
				r.Period = p
			}
			out = append(out, r)
		}
	}
	return out, nil
}

// ExtremeTrace samples the extreme flag of an action as 0 or 1.
func ExtremeTrace(a rig.Action, from, to, step float64) (Trace, error) {
	return Sample(func(t float64) float64 {
		if rig.Evaluate(a, t).Extreme {
			return 1
		}
		return 0
	}, from, to, step)
}
