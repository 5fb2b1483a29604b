// Package analysis inspects pose waveforms.
//
// A [Trace] is a channel sampled at a fixed step. It answers the questions
// asked of the animation curves:
//
//   - [Trace.Bounds]: the range of a channel
//   - [Trace.Exceeds]: the first sample over a threshold
//   - [Trace.DutyCycle]: how much of the time a gate is open
//   - [Trace.DominantPeriod]: the strongest period, from the FFT
//
// [Analyze] runs every channel of an action:
//
//	reports, err := analysis.Analyze(rig.Walking, 40, 0.01)
//	for _, r := range reports {
//	    fmt.Println(r.Segment, r.Channel, r.Period)
//	}
package analysis
