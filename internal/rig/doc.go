// Package rig provides the animated block character ("brix") and its
// action-driven pose system.
//
// The package is built around a pure pose function:
//
//   - [Action]: the discrete behavior a character performs
//   - [Segment]: the posable parts of a character
//   - [Evaluate]: maps (Action, phase) to a [Pose]
//   - [Pose]: per-segment joints, convertible to [Transform2D] or [Transform3D]
//   - [Instance]: one mounted character with palette, delay and mode
//
// # Example
//
//	pal := rig.MustPalette("#3490dc", "#6cb2eb", "#2779bd")
//	inst := rig.NewInstance(pal, rig.Walking, 0, rig.Mode2D)
//	inst.Mount(time.Now())
//	pose := inst.Pose(time.Now())
//	leg := pose.Transform2D(rig.LeftLeg, 20)
//
// # Thread Safety
//
// [Evaluate] is a pure function and may be called from any goroutine.
// [Instance] guards its mutable fields, so the UI can change the action
// while a frame goroutine reads it.
package rig
