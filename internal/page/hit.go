package page

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

// HitTest returns the rig under the surface point (x, y). 2D frames are
// hit by their quads, topmost rig first; 3D frames by the screen box of
// their projected wireframe, nearest rig first. cam may be nil when no
// frame is 3D.
func HitTest(frames []Frame, cam *scene.Camera, sw, sh int, x, y float64) (int, bool) {
	best, bestDepth := -1, math.Inf(1)
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if f.Err != nil {
			continue
		}
		switch f.Props.Mode {
		case rig.Mode3D:
			if cam == nil {
				continue
			}
			if d, ok := hitWireframe(f.Wireframe, cam, sw, sh, x, y); ok && d < bestDepth {
				best, bestDepth = f.Index, d
			}
		default:
			if _, ok := f.Figure.At(mgl64.Vec2{x, y}); ok && best < 0 {
				best, bestDepth = f.Index, 0
			}
		}
	}
	return best, best >= 0
}

func hitWireframe(w scene.Wireframe, cam *scene.Camera, sw, sh int, x, y float64) (float64, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	depth, n := 0.0, 0
	for _, e := range w.Edges {
		for _, p := range [2]mgl64.Vec3{e.Start, e.End} {
			px, py, d, ok := cam.Project(p, sw, sh)
			if !ok {
				continue
			}
			minX, maxX = math.Min(minX, px), math.Max(maxX, px)
			minY, maxY = math.Min(minY, py), math.Max(maxY, py)
			depth += d
			n++
		}
	}
	if n == 0 || x < minX || x > maxX || y < minY || y > maxY {
		return 0, false
	}
	return depth / float64(n), true
}
