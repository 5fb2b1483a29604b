package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit limits keep the character framed.
const (
	MaxAzimuth   = 45.0
	MinElevation = -10.0
	MaxElevation = 30.0
	MinDistance  = 6.0
	MaxDistance  = 20.0
)

// Camera is a fixed-perspective camera orbiting a target. Angles are in
// degrees; every mutator clamps to the orbit limits.
type Camera struct {
	Target    mgl64.Vec3
	Azimuth   float64
	Elevation float64
	Distance  float64
	FOV       float64 // vertical, degrees
	Near, Far float64
}

func NewCamera() *Camera {
	return &Camera{
		Target:    FigureCenter,
		Elevation: 10,
		Distance:  14,
		FOV:       45,
		Near:      0.1,
		Far:       100,
	}
}

// Orbit rotates the camera around the target by the given degrees.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.Azimuth = clamp(c.Azimuth+dAzimuth, -MaxAzimuth, MaxAzimuth)
	c.Elevation = clamp(c.Elevation+dElevation, MinElevation, MaxElevation)
}

// SetOrbit places the camera, clamping every value to the orbit limits.
func (c *Camera) SetOrbit(azimuth, elevation, distance float64) {
	c.Azimuth = clamp(azimuth, -MaxAzimuth, MaxAzimuth)
	c.Elevation = clamp(elevation, MinElevation, MaxElevation)
	c.Distance = clamp(distance, MinDistance, MaxDistance)
}

func (c *Camera) ZoomIn()  { c.Distance = clamp(c.Distance/1.2, MinDistance, MaxDistance) }
func (c *Camera) ZoomOut() { c.Distance = clamp(c.Distance*1.2, MinDistance, MaxDistance) }

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	az := mgl64.DegToRad(clamp(c.Azimuth, -MaxAzimuth, MaxAzimuth))
	el := mgl64.DegToRad(clamp(c.Elevation, MinElevation, MaxElevation))
	d := clamp(c.Distance, MinDistance, MaxDistance)
	return c.Target.Add(mgl64.Vec3{
		d * math.Cos(el) * math.Sin(az),
		d * math.Sin(el),
		d * math.Cos(el) * math.Cos(az),
	})
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

// Project converts a world point to surface pixels with y pointing down.
// It returns the view depth and whether the point is in front of the
// camera.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (x, y, depth float64, ok bool) {
	if sw <= 0 || sh <= 0 {
		return 0, 0, 0, false
	}
	v := c.View().Mul4x1(p.Vec4(1))
	depth = -v[2]
	if depth <= c.Near || depth >= c.Far {
		return 0, 0, depth, false
	}
	proj := mgl64.Perspective(mgl64.DegToRad(c.FOV), float64(sw)/float64(sh), c.Near, c.Far)
	clip := proj.Mul4x1(v)
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	x = (nx + 1) / 2 * float64(sw)
	y = (1 - ny) / 2 * float64(sh)
	return x, y, depth, true
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
