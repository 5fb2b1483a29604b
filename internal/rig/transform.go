package rig

import "math"

type Vec2 struct {
	X, Y float64
}

type Vec3 struct {
	X, Y, Z float64
}

// Transform2D is a segment transform in screen space: degrees clockwise,
// pixels with y pointing down.
type Transform2D struct {
	Rotation  float64
	Translate Vec2
	Scale     Vec2
}

// Transform3D is a segment transform in world space: radians per axis,
// world units with y pointing up.
type Transform3D struct {
	Rotation  Vec3
	Translate Vec3
	Scale     Vec3
}

// Identity2D is the rest transform.
func Identity2D() Transform2D { return Transform2D{Scale: Vec2{1, 1}} }

// Identity3D is the rest transform.
func Identity3D() Transform3D { return Transform3D{Scale: Vec3{1, 1, 1}} }

// WorldUnitsPerTile converts block tiles to 3D scene units.
const WorldUnitsPerTile = 1.0

// Joint is the mode-independent motion of one segment.
//
// Roll is the in-plane rotation in degrees (screen clockwise). Pitch is the
// out-of-plane rotation in degrees; 2D rendering folds it into the roll
// since a flat figure has no depth axis. Offset is measured in tiles with y
// pointing down.
type Joint struct {
	Roll   float64
	Pitch  float64
	Offset Vec2
	Scale  Vec2
}

func restJoint() Joint { return Joint{Scale: Vec2{1, 1}} }

// Flat converts the joint to a screen transform for the given tile size.
func (j Joint) Flat(tileSize float64) Transform2D {
	return Transform2D{
		Rotation:  j.Roll + j.Pitch,
		Translate: Vec2{j.Offset.X * tileSize, j.Offset.Y * tileSize},
		Scale:     j.Scale,
	}
}

// Spatial converts the joint to a world transform. Screen clockwise roll is
// a negative rotation about +Z once y points up; depth scale follows the
// horizontal scale.
func (j Joint) Spatial() Transform3D {
	return Transform3D{
		Rotation: Vec3{
			X: radians(j.Pitch),
			Z: -radians(j.Roll),
		},
		Translate: Vec3{
			X: j.Offset.X * WorldUnitsPerTile,
			Y: -j.Offset.Y * WorldUnitsPerTile,
		},
		Scale: Vec3{j.Scale.X, j.Scale.Y, j.Scale.X},
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
