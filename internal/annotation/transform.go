// Package annotation provides the scene entity model: typed annotations,
// their transforms, control points, and snapshots.
package annotation

import (
	"image-annotator/pkg/geometry"
)

// Transform places an annotation in world space. The forward mapping
// reflects axes with a negative scale about the local box center, applies
// the absolute scale, then rotation about that center, then translation.
// Mirroring inside the local box keeps flipped geometry within the same
// world bounds, with the center as the fixed point. A zero scale component
// is invalid and makes the transform non-invertible.
type Transform struct {
	Position geometry.Point2D `json:"position"`
	Scale    geometry.Point2D `json:"scale"`
	Rotation float64          `json:"rotation"` // radians
}

// IdentityTransform returns the identity placement.
func IdentityTransform() Transform {
	return Transform{Scale: geometry.Point2D{X: 1, Y: 1}}
}

// LocalPoint maps a world point into the annotation's untransformed local
// space: translate by -position, divide by the absolute scale, rotate by
// -rotation about the local box center, then undo any mirror. Reports false
// when either scale axis is zero.
func (t Transform) LocalPoint(world geometry.Point2D, size geometry.Size) (geometry.Point2D, bool) {
	if t.Scale.X == 0 || t.Scale.Y == 0 {
		return geometry.Point2D{}, false
	}
	scale := t.Scale.Abs()

	p := world.Sub(t.Position)
	p = geometry.Point2D{X: p.X / scale.X, Y: p.Y / scale.Y}

	if t.Rotation != 0 {
		center := geometry.Point2D{X: size.Width / 2, Y: size.Height / 2}
		p = geometry.RotateAbout(p, center, -t.Rotation)
	}
	if t.Scale.X < 0 {
		p.X = size.Width - p.X
	}
	if t.Scale.Y < 0 {
		p.Y = size.Height - p.Y
	}
	return p, true
}

// WorldPoint maps a local point back to world space. It is the exact inverse
// of LocalPoint for non-degenerate scales.
func (t Transform) WorldPoint(local geometry.Point2D, size geometry.Size) geometry.Point2D {
	p := local
	if t.Scale.X < 0 {
		p.X = size.Width - p.X
	}
	if t.Scale.Y < 0 {
		p.Y = size.Height - p.Y
	}
	if t.Rotation != 0 {
		center := geometry.Point2D{X: size.Width / 2, Y: size.Height / 2}
		p = geometry.RotateAbout(p, center, t.Rotation)
	}
	scale := t.Scale.Abs()
	p = geometry.Point2D{X: p.X * scale.X, Y: p.Y * scale.Y}
	return p.Add(t.Position)
}
