package scene

import (
	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// controlPointHitSize is the on-screen handle hit target in view pixels. The
// world-space test divides by zoom so the target stays constant on screen.
const controlPointHitSize = 12.0

// HitTest returns the topmost visible, unlocked annotation under a
// view-space point.
func (s *Scene) HitTest(view geometry.Point2D) (int, bool) {
	world := s.ViewToWorld(view)
	list := s.Annotations()
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		if !a.Visible || a.Locked {
			continue
		}
		if a.Contains(world) {
			return a.ID, true
		}
	}
	return 0, false
}

// ControlPointHit pairs a handle with its owning annotation.
type ControlPointHit struct {
	ID   int
	Role annotation.ControlPointRole
}

// ControlPointHitTest returns the control point under a view-space point.
// Only currently selected, unlocked annotations expose handles.
func (s *Scene) ControlPointHitTest(view geometry.Point2D) (ControlPointHit, bool) {
	world := s.ViewToWorld(view)
	half := controlPointHitSize / s.zoom / 2

	list := s.Annotations()
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		if !s.IsSelected(a.ID) || a.Locked {
			continue
		}
		for _, cp := range a.ControlPoints() {
			target := geometry.Rect{
				X:      cp.Position.X - half,
				Y:      cp.Position.Y - half,
				Width:  2 * half,
				Height: 2 * half,
			}
			if target.Contains(world) {
				return ControlPointHit{ID: a.ID, Role: cp.Role}, true
			}
		}
	}
	return ControlPointHit{}, false
}
