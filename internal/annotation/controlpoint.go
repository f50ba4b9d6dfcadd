package annotation

import (
	"math"

	"image-annotator/pkg/geometry"
)

// ControlPointRole names a draggable manipulation handle on an annotation.
type ControlPointRole int

const (
	CornerTopLeft ControlPointRole = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeLeft
	LineStart
	LineEnd
	// Center is reserved for whole-annotation handles (e.g. rotation pivots).
	Center
)

func (r ControlPointRole) String() string {
	switch r {
	case CornerTopLeft:
		return "corner-top-left"
	case CornerTopRight:
		return "corner-top-right"
	case CornerBottomRight:
		return "corner-bottom-right"
	case CornerBottomLeft:
		return "corner-bottom-left"
	case EdgeTop:
		return "edge-top"
	case EdgeRight:
		return "edge-right"
	case EdgeBottom:
		return "edge-bottom"
	case EdgeLeft:
		return "edge-left"
	case LineStart:
		return "line-start"
	case LineEnd:
		return "line-end"
	case Center:
		return "center"
	default:
		return "unknown"
	}
}

// ControlPoint is a handle derived on demand from an annotation's current
// state; it is not an owned entity.
type ControlPoint struct {
	Role     ControlPointRole
	Position geometry.Point2D // world space
}

// ControlPoints enumerates the annotation's manipulation handles: four
// corners plus four edge midpoints for shapes, the two endpoints for lines.
func (a *Annotation) ControlPoints() []ControlPoint {
	switch a.Kind {
	case KindShape:
		b := a.Bounds()
		midX := b.X + b.Width/2
		midY := b.Y + b.Height/2
		right := b.X + b.Width
		bottom := b.Y + b.Height
		return []ControlPoint{
			{CornerTopLeft, geometry.Point2D{X: b.X, Y: b.Y}},
			{CornerTopRight, geometry.Point2D{X: right, Y: b.Y}},
			{CornerBottomRight, geometry.Point2D{X: right, Y: bottom}},
			{CornerBottomLeft, geometry.Point2D{X: b.X, Y: bottom}},
			{EdgeTop, geometry.Point2D{X: midX, Y: b.Y}},
			{EdgeRight, geometry.Point2D{X: right, Y: midY}},
			{EdgeBottom, geometry.Point2D{X: midX, Y: bottom}},
			{EdgeLeft, geometry.Point2D{X: b.X, Y: midY}},
		}
	case KindLine:
		return []ControlPoint{
			{LineStart, a.StartWorld()},
			{LineEnd, a.EndWorld()},
		}
	default:
		return nil
	}
}

// MoveControlPoint drags the named handle to a new world position, resizing
// the annotation. Dragging past the opposite side flips orientation rather
// than producing a negative size; each axis is floored at MinExtent.
func (a *Annotation) MoveControlPoint(role ControlPointRole, world geometry.Point2D) {
	switch a.Kind {
	case KindShape:
		a.resizeToHandle(role, world)
	case KindLine:
		a.moveEndpoint(role, world)
	}
}

// resizeToHandle applies a corner or edge drag: corners move both bounds on
// their side, edges move a single axis. The result is renormalized to a
// (min,min) origin with the size converted back to local units.
func (a *Annotation) resizeToHandle(role ControlPointRole, world geometry.Point2D) {
	scale := a.Transform.Scale.Abs()
	if scale.X == 0 || scale.Y == 0 {
		return
	}

	b := a.Bounds()
	minX, minY := b.X, b.Y
	maxX, maxY := b.X+b.Width, b.Y+b.Height

	switch role {
	case CornerTopLeft:
		minX, minY = world.X, world.Y
	case CornerTopRight:
		maxX, minY = world.X, world.Y
	case CornerBottomRight:
		maxX, maxY = world.X, world.Y
	case CornerBottomLeft:
		minX, maxY = world.X, world.Y
	case EdgeTop:
		minY = world.Y
	case EdgeRight:
		maxX = world.X
	case EdgeBottom:
		maxY = world.Y
	case EdgeLeft:
		minX = world.X
	default:
		return
	}

	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	a.Transform.Position = geometry.Point2D{X: minX, Y: minY}
	a.Size = geometry.Size{
		Width:  math.Max((maxX-minX)/scale.X, MinExtent),
		Height: math.Max((maxY-minY)/scale.Y, MinExtent),
	}
}
