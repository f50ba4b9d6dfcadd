package annotation

import (
	"math"

	"image-annotator/pkg/geometry"
)

// lineHitSlop is the minimum world-space tap target around a line, so thin
// strokes remain clickable.
const lineHitSlop = 4.0

// LineData is the variant payload of a line annotation. Start and End are
// offsets from the transform position in the line's own un-rotated,
// un-scaled local box.
type LineData struct {
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
	Style LineStyle        `json:"style"`
}

// contains tests a local-space point against the segment, hitting within
// half the stroke width or the minimum tap target, whichever is larger.
func (d *LineData) contains(local geometry.Point2D) bool {
	dist := geometry.PointToSegmentDistance(local, d.Start, d.End)
	return dist <= math.Max(d.Style.StrokeWidth/2, lineHitSlop)
}

// StartWorld returns the world position of the line's start point. Endpoints
// go through the full placement transform, so rendering, control points, and
// containment all agree under rotation and mirroring.
func (a *Annotation) StartWorld() geometry.Point2D {
	return a.Transform.WorldPoint(a.Line.Start, a.Size)
}

// EndWorld returns the world position of the line's end point.
func (a *Annotation) EndWorld() geometry.Point2D {
	return a.Transform.WorldPoint(a.Line.End, a.Size)
}

// moveEndpoint moves one endpoint to a new world position. For unrotated
// lines the box is renormalized: the transform position becomes the new
// endpoint bounding box origin, the size its extent (floored at MinExtent),
// and both endpoints are re-expressed as local offsets. A rotated box has no
// tight axis-aligned renormalization that keeps the rotation center fixed,
// so only the endpoint itself moves.
func (a *Annotation) moveEndpoint(role ControlPointRole, world geometry.Point2D) {
	scale := a.Transform.Scale.Abs()
	if scale.X == 0 || scale.Y == 0 {
		return
	}
	if role != LineStart && role != LineEnd {
		return
	}

	if a.Transform.Rotation != 0 {
		if local, ok := a.Transform.LocalPoint(world, a.Size); ok {
			if role == LineStart {
				a.Line.Start = local
			} else {
				a.Line.End = local
			}
		}
		return
	}

	start := a.StartWorld()
	end := a.EndWorld()
	if role == LineStart {
		start = world
	} else {
		end = world
	}

	box := geometry.BoundingBox([]geometry.Point2D{start, end})
	extentW := math.Max(box.Width, MinExtent)
	extentH := math.Max(box.Height, MinExtent)

	a.Transform.Position = box.TopLeft()
	a.Size = geometry.Size{Width: extentW / scale.X, Height: extentH / scale.Y}
	if s, ok := a.Transform.LocalPoint(start, a.Size); ok {
		a.Line.Start = s
	}
	if e, ok := a.Transform.LocalPoint(end, a.Size); ok {
		a.Line.End = e
	}
}
