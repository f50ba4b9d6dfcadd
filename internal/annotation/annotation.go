package annotation

import (
	"image-annotator/pkg/geometry"
)

// Kind tags the variant payload carried by an Annotation.
type Kind int

const (
	KindShape Kind = iota
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// MinExtent is the smallest local size allowed on either axis. Resizes clamp
// here so inverse-scale math never divides a degenerate box.
const MinExtent = 0.1

// Annotation is a single scene entity. Common placement fields live on the
// struct; exactly one of the variant payloads (Shape, Line) is non-nil,
// matching the Kind tag.
type Annotation struct {
	ID        int              `json:"id"`
	ZIndex    int              `json:"z_index"`
	Visible   bool             `json:"visible"`
	Locked    bool             `json:"locked"`
	Transform Transform        `json:"transform"`
	Size      geometry.Size    `json:"size"` // intrinsic size in local units

	Kind  Kind       `json:"kind"`
	Shape *ShapeData `json:"shape,omitempty"`
	Line  *LineData  `json:"line,omitempty"`
}

// NewShape creates a shape annotation occupying the given world rectangle.
func NewShape(id int, rect geometry.Rect, kind ShapeKind, style ShapeStyle) *Annotation {
	t := IdentityTransform()
	t.Position = rect.TopLeft()
	return &Annotation{
		ID:        id,
		Visible:   true,
		Transform: t,
		Size:      geometry.Size{Width: rect.Width, Height: rect.Height},
		Kind:      KindShape,
		Shape:     &ShapeData{Kind: kind, Style: style},
	}
}

// NewLine creates a line annotation between two world points. Degenerate
// axes are widened to MinExtent about their center so control points stay
// well-defined and an axis-aligned line sits in the middle of its box.
func NewLine(id int, start, end geometry.Point2D, style LineStyle) *Annotation {
	box := geometry.BoundingBox([]geometry.Point2D{start, end})
	if box.Width < MinExtent {
		box.X -= (MinExtent - box.Width) / 2
		box.Width = MinExtent
	}
	if box.Height < MinExtent {
		box.Y -= (MinExtent - box.Height) / 2
		box.Height = MinExtent
	}

	t := IdentityTransform()
	t.Position = box.TopLeft()
	return &Annotation{
		ID:        id,
		Visible:   true,
		Transform: t,
		Size:      geometry.Size{Width: box.Width, Height: box.Height},
		Kind:      KindLine,
		Line: &LineData{
			Start: start.Sub(box.TopLeft()),
			End:   end.Sub(box.TopLeft()),
			Style: style,
		},
	}
}

// Bounds returns the world-space axis-aligned box: origin at the transform
// position, intrinsic size multiplied by the absolute scale. Rotation is
// deliberately ignored; callers needing rotated extents must transform the
// corners themselves.
func (a *Annotation) Bounds() geometry.Rect {
	scale := a.Transform.Scale.Abs()
	return geometry.Rect{
		X:      a.Transform.Position.X,
		Y:      a.Transform.Position.Y,
		Width:  a.Size.Width * scale.X,
		Height: a.Size.Height * scale.Y,
	}
}

// Center returns the center of the unrotated world bounds.
func (a *Annotation) Center() geometry.Point2D {
	return a.Bounds().Center()
}

// MoveBy shifts the annotation by a world-space delta.
func (a *Annotation) MoveBy(delta geometry.Point2D) {
	a.Transform.Position = a.Transform.Position.Add(delta)
}

// Contains tests whether a world point hits the annotation's geometry,
// including its stroked outline. A zero scale component makes the transform
// non-invertible, in which case nothing is contained.
func (a *Annotation) Contains(world geometry.Point2D) bool {
	local, ok := a.Transform.LocalPoint(world, a.Size)
	if !ok {
		return false
	}

	switch a.Kind {
	case KindShape:
		return a.Shape.contains(local, a.Size)
	case KindLine:
		return a.Line.contains(local)
	default:
		return false
	}
}

// Clone returns a deep copy, including the variant payload.
func (a *Annotation) Clone() *Annotation {
	c := *a
	if a.Shape != nil {
		s := *a.Shape
		c.Shape = &s
	}
	if a.Line != nil {
		l := *a.Line
		c.Line = &l
	}
	return &c
}
