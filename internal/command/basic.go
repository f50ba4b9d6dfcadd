package command

import (
	"image/color"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// Add inserts a new annotation; undo removes it by id.
type Add struct {
	Annotation *annotation.Annotation
}

func (c *Add) Execute(s Scene) {
	s.Insert(c.Annotation)
}

func (c *Add) Undo(s Scene) {
	s.Delete(c.Annotation.ID)
}

func (c *Add) Name() string {
	switch c.Annotation.Kind {
	case annotation.KindLine:
		return "Add Line"
	default:
		return "Add Shape"
	}
}

// Delete removes annotations. Execute captures full snapshots first so undo
// re-inserts them with their original z-index intact.
type Delete struct {
	IDs []int

	snapshots []annotation.Snapshot
}

func (c *Delete) Execute(s Scene) {
	c.snapshots = c.snapshots[:0]
	for _, id := range c.IDs {
		if a := s.ByID(id); a != nil {
			c.snapshots = append(c.snapshots, annotation.Capture(a))
		}
	}
	s.Delete(c.IDs...)
}

func (c *Delete) Undo(s Scene) {
	for _, snap := range c.snapshots {
		s.Insert(snap.Materialize())
	}
}

func (c *Delete) Name() string { return "Delete" }

// Move shifts annotations by a world-space delta. Callers should skip
// creating this command for sub-pixel deltas to keep jitter out of history.
type Move struct {
	IDs   []int
	Delta geometry.Point2D
}

func (c *Move) Execute(s Scene) {
	for _, id := range c.IDs {
		if a := s.ByID(id); a != nil {
			a.MoveBy(c.Delta)
		}
	}
	s.Modified(c.IDs...)
}

func (c *Move) Undo(s Scene) {
	for _, id := range c.IDs {
		if a := s.ByID(id); a != nil {
			a.MoveBy(c.Delta.Scale(-1))
		}
	}
	s.Modified(c.IDs...)
}

func (c *Move) Name() string { return "Move" }

// PropertyPatch is a partial update of an annotation's mutable fields. Nil
// fields are left untouched; shape-only fields are ignored on lines and
// vice versa.
type PropertyPatch struct {
	Visible  *bool
	Locked   *bool
	Rotation *float64

	Fill         *color.RGBA
	Stroke       *color.RGBA
	StrokeWidth  *float64
	CornerRadius *float64
	Text         *string
	TextStyle    *annotation.TextStyle

	StartArrow *annotation.ArrowKind
	EndArrow   *annotation.ArrowKind
	ArrowSize  *float64
	Dash       *annotation.DashStyle
	Cap        *annotation.CapStyle
}

// applyTo writes the non-nil fields onto the annotation.
func (p *PropertyPatch) applyTo(a *annotation.Annotation) {
	if p.Visible != nil {
		a.Visible = *p.Visible
	}
	if p.Locked != nil {
		a.Locked = *p.Locked
	}
	if p.Rotation != nil {
		a.Transform.Rotation = *p.Rotation
	}

	switch a.Kind {
	case annotation.KindShape:
		if p.Fill != nil {
			a.Shape.Style.Fill = *p.Fill
		}
		if p.Stroke != nil {
			a.Shape.Style.Stroke = *p.Stroke
		}
		if p.StrokeWidth != nil {
			a.Shape.Style.StrokeWidth = *p.StrokeWidth
		}
		if p.CornerRadius != nil {
			a.Shape.Style.CornerRadius = *p.CornerRadius
		}
		if p.Text != nil {
			a.Shape.Text = *p.Text
		}
		if p.TextStyle != nil {
			a.Shape.TextStyle = *p.TextStyle
		}
	case annotation.KindLine:
		if p.Stroke != nil {
			a.Line.Style.Stroke = *p.Stroke
		}
		if p.StrokeWidth != nil {
			a.Line.Style.StrokeWidth = *p.StrokeWidth
		}
		if p.StartArrow != nil {
			a.Line.Style.StartArrow = *p.StartArrow
		}
		if p.EndArrow != nil {
			a.Line.Style.EndArrow = *p.EndArrow
		}
		if p.ArrowSize != nil {
			a.Line.Style.ArrowSize = *p.ArrowSize
		}
		if p.Dash != nil {
			a.Line.Style.Dash = *p.Dash
		}
		if p.Cap != nil {
			a.Line.Style.Cap = *p.Cap
		}
	}
}

// UpdateProperties applies a property patch to one annotation; undo restores
// the full pre-patch snapshot.
type UpdateProperties struct {
	ID    int
	Patch PropertyPatch

	before annotation.Snapshot
}

func (c *UpdateProperties) Execute(s Scene) {
	a := s.ByID(c.ID)
	if a == nil {
		return
	}
	c.before = annotation.Capture(a)
	c.Patch.applyTo(a)
	s.Modified(c.ID)
}

func (c *UpdateProperties) Undo(s Scene) {
	a := s.ByID(c.ID)
	if a == nil {
		return
	}
	c.before.Restore(a)
	s.Modified(c.ID)
}

func (c *UpdateProperties) Name() string { return "Change Properties" }

// Batch groups commands so a multi-target edit undoes and redoes as one
// user-visible action.
type Batch struct {
	Label    string
	Commands []Command
}

func (c *Batch) Execute(s Scene) {
	for _, cmd := range c.Commands {
		cmd.Execute(s)
	}
}

func (c *Batch) Undo(s Scene) {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		c.Commands[i].Undo(s)
	}
}

func (c *Batch) Name() string { return c.Label }

// MoveControlPoint drags a handle to a new world position. Undo restores the
// full pre-drag snapshot: resize is non-linear under rotation and scale, so
// an inverse delta would not round-trip.
type MoveControlPoint struct {
	ID       int
	Role     annotation.ControlPointRole
	Position geometry.Point2D

	before annotation.Snapshot
}

func (c *MoveControlPoint) Execute(s Scene) {
	a := s.ByID(c.ID)
	if a == nil {
		return
	}
	c.before = annotation.Capture(a)
	a.MoveControlPoint(c.Role, c.Position)
	s.Modified(c.ID)
}

func (c *MoveControlPoint) Undo(s Scene) {
	a := s.ByID(c.ID)
	if a == nil {
		return
	}
	c.before.Restore(a)
	s.Modified(c.ID)
}

func (c *MoveControlPoint) Name() string { return "Resize" }
