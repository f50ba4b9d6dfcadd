package tool

import (
	"math"

	"image-annotator/internal/annotation"
	"image-annotator/internal/command"
	"image-annotator/internal/scene"
	"image-annotator/pkg/geometry"
)

// createThreshold is the minimum world extent for a newly drawn shape or
// line; smaller drags are accidental clicks and are discarded.
const createThreshold = 0.5

// ShapeTool draws new shape annotations by dragging a rectangle. The drag is
// preview-only; the scene is untouched until release.
type ShapeTool struct {
	scn *scene.Scene

	// Style settings supplied by the properties-panel collaborator.
	Kind      annotation.ShapeKind
	Style     annotation.ShapeStyle
	TextStyle annotation.TextStyle

	active bool
	start  geometry.Point2D // world
	end    geometry.Point2D
}

// NewShapeTool creates the shape tool with the given initial style.
func NewShapeTool(s *scene.Scene, kind annotation.ShapeKind, style annotation.ShapeStyle) *ShapeTool {
	return &ShapeTool{scn: s, Kind: kind, Style: style}
}

func (t *ShapeTool) ID() string { return "shape" }

func (t *ShapeTool) PointerDown(ev PointerEvent) {
	t.active = true
	t.start = t.scn.ViewToWorld(ev.Position)
	t.end = t.start
	t.scn.BeginInteraction(scene.InteractionDrawShape)
}

func (t *ShapeTool) PointerDrag(ev PointerEvent) {
	if !t.active {
		return
	}
	t.end = t.dragEnd(ev)
}

func (t *ShapeTool) PointerUp(ev PointerEvent) {
	if !t.active {
		return
	}
	t.active = false
	t.end = t.dragEnd(ev)
	t.scn.EndInteraction(scene.InteractionDrawShape)

	rect := geometry.RectFromPoints(t.start, t.end)
	if rect.Width < createThreshold || rect.Height < createThreshold {
		return
	}

	a := annotation.NewShape(t.scn.NextID(), rect, t.Kind, t.Style)
	a.Shape.TextStyle = t.TextStyle
	a.ZIndex = t.scn.NextZIndex()
	t.scn.Execute(&command.Add{Annotation: a})
}

func (t *ShapeTool) Cancel() {
	if !t.active {
		return
	}
	t.active = false
	t.scn.EndInteraction(scene.InteractionDrawShape)
}

// PreviewRect returns the in-progress world rectangle for the rendering
// collaborator, false when no drag is active.
func (t *ShapeTool) PreviewRect() (geometry.Rect, bool) {
	if !t.active {
		return geometry.Rect{}, false
	}
	return geometry.RectFromPoints(t.start, t.end), true
}

// dragEnd resolves the drag endpoint, constraining to a square when the
// modifier is held while keeping the drag direction.
func (t *ShapeTool) dragEnd(ev PointerEvent) geometry.Point2D {
	end := t.scn.ViewToWorld(ev.Position)
	if !ev.Constrain {
		return end
	}

	dx := end.X - t.start.X
	dy := end.Y - t.start.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))
	return geometry.Point2D{
		X: t.start.X + math.Copysign(side, dx),
		Y: t.start.Y + math.Copysign(side, dy),
	}
}
