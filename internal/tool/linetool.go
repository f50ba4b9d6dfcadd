package tool

import (
	"image-annotator/internal/annotation"
	"image-annotator/internal/command"
	"image-annotator/internal/scene"
	"image-annotator/pkg/geometry"
)

// LineTool draws new line annotations by dragging between two endpoints.
type LineTool struct {
	scn *scene.Scene

	// Style settings supplied by the properties-panel collaborator.
	Style annotation.LineStyle

	active bool
	start  geometry.Point2D // world
	end    geometry.Point2D
}

// NewLineTool creates the line tool with the given initial style.
func NewLineTool(s *scene.Scene, style annotation.LineStyle) *LineTool {
	return &LineTool{scn: s, Style: style}
}

func (t *LineTool) ID() string { return "line" }

func (t *LineTool) PointerDown(ev PointerEvent) {
	t.active = true
	t.start = t.scn.ViewToWorld(ev.Position)
	t.end = t.start
	t.scn.BeginInteraction(scene.InteractionDrawLine)
}

func (t *LineTool) PointerDrag(ev PointerEvent) {
	if !t.active {
		return
	}
	t.end = t.scn.ViewToWorld(ev.Position)
}

func (t *LineTool) PointerUp(ev PointerEvent) {
	if !t.active {
		return
	}
	t.active = false
	t.end = t.scn.ViewToWorld(ev.Position)
	t.scn.EndInteraction(scene.InteractionDrawLine)

	if t.start.Distance(t.end) < createThreshold {
		return
	}

	a := annotation.NewLine(t.scn.NextID(), t.start, t.end, t.Style)
	a.ZIndex = t.scn.NextZIndex()
	t.scn.Execute(&command.Add{Annotation: a})
}

func (t *LineTool) Cancel() {
	if !t.active {
		return
	}
	t.active = false
	t.scn.EndInteraction(scene.InteractionDrawLine)
}

// PreviewLine returns the in-progress world endpoints for the rendering
// collaborator, false when no drag is active.
func (t *LineTool) PreviewLine() (start, end geometry.Point2D, ok bool) {
	if !t.active {
		return geometry.Point2D{}, geometry.Point2D{}, false
	}
	return t.start, t.end, true
}
