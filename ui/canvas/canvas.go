// Package canvas provides the interactive annotation canvas widget: base
// image compositing, annotation rendering, and pointer routing to the active
// tool.
package canvas

import (
	"image"

	"image-annotator/internal/scene"
	"image-annotator/internal/tool"
	"image-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// AnnotationCanvas renders the scene into a raster and feeds pointer gestures
// to the active tool. All drawing happens in draw(); the widget itself holds
// no pixel state beyond the raster.
type AnnotationCanvas struct {
	widget.BaseWidget

	scn   *scene.Scene
	tools *tool.Registry

	raster *fynecanvas.Raster

	// Last rendered output, for tests and sampling.
	lastOutput *image.RGBA
}

// New creates the canvas for a scene and its tool registry.
func New(scn *scene.Scene, tools *tool.Registry) *AnnotationCanvas {
	c := &AnnotationCanvas{scn: scn, tools: tools}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.ExtendBaseWidget(c)

	// Any scene change invalidates the raster.
	redraw := func(interface{}) { c.Refresh() }
	for _, ev := range []scene.EventType{
		scene.EventAnnotationAdded,
		scene.EventAnnotationModified,
		scene.EventAnnotationsDeleted,
		scene.EventSelectionChanged,
		scene.EventViewChanged,
		scene.EventHistoryChanged,
	} {
		scn.On(ev, redraw)
	}
	return c
}

// Refresh redraws the canvas.
func (c *AnnotationCanvas) Refresh() {
	c.raster.Refresh()
}

// RenderedOutput returns the last rendered frame.
func (c *AnnotationCanvas) RenderedOutput() *image.RGBA {
	return c.lastOutput
}

func pointerEvent(pos fyne.Position, mod fyne.KeyModifier) tool.PointerEvent {
	shift := mod&fyne.KeyModifierShift != 0
	return tool.PointerEvent{
		Position:  geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)},
		Additive:  shift,
		Constrain: shift,
	}
}

// MouseDown starts a gesture on the active tool.
func (c *AnnotationCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if t := c.tools.Active(); t != nil {
		t.PointerDown(pointerEvent(ev.Position, ev.Modifier))
	}
	c.Refresh()
}

// MouseUp completes the gesture.
func (c *AnnotationCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if t := c.tools.Active(); t != nil {
		t.PointerUp(pointerEvent(ev.Position, ev.Modifier))
	}
	c.Refresh()
}

// Dragged forwards pointer motion while a button is held.
func (c *AnnotationCanvas) Dragged(ev *fyne.DragEvent) {
	if t := c.tools.Active(); t != nil {
		t.PointerDrag(pointerEvent(ev.Position, 0))
	}
	c.Refresh()
}

// DragEnd is satisfied by MouseUp; the fyne drag lifecycle requires the
// method to exist.
func (c *AnnotationCanvas) DragEnd() {}

// Scrolled zooms with the wheel.
func (c *AnnotationCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.scn.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.scn.ZoomOut()
	}
}

// CreateRenderer implements fyne.Widget.
func (c *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{canvas: c}
}

type canvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *canvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *canvasRenderer) Destroy() {}

// draw is the raster drawing function. The pipeline is background, base
// image, grid, annotations in z-order, tool preview, selection chrome.
func (c *AnnotationCanvas) draw(w, h int) image.Image {
	c.scn.SetViewport(geometry.Size{Width: float64(w), Height: float64(h)})

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(output)

	c.compositeBaseImage(output)
	c.drawGrid(output)

	for _, a := range c.scn.Annotations() {
		if !a.Visible {
			continue
		}
		c.drawAnnotation(output, a)
	}

	c.drawToolPreview(output)
	c.drawSelectionChrome(output)

	c.lastOutput = output
	return output
}
