package canvas

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"image-annotator/internal/annotation"
	"image-annotator/internal/scene"
	"image-annotator/internal/tool"
	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

func newTestCanvas(t *testing.T) (*AnnotationCanvas, *scene.Scene) {
	t.Helper()
	test.NewApp()

	s := scene.New()
	reg := tool.NewRegistry(s)
	reg.Register(tool.NewSelectTool(s))
	return New(s, reg), s
}

func TestDrawFillsBackground(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.draw(100, 100)

	if got := c.lastOutput.RGBAAt(5, 5); got != backgroundColor {
		t.Errorf("background pixel = %+v, want %+v", got, backgroundColor)
	}
}

func TestDrawShapeFill(t *testing.T) {
	c, s := newTestCanvas(t)

	a := annotation.NewShape(s.NextID(),
		geometry.Rect{X: 20, Y: 20, Width: 60, Height: 40},
		annotation.Rectangle,
		annotation.ShapeStyle{Fill: colorutil.Red})
	s.Insert(a)

	c.draw(200, 200)
	if got := c.lastOutput.RGBAAt(50, 40); got != colorutil.Red {
		t.Errorf("interior pixel = %+v, want fill %+v", got, colorutil.Red)
	}
	if got := c.lastOutput.RGBAAt(5, 5); got != backgroundColor {
		t.Errorf("exterior pixel = %+v, want background", got)
	}
}

func TestDrawShapeRespectsVisibility(t *testing.T) {
	c, s := newTestCanvas(t)

	a := annotation.NewShape(s.NextID(),
		geometry.Rect{X: 20, Y: 20, Width: 60, Height: 40},
		annotation.Rectangle,
		annotation.ShapeStyle{Fill: colorutil.Red})
	a.Visible = false
	s.Insert(a)

	c.draw(200, 200)
	if got := c.lastOutput.RGBAAt(50, 40); got != backgroundColor {
		t.Errorf("hidden shape painted: pixel = %+v", got)
	}
}

func TestDrawLineStroke(t *testing.T) {
	c, s := newTestCanvas(t)

	a := annotation.NewLine(s.NextID(),
		geometry.Point2D{X: 100, Y: 150},
		geometry.Point2D{X: 160, Y: 150},
		annotation.LineStyle{Stroke: colorutil.Blue, StrokeWidth: 3})
	s.Insert(a)

	c.draw(200, 200)
	if got := c.lastOutput.RGBAAt(130, 150); got != colorutil.Blue {
		t.Errorf("line pixel = %+v, want stroke %+v", got, colorutil.Blue)
	}
}

func TestDrawSelectionHandles(t *testing.T) {
	c, s := newTestCanvas(t)

	a := annotation.NewShape(s.NextID(),
		geometry.Rect{X: 40, Y: 40, Width: 80, Height: 60},
		annotation.Rectangle,
		annotation.ShapeStyle{Fill: colorutil.Green})
	s.Insert(a)
	s.Select(a.ID, false)

	c.draw(200, 200)
	// The top-left handle square is centered on the bounds corner.
	if got := c.lastOutput.RGBAAt(40, 40); got != handleFillColor {
		t.Errorf("handle pixel = %+v, want %+v", got, handleFillColor)
	}
}

func TestZoomScalesRendering(t *testing.T) {
	c, s := newTestCanvas(t)

	a := annotation.NewShape(s.NextID(),
		geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20},
		annotation.Rectangle,
		annotation.ShapeStyle{Fill: colorutil.Red})
	s.Insert(a)
	s.SetZoom(2)

	c.draw(200, 200)
	// World (20,20) is view (40,40) at zoom 2.
	if got := c.lastOutput.RGBAAt(40, 40); got != colorutil.Red {
		t.Errorf("zoomed interior pixel = %+v, want fill", got)
	}
	if got := c.lastOutput.RGBAAt(15, 15); got != backgroundColor {
		t.Errorf("pixel inside unzoomed extent = %+v, want background", got)
	}
}
