package tool

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"image-annotator/internal/annotation"
	"image-annotator/internal/scene"
	"image-annotator/pkg/geometry"
)

func at(x, y float64) PointerEvent {
	return PointerEvent{Position: geometry.Point2D{X: x, Y: y}}
}

func drag(t Tool, from, to geometry.Point2D) {
	t.PointerDown(PointerEvent{Position: from})
	t.PointerDrag(PointerEvent{Position: to})
	t.PointerUp(PointerEvent{Position: to})
}

func sceneWithShape(rect geometry.Rect) (*scene.Scene, *annotation.Annotation) {
	s := scene.New()
	a := annotation.NewShape(s.NextID(), rect, annotation.Rectangle, annotation.ShapeStyle{})
	a.ZIndex = s.NextZIndex()
	s.Insert(a)
	return s, a
}

func historyDepth(s *scene.Scene) int {
	n := 0
	for s.Undo() {
		n++
	}
	for i := 0; i < n; i++ {
		s.Redo()
	}
	return n
}

func TestShapeToolCommitsSingleAdd(t *testing.T) {
	s := scene.New()
	st := NewShapeTool(s, annotation.Ellipse, annotation.ShapeStyle{})

	st.PointerDown(at(10, 10))
	st.PointerDrag(at(30, 20))
	st.PointerDrag(at(60, 40))
	st.PointerUp(at(60, 40))

	list := s.All()
	if len(list) != 1 {
		t.Fatalf("annotations = %d, want 1", len(list))
	}
	a := list[0]
	if a.Shape == nil || a.Shape.Kind != annotation.Ellipse {
		t.Errorf("created kind = %+v, want ellipse", a.Shape)
	}
	want := geometry.Rect{X: 10, Y: 10, Width: 50, Height: 30}
	if !a.Bounds().ApproxEqual(want) {
		t.Errorf("Bounds() = %+v, want %+v", a.Bounds(), want)
	}
	if got := historyDepth(s); got != 1 {
		t.Errorf("history depth = %d, want 1", got)
	}
	if s.UndoName() != "Add Shape" {
		t.Errorf("UndoName() = %q, want %q", s.UndoName(), "Add Shape")
	}
}

func TestShapeToolDiscardsTinyDrag(t *testing.T) {
	s := scene.New()
	st := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})

	drag(st, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 10.2, Y: 10.2})

	if len(s.All()) != 0 {
		t.Error("sub-threshold drag should create nothing")
	}
	if s.CanUndo() {
		t.Error("discarded drag must not enter history")
	}
}

func TestShapeToolConstrainToSquare(t *testing.T) {
	s := scene.New()
	st := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})

	st.PointerDown(at(10, 10))
	st.PointerUp(PointerEvent{Position: geometry.Point2D{X: 50, Y: 20}, Constrain: true})

	a := s.All()[0]
	if !scalar.EqualWithinAbs(a.Size.Width, a.Size.Height, 1e-9) {
		t.Errorf("constrained size = %+v, want square", a.Size)
	}
	if !scalar.EqualWithinAbs(a.Size.Width, 40, 1e-9) {
		t.Errorf("side = %v, want the dominant drag axis 40", a.Size.Width)
	}
}

func TestShapeToolPreviewAndCancel(t *testing.T) {
	s := scene.New()
	st := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})

	if _, ok := st.PreviewRect(); ok {
		t.Error("idle tool should have no preview")
	}

	st.PointerDown(at(10, 10))
	st.PointerDrag(at(40, 30))
	rect, ok := st.PreviewRect()
	if !ok || !rect.ApproxEqual(geometry.Rect{X: 10, Y: 10, Width: 30, Height: 20}) {
		t.Errorf("PreviewRect() = %+v,%v", rect, ok)
	}

	st.Cancel()
	st.Cancel() // idempotent
	if _, ok := st.PreviewRect(); ok {
		t.Error("cancel should drop the preview")
	}
	if len(s.All()) != 0 || s.CanUndo() {
		t.Error("cancel must not commit anything")
	}
}

func TestShapeToolWorksInWorldSpace(t *testing.T) {
	s := scene.New()
	s.SetZoom(2)
	s.SetPan(geometry.Point2D{X: 100, Y: 100})
	st := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})

	// View (100,100)-(140,120) is world (0,0)-(20,10).
	drag(st, geometry.Point2D{X: 100, Y: 100}, geometry.Point2D{X: 140, Y: 120})

	a := s.All()[0]
	want := geometry.Rect{X: 0, Y: 0, Width: 20, Height: 10}
	if !a.Bounds().ApproxEqual(want) {
		t.Errorf("Bounds() = %+v, want %+v", a.Bounds(), want)
	}
}

func TestLineToolCommitsSingleAdd(t *testing.T) {
	s := scene.New()
	lt := NewLineTool(s, annotation.LineStyle{StrokeWidth: 2})

	drag(lt, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 110, Y: 60})

	list := s.All()
	if len(list) != 1 {
		t.Fatalf("annotations = %d, want 1", len(list))
	}
	a := list[0]
	if !a.StartWorld().ApproxEqual(geometry.Point2D{X: 10, Y: 10}) ||
		!a.EndWorld().ApproxEqual(geometry.Point2D{X: 110, Y: 60}) {
		t.Errorf("endpoints = %+v, %+v", a.StartWorld(), a.EndWorld())
	}
	if s.UndoName() != "Add Line" {
		t.Errorf("UndoName() = %q, want %q", s.UndoName(), "Add Line")
	}
}

func TestLineToolDiscardsTinyDrag(t *testing.T) {
	s := scene.New()
	lt := NewLineTool(s, annotation.LineStyle{})

	drag(lt, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 10.1, Y: 10.1})

	if len(s.All()) != 0 || s.CanUndo() {
		t.Error("sub-threshold drag should create nothing")
	}
}

func TestSelectToolClickSelects(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	drag(st, geometry.Point2D{X: 150, Y: 150}, geometry.Point2D{X: 150, Y: 150})

	if !s.IsSelected(a.ID) {
		t.Error("click on shape should select it")
	}
	if s.CanUndo() {
		t.Error("a zero-length drag must not commit a move")
	}
}

func TestSelectToolDragCommitsSingleMove(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	st.PointerDown(at(150, 150))
	st.PointerDrag(at(170, 160))

	// Live preview mutates the scene directly.
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 120, Y: 110}) {
		t.Errorf("preview position = %+v, want (120,110)", a.Transform.Position)
	}

	st.PointerUp(at(180, 170))
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 130, Y: 120}) {
		t.Errorf("final position = %+v, want (130,120)", a.Transform.Position)
	}
	if got := historyDepth(s); got != 1 {
		t.Fatalf("history depth = %d, want exactly one Move", got)
	}

	s.Undo()
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 100, Y: 100}) {
		t.Errorf("undo position = %+v, want the pre-drag (100,100)", a.Transform.Position)
	}
}

func TestSelectToolSubThresholdMoveCommitsNothing(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	drag(st, geometry.Point2D{X: 150, Y: 150}, geometry.Point2D{X: 150.5, Y: 150.5})

	if s.CanUndo() {
		t.Error("jitter drag must stay out of history")
	}
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 100, Y: 100}) {
		t.Errorf("position = %+v, want restored (100,100)", a.Transform.Position)
	}
}

func TestSelectToolHandleDrag(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)
	s.Select(a.ID, false)

	st.PointerDown(at(300, 250)) // bottom-right handle
	st.PointerDrag(at(340, 290))
	st.PointerUp(at(340, 290))

	want := geometry.Rect{X: 100, Y: 100, Width: 240, Height: 190}
	if !a.Bounds().ApproxEqual(want) {
		t.Errorf("Bounds() = %+v, want %+v", a.Bounds(), want)
	}
	if got := historyDepth(s); got != 1 {
		t.Fatalf("history depth = %d, want exactly one Resize", got)
	}
	if s.UndoName() != "Resize" {
		t.Errorf("UndoName() = %q, want %q", s.UndoName(), "Resize")
	}

	s.Undo()
	if !a.Bounds().ApproxEqual(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150}) {
		t.Errorf("undo Bounds() = %+v, want original", a.Bounds())
	}
}

func TestSelectToolPanClearsSelection(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)
	s.Select(a.ID, false)

	st.PointerDown(at(500, 500))
	st.PointerDrag(at(520, 530))
	st.PointerUp(at(520, 530))

	if s.IsSelected(a.ID) {
		t.Error("empty-canvas press should clear the selection")
	}
	if !s.Pan().ApproxEqual(geometry.Point2D{X: 20, Y: 30}) {
		t.Errorf("Pan() = %+v, want (20,30)", s.Pan())
	}
	if s.CanUndo() {
		t.Error("panning must not enter history")
	}
}

func TestSelectToolAdditivePressKeepsSelection(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)
	s.Select(a.ID, false)

	ev := PointerEvent{Position: geometry.Point2D{X: 500, Y: 500}, Additive: true}
	st.PointerDown(ev)
	st.PointerUp(ev)

	if !s.IsSelected(a.ID) {
		t.Error("additive press on empty canvas should keep the selection")
	}
}

func TestSelectToolCancelRestoresPreview(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	st.PointerDown(at(150, 150))
	st.PointerDrag(at(250, 250))
	st.Cancel()
	st.Cancel() // idempotent

	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 100, Y: 100}) {
		t.Errorf("position after cancel = %+v, want (100,100)", a.Transform.Position)
	}
	if s.CanUndo() {
		t.Error("cancelled drag must not commit")
	}
}

func TestSelectToolDoubleClickBeginsTextEdit(t *testing.T) {
	s, _ := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	clock := time.Unix(0, 0)
	st.now = func() time.Time { return clock }

	var began []scene.InteractionTag
	s.On(scene.EventInteractionBegan, func(data interface{}) {
		began = append(began, data.(scene.InteractionTag))
	})

	drag(st, geometry.Point2D{X: 150, Y: 150}, geometry.Point2D{X: 150, Y: 150})
	clock = clock.Add(200 * time.Millisecond)
	st.PointerDown(at(150, 150))

	found := false
	for _, tag := range began {
		if tag == scene.InteractionEditText {
			found = true
		}
	}
	if !found {
		t.Error("double click on a shape should begin a text-edit interaction")
	}
}

func TestSelectToolSlowSecondClickIsNotDouble(t *testing.T) {
	s, _ := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	st := NewSelectTool(s)

	clock := time.Unix(0, 0)
	st.now = func() time.Time { return clock }

	var began []scene.InteractionTag
	s.On(scene.EventInteractionBegan, func(data interface{}) {
		began = append(began, data.(scene.InteractionTag))
	})

	drag(st, geometry.Point2D{X: 150, Y: 150}, geometry.Point2D{X: 150, Y: 150})
	clock = clock.Add(time.Second)
	st.PointerDown(at(150, 150))
	st.PointerUp(at(150, 150))

	for _, tag := range began {
		if tag == scene.InteractionEditText {
			t.Error("slow second click must not begin text editing")
		}
	}
}

func TestRegistryActivation(t *testing.T) {
	s, a := sceneWithShape(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	reg := NewRegistry(s)
	sel := NewSelectTool(s)
	shp := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})
	reg.Register(sel)
	reg.Register(shp)

	if reg.Active() != sel {
		t.Fatal("first registered tool should start active")
	}

	s.Select(a.ID, false)
	if !reg.Activate("shape") {
		t.Fatal("Activate(shape) failed")
	}
	if reg.Active() != shp {
		t.Error("active tool did not switch")
	}
	if len(s.SelectedIDs()) != 0 {
		t.Error("switching tools should clear the selection")
	}

	if reg.Activate("bogus") {
		t.Error("unknown tool id should be rejected")
	}
	if reg.Active() != shp {
		t.Error("failed activation must not change the active tool")
	}
}

func TestRegistryActivateCancelsInProgressGesture(t *testing.T) {
	s := scene.New()
	reg := NewRegistry(s)
	shp := NewShapeTool(s, annotation.Rectangle, annotation.ShapeStyle{})
	sel := NewSelectTool(s)
	reg.Register(shp)
	reg.Register(sel)

	shp.PointerDown(at(10, 10))
	shp.PointerDrag(at(50, 50))
	reg.Activate("select")

	if _, ok := shp.PreviewRect(); ok {
		t.Error("activation should cancel the in-progress draw")
	}
	if len(s.All()) != 0 {
		t.Error("cancelled draw must not commit")
	}
}
