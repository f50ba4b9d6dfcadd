package tool

import (
	"time"

	"image-annotator/internal/annotation"
	"image-annotator/internal/command"
	"image-annotator/internal/scene"
	"image-annotator/pkg/geometry"
)

// moveThreshold is the minimum world-space drag distance that commits a
// Move command; smaller deltas are jitter and stay out of history.
const moveThreshold = 1.0

// doubleClickWindow is the maximum delay between clicks on the same shape
// that triggers text editing.
const doubleClickWindow = 500 * time.Millisecond

type selectMode int

const (
	selectIdle selectMode = iota
	selectDragMove
	selectDragHandle
	selectPan
)

// SelectTool moves annotations, drags control points, and pans the canvas.
// Drags preview directly on the scene; on release the preview is reverted
// to the pre-drag snapshot and a single command is committed.
type SelectTool struct {
	scn  *scene.Scene
	mode selectMode

	// drag-move state
	dragStartWorld geometry.Point2D
	moveIDs        []int
	origPositions  map[int]geometry.Point2D

	// drag-handle state
	handle     scene.ControlPointHit
	handleSnap annotation.Snapshot
	lastWorld  geometry.Point2D

	// pan state
	panStartView geometry.Point2D
	panOrig      geometry.Point2D

	// double-click detection
	lastClickAt time.Time
	lastClickID int
	now         func() time.Time
}

// NewSelectTool creates the select tool for a scene.
func NewSelectTool(s *scene.Scene) *SelectTool {
	return &SelectTool{scn: s, now: time.Now}
}

func (t *SelectTool) ID() string { return "select" }

func (t *SelectTool) PointerDown(ev PointerEvent) {
	world := t.scn.ViewToWorld(ev.Position)

	if hit, ok := t.scn.ControlPointHitTest(ev.Position); ok {
		t.mode = selectDragHandle
		t.handle = hit
		t.handleSnap = annotation.Capture(t.scn.ByID(hit.ID))
		t.lastWorld = world
		t.scn.BeginInteraction(scene.InteractionAdjustHandle)
		return
	}

	if id, ok := t.scn.HitTest(ev.Position); ok {
		if t.isDoubleClick(id) {
			t.lastClickAt = time.Time{}
			a := t.scn.ByID(id)
			if a != nil && a.Kind == annotation.KindShape {
				t.scn.BeginInteraction(scene.InteractionEditText)
				return
			}
		}
		t.lastClickAt = t.now()
		t.lastClickID = id

		if !t.scn.IsSelected(id) {
			t.scn.Select(id, ev.Additive)
		}

		t.mode = selectDragMove
		t.dragStartWorld = world
		t.moveIDs = t.scn.SelectedIDs()
		t.origPositions = make(map[int]geometry.Point2D, len(t.moveIDs))
		for _, mid := range t.moveIDs {
			if a := t.scn.ByID(mid); a != nil {
				t.origPositions[mid] = a.Transform.Position
			}
		}
		t.scn.BeginInteraction(scene.InteractionMove)
		return
	}

	// Empty canvas: pan, dropping the selection unless extending it.
	if !ev.Additive {
		t.scn.ClearSelection()
	}
	t.mode = selectPan
	t.panStartView = ev.Position
	t.panOrig = t.scn.Pan()
	t.lastClickAt = time.Time{}
	t.scn.BeginInteraction(scene.InteractionPan)
}

func (t *SelectTool) PointerDrag(ev PointerEvent) {
	world := t.scn.ViewToWorld(ev.Position)

	switch t.mode {
	case selectDragMove:
		delta := world.Sub(t.dragStartWorld)
		for id, orig := range t.origPositions {
			if a := t.scn.ByID(id); a != nil {
				a.Transform.Position = orig.Add(delta)
			}
		}
	case selectDragHandle:
		t.lastWorld = world
		if a := t.scn.ByID(t.handle.ID); a != nil {
			a.MoveControlPoint(t.handle.Role, world)
		}
	case selectPan:
		t.scn.SetPan(t.panOrig.Add(ev.Position.Sub(t.panStartView)))
	}
}

func (t *SelectTool) PointerUp(ev PointerEvent) {
	world := t.scn.ViewToWorld(ev.Position)

	switch t.mode {
	case selectDragMove:
		t.restorePositions()
		delta := t.scn.SnapMoveDelta(world.Sub(t.dragStartWorld))
		if delta.Length() > moveThreshold {
			t.scn.Execute(&command.Move{IDs: t.moveIDs, Delta: delta})
		}
		t.scn.EndInteraction(scene.InteractionMove)
	case selectDragHandle:
		if a := t.scn.ByID(t.handle.ID); a != nil {
			t.handleSnap.Restore(a)
			target := t.scn.SnapPoint(world)
			t.scn.Execute(&command.MoveControlPoint{
				ID:       t.handle.ID,
				Role:     t.handle.Role,
				Position: target,
			})
		}
		t.scn.EndInteraction(scene.InteractionAdjustHandle)
	case selectPan:
		t.scn.EndInteraction(scene.InteractionPan)
	}
	t.reset()
}

// Cancel reverts any live preview from the locally cached pre-drag state.
func (t *SelectTool) Cancel() {
	switch t.mode {
	case selectDragMove:
		t.restorePositions()
		t.scn.EndInteraction(scene.InteractionMove)
	case selectDragHandle:
		if a := t.scn.ByID(t.handle.ID); a != nil {
			t.handleSnap.Restore(a)
		}
		t.scn.EndInteraction(scene.InteractionAdjustHandle)
	case selectPan:
		t.scn.SetPan(t.panOrig)
		t.scn.EndInteraction(scene.InteractionPan)
	}
	t.reset()
}

func (t *SelectTool) restorePositions() {
	for id, orig := range t.origPositions {
		if a := t.scn.ByID(id); a != nil {
			a.Transform.Position = orig
		}
	}
}

func (t *SelectTool) reset() {
	t.mode = selectIdle
	t.moveIDs = nil
	t.origPositions = nil
}

func (t *SelectTool) isDoubleClick(id int) bool {
	return id == t.lastClickID &&
		!t.lastClickAt.IsZero() &&
		t.now().Sub(t.lastClickAt) < doubleClickWindow
}
