// Package scene owns the annotation collection, selection, view transform,
// and grid settings, and routes every committed mutation through the command
// history. All methods must be called from a single goroutine; the
// interaction model is synchronous and event-driven.
package scene

import (
	"math"

	"image-annotator/internal/annotation"
	"image-annotator/internal/command"
	baseimage "image-annotator/internal/image"
	"image-annotator/pkg/geometry"
)

const (
	// MinZoom and MaxZoom bound the view scale.
	MinZoom  = 0.1
	MaxZoom  = 5.0
	zoomStep = 1.25

	// DefaultGridSize is the initial snap grid spacing in world units.
	DefaultGridSize = 10.0
)

// EventType identifies scene change notifications.
type EventType int

const (
	EventAnnotationAdded EventType = iota
	EventAnnotationModified
	EventAnnotationsDeleted
	EventSelectionChanged
	EventViewChanged
	EventHistoryChanged
	EventInteractionBegan
	EventInteractionEnded
)

// InteractionTag labels the kind of gesture in progress, for collaborator UI
// such as cursor changes.
type InteractionTag string

const (
	InteractionDrawShape    InteractionTag = "drawing_shape"
	InteractionDrawLine     InteractionTag = "drawing_line"
	InteractionMove         InteractionTag = "moving_selection"
	InteractionAdjustHandle InteractionTag = "adjusting_handle"
	InteractionPan          InteractionTag = "panning"
	InteractionEditText     InteractionTag = "editing_text"
)

// Listener is called when an event occurs. Notifications fire only after the
// mutation is fully applied, never mid-mutation.
type Listener func(data interface{})

// Scene is the canvas model.
type Scene struct {
	annotations map[int]*annotation.Annotation
	selection   map[int]struct{}

	zoom     float64
	pan      geometry.Point2D
	viewport geometry.Size

	gridSize   float64
	snapToGrid bool

	base *baseimage.Layer

	history   *command.History
	listeners map[EventType][]Listener
	nextID    int
}

// New creates an empty scene at zoom 1 with the default grid.
func New() *Scene {
	return &Scene{
		annotations: make(map[int]*annotation.Annotation),
		selection:   make(map[int]struct{}),
		zoom:        1.0,
		gridSize:    DefaultGridSize,
		history:     command.NewHistory(),
		listeners:   make(map[EventType][]Listener),
	}
}

// On registers an event listener for the specified event type.
func (s *Scene) On(event EventType, listener Listener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Scene) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// NextID allocates a fresh annotation identity.
func (s *Scene) NextID() int {
	s.nextID++
	return s.nextID
}

// NextZIndex returns a z-index above every existing annotation.
func (s *Scene) NextZIndex() int {
	z := 0
	for _, a := range s.annotations {
		if a.ZIndex >= z {
			z = a.ZIndex + 1
		}
	}
	return z
}

// Execute applies a command and records it in the history.
func (s *Scene) Execute(cmd command.Command) {
	cmd.Execute(s)
	s.history.Push(cmd)
	s.Emit(EventHistoryChanged, nil)
}

// Undo reverts the most recent command. No-op when nothing can be undone.
func (s *Scene) Undo() bool {
	if !s.history.Undo(s) {
		return false
	}
	s.Emit(EventHistoryChanged, nil)
	return true
}

// Redo re-applies the most recently undone command.
func (s *Scene) Redo() bool {
	if !s.history.Redo(s) {
		return false
	}
	s.Emit(EventHistoryChanged, nil)
	return true
}

// CanUndo reports whether an undo is available.
func (s *Scene) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo is available.
func (s *Scene) CanRedo() bool { return s.history.CanRedo() }

// UndoName returns the display name of the next undoable action.
func (s *Scene) UndoName() string { return s.history.UndoName() }

// RedoName returns the display name of the next redoable action.
func (s *Scene) RedoName() string { return s.history.RedoName() }

// History exposes the scene's history for depth configuration. The scene
// remains its exclusive owner; tools mutate only through Execute.
func (s *Scene) History() *command.History { return s.history }

// ByID returns the annotation with the given id, or nil.
func (s *Scene) ByID(id int) *annotation.Annotation {
	return s.annotations[id]
}

// All returns every annotation in unspecified order.
func (s *Scene) All() []*annotation.Annotation {
	out := make([]*annotation.Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		out = append(out, a)
	}
	return out
}

// Annotations returns the annotations sorted by ascending z-index, the
// painting order for a rendering collaborator.
func (s *Scene) Annotations() []*annotation.Annotation {
	out := s.All()
	sortByZ(out)
	return out
}

// Insert adds an annotation to the scene and notifies observers. Implements
// the command mutation surface.
func (s *Scene) Insert(a *annotation.Annotation) {
	s.annotations[a.ID] = a
	s.Emit(EventAnnotationAdded, a.ID)
}

// Delete removes the given annotations, dropping them from the selection.
func (s *Scene) Delete(ids ...int) {
	removed := make([]int, 0, len(ids))
	selectionChanged := false
	for _, id := range ids {
		if _, ok := s.annotations[id]; !ok {
			continue
		}
		delete(s.annotations, id)
		removed = append(removed, id)
		if _, ok := s.selection[id]; ok {
			delete(s.selection, id)
			selectionChanged = true
		}
	}
	if len(removed) == 0 {
		return
	}
	s.Emit(EventAnnotationsDeleted, removed)
	if selectionChanged {
		s.Emit(EventSelectionChanged, s.SelectedIDs())
	}
}

// Modified reports in-place mutation of the given annotations.
func (s *Scene) Modified(ids ...int) {
	for _, id := range ids {
		if _, ok := s.annotations[id]; ok {
			s.Emit(EventAnnotationModified, id)
		}
	}
}

// Add inserts a new annotation through the command history.
func (s *Scene) Add(a *annotation.Annotation) {
	s.Execute(&command.Add{Annotation: a})
}

// BeginInteraction announces a gesture start to collaborators.
func (s *Scene) BeginInteraction(tag InteractionTag) {
	s.Emit(EventInteractionBegan, tag)
}

// EndInteraction announces a gesture end.
func (s *Scene) EndInteraction(tag InteractionTag) {
	s.Emit(EventInteractionEnded, tag)
}

func sortByZ(list []*annotation.Annotation) {
	// Insertion sort; scenes hold tens of annotations, not thousands.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j-1].ZIndex > list[j].ZIndex; j-- {
			list[j-1], list[j] = list[j], list[j-1]
		}
	}
}

// SetBaseImage attaches the base image layer annotations are drawn over.
func (s *Scene) SetBaseImage(layer *baseimage.Layer) {
	s.base = layer
	s.Emit(EventViewChanged, nil)
}

// BaseImage returns the base image layer, or nil.
func (s *Scene) BaseImage() *baseimage.Layer { return s.base }

// Zoom returns the current zoom scalar.
func (s *Scene) Zoom() float64 { return s.zoom }

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (s *Scene) SetZoom(zoom float64) {
	s.zoom = clampZoom(zoom)
	s.Emit(EventViewChanged, nil)
}

// ZoomIn increases the zoom level by one step.
func (s *Scene) ZoomIn() { s.SetZoom(s.zoom * zoomStep) }

// ZoomOut decreases the zoom level by one step.
func (s *Scene) ZoomOut() { s.SetZoom(s.zoom / zoomStep) }

// Pan returns the current pan offset in view units.
func (s *Scene) Pan() geometry.Point2D { return s.pan }

// SetPan sets the pan offset.
func (s *Scene) SetPan(pan geometry.Point2D) {
	s.pan = pan
	s.Emit(EventViewChanged, nil)
}

// Viewport returns the canvas viewport size.
func (s *Scene) Viewport() geometry.Size { return s.viewport }

// SetViewport records the canvas viewport size used by ZoomToFit.
func (s *Scene) SetViewport(size geometry.Size) {
	s.viewport = size
}

// WorldToView converts a world-space point to view space.
func (s *Scene) WorldToView(p geometry.Point2D) geometry.Point2D {
	return p.Scale(s.zoom).Add(s.pan)
}

// ViewToWorld converts a view-space point to world space. Exact inverse of
// WorldToView.
func (s *Scene) ViewToWorld(p geometry.Point2D) geometry.Point2D {
	return p.Sub(s.pan).Scale(1 / s.zoom)
}

// ZoomToFit scales the base image to fill the viewport and centers it.
// No-op without a base image or a laid-out viewport.
func (s *Scene) ZoomToFit() {
	if s.base == nil || s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		return
	}
	img := s.base.PixelSize()
	if img.Width <= 0 || img.Height <= 0 {
		return
	}

	zoom := clampZoom(math.Min(s.viewport.Width/img.Width, s.viewport.Height/img.Height))
	s.zoom = zoom
	s.pan = geometry.Point2D{
		X: (s.viewport.Width - img.Width*zoom) / 2,
		Y: (s.viewport.Height - img.Height*zoom) / 2,
	}
	s.Emit(EventViewChanged, nil)
}

// GridSize returns the snap grid spacing in world units.
func (s *Scene) GridSize() float64 { return s.gridSize }

// SetGridSize sets the snap grid spacing. Non-positive values are ignored.
func (s *Scene) SetGridSize(size float64) {
	if size > 0 {
		s.gridSize = size
	}
}

// SnapEnabled reports whether grid snapping is on.
func (s *Scene) SnapEnabled() bool { return s.snapToGrid }

// SetSnapEnabled toggles grid snapping.
func (s *Scene) SetSnapEnabled(on bool) { s.snapToGrid = on }

// SnapPoint rounds a world point to the grid when snapping is enabled.
func (s *Scene) SnapPoint(p geometry.Point2D) geometry.Point2D {
	if !s.snapToGrid || s.gridSize <= 0 {
		return p
	}
	g := s.gridSize
	return geometry.Point2D{
		X: math.Round(p.X/g) * g,
		Y: math.Round(p.Y/g) * g,
	}
}

// SnapMoveDelta adjusts a move delta so the selection's bounding box origin
// lands on the grid. Snapping is a one-shot delta adjustment at gesture end,
// not a per-frame constraint.
func (s *Scene) SnapMoveDelta(delta geometry.Point2D) geometry.Point2D {
	if !s.snapToGrid || s.gridSize <= 0 {
		return delta
	}
	bounds, ok := s.SelectionBounds()
	if !ok {
		return delta
	}
	origin := bounds.TopLeft().Add(delta)
	snapped := s.SnapPoint(origin)
	return delta.Add(snapped.Sub(origin))
}

func clampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
