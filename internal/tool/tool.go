// Package tool implements the pointer-driven interaction state machines:
// select, shape, and line. Tools consume normalized view-space pointer
// events, preview mutations live on the scene, and commit exactly one
// command per completed gesture.
package tool

import (
	"image-annotator/internal/scene"
	"image-annotator/pkg/geometry"
)

// PointerEvent is a normalized pointer position in view space plus the
// modifier flags the platform layer resolved for us.
type PointerEvent struct {
	Position  geometry.Point2D
	Additive  bool // additive-selection modifier
	Constrain bool // constrain-to-square modifier
}

// Tool is an interaction state machine. Each gesture is
// PointerDown, zero or more PointerDrags, then PointerUp; Cancel discards
// any in-progress state without committing and must be idempotent.
type Tool interface {
	ID() string
	PointerDown(ev PointerEvent)
	PointerDrag(ev PointerEvent)
	PointerUp(ev PointerEvent)
	Cancel()
}

// Registry resolves tools by identifier and tracks the active one. It is an
// explicit value owned by the session; nothing here is global. Callers on an
// event loop should defer Activate to the next tick so observers are not
// mid-notification when the selection clears.
type Registry struct {
	scn    *scene.Scene
	tools  map[string]Tool
	active Tool
}

// NewRegistry creates an empty registry for the given scene.
func NewRegistry(s *scene.Scene) *Registry {
	return &Registry{scn: s, tools: make(map[string]Tool)}
}

// Register adds a tool. The first registered tool becomes active.
func (r *Registry) Register(t Tool) {
	r.tools[t.ID()] = t
	if r.active == nil {
		r.active = t
	}
}

// Lookup resolves a tool by identifier.
func (r *Registry) Lookup(id string) (Tool, bool) {
	t, ok := r.tools[id]
	return t, ok
}

// Active returns the currently active tool, or nil.
func (r *Registry) Active() Tool { return r.active }

// Activate switches the active tool: the previous tool's transient state is
// discarded and the selection cleared. Unknown ids are ignored.
func (r *Registry) Activate(id string) bool {
	next, ok := r.tools[id]
	if !ok {
		return false
	}
	if r.active == next {
		return true
	}
	if r.active != nil {
		r.active.Cancel()
	}
	r.scn.ClearSelection()
	r.active = next
	return true
}
