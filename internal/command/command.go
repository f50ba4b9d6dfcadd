// Package command encapsulates every scene mutation as a reversible unit and
// owns the undo/redo history.
package command

import (
	"image-annotator/internal/annotation"
)

// Scene is the mutation surface commands operate on. The concrete scene
// implements it and emits change notifications from these methods after the
// mutation is fully applied.
type Scene interface {
	// ByID returns the annotation with the given id, or nil.
	ByID(id int) *annotation.Annotation
	// All returns every annotation in unspecified order.
	All() []*annotation.Annotation
	// Insert adds an annotation to the scene.
	Insert(a *annotation.Annotation)
	// Delete removes the given annotations.
	Delete(ids ...int)
	// Modified reports in-place mutation of the given annotations.
	Modified(ids ...int)
}

// Command is a reversible unit of scene mutation.
type Command interface {
	// Execute applies the mutation. It must be callable again after Undo.
	Execute(s Scene)
	// Undo reverts the mutation applied by the last Execute.
	Undo(s Scene)
	// Name is the human-readable action name for menu labels.
	Name() string
}

// History holds the undo and redo stacks. A new command pushed after an undo
// discards the redo stack. The zero limit means unbounded.
type History struct {
	undo  []Command
	redo  []Command
	limit int
}

// NewHistory creates an empty, unbounded history.
func NewHistory() *History {
	return &History{}
}

// SetLimit caps the undo depth; oldest entries are dropped past the cap.
// Zero restores unbounded behavior.
func (h *History) SetLimit(n int) {
	h.limit = n
	h.trim()
}

// Push records an already-executed command and clears the redo stack.
func (h *History) Push(cmd Command) {
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	h.trim()
}

func (h *History) trim() {
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

// Undo reverts the most recent command. No-op on an empty stack.
func (h *History) Undo(s Scene) bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Undo(s)
	h.redo = append(h.redo, cmd)
	return true
}

// Redo re-applies the most recently undone command. No-op on an empty stack.
func (h *History) Redo(s Scene) bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	cmd.Execute(s)
	h.undo = append(h.undo, cmd)
	return true
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// UndoName returns the display name of the next undoable action, or "".
func (h *History) UndoName() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Name()
}

// RedoName returns the display name of the next redoable action, or "".
func (h *History) RedoName() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].Name()
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
