package annotation

// Snapshot is a value-type capture of an annotation's full mutable state,
// including the variant payload and z-index. It restores non-linear edits
// (resize under rotation/scale) exactly, which an inverse delta cannot.
type Snapshot struct {
	state *Annotation
}

// Capture takes a snapshot of the annotation's current state.
func Capture(a *Annotation) Snapshot {
	return Snapshot{state: a.Clone()}
}

// ID returns the captured annotation's identity.
func (s Snapshot) ID() int {
	return s.state.ID
}

// Restore writes the captured state back onto the annotation.
func (s Snapshot) Restore(a *Annotation) {
	c := s.state.Clone()
	*a = *c
}

// Materialize returns a fresh annotation carrying the captured state, used
// to re-insert deleted annotations on undo.
func (s Snapshot) Materialize() *Annotation {
	return s.state.Clone()
}
