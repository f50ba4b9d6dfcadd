package scene

import (
	"sort"

	"image-annotator/pkg/geometry"
)

// Select adds an annotation to the selection. Without additive, it becomes
// the sole selection. Unknown ids are ignored.
func (s *Scene) Select(id int, additive bool) {
	if _, ok := s.annotations[id]; !ok {
		return
	}
	if !additive {
		for k := range s.selection {
			delete(s.selection, k)
		}
	}
	s.selection[id] = struct{}{}
	s.Emit(EventSelectionChanged, s.SelectedIDs())
}

// Deselect removes an annotation from the selection.
func (s *Scene) Deselect(id int) {
	if _, ok := s.selection[id]; !ok {
		return
	}
	delete(s.selection, id)
	s.Emit(EventSelectionChanged, s.SelectedIDs())
}

// ClearSelection empties the selection.
func (s *Scene) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	for k := range s.selection {
		delete(s.selection, k)
	}
	s.Emit(EventSelectionChanged, []int{})
}

// IsSelected reports whether the annotation is selected.
func (s *Scene) IsSelected(id int) bool {
	_, ok := s.selection[id]
	return ok
}

// SelectedIDs returns the selected ids in ascending order.
func (s *Scene) SelectedIDs() []int {
	out := make([]int, 0, len(s.selection))
	for id := range s.selection {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// SelectionBounds returns the union of the selected annotations' unrotated
// world bounds. Rotation is deliberately ignored; the box covers the scaled
// axis-aligned extents only.
func (s *Scene) SelectionBounds() (geometry.Rect, bool) {
	var union geometry.Rect
	first := true
	for id := range s.selection {
		a := s.annotations[id]
		if a == nil {
			continue
		}
		if first {
			union = a.Bounds()
			first = false
		} else {
			union = union.Union(a.Bounds())
		}
	}
	return union, !first
}
