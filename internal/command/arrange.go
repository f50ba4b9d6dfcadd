package command

import (
	"math"
	"sort"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// ArrangeAction selects a z-order operation.
type ArrangeAction int

const (
	BringToFront ArrangeAction = iota
	SendToBack
	BringForward
	SendBackward
)

func (a ArrangeAction) String() string {
	switch a {
	case BringToFront:
		return "Bring to Front"
	case SendToBack:
		return "Send to Back"
	case BringForward:
		return "Bring Forward"
	case SendBackward:
		return "Send Backward"
	default:
		return "Arrange"
	}
}

// Arrange reorders annotations in z. Front/back renumber the targets above
// or below every other annotation, preserving their relative order; the
// forward/backward steps swap z with the nearest non-target neighbor.
type Arrange struct {
	IDs    []int
	Action ArrangeAction

	before map[int]int
}

func (c *Arrange) Execute(s Scene) {
	targets := liveTargets(s, c.IDs)
	if len(targets) == 0 {
		return
	}

	c.before = make(map[int]int, len(targets))
	for _, a := range targets {
		c.before[a.ID] = a.ZIndex
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].ZIndex < targets[j].ZIndex })
	targetSet := make(map[int]bool, len(targets))
	for _, a := range targets {
		targetSet[a.ID] = true
	}

	switch c.Action {
	case BringToFront:
		base := maxZ(s) + 1
		for i, a := range targets {
			a.ZIndex = base + i
		}
	case SendToBack:
		base := minZ(s) - len(targets)
		for i, a := range targets {
			a.ZIndex = base + i
		}
	case BringForward:
		// Walk top-down so stacked targets do not leapfrog each other.
		for i := len(targets) - 1; i >= 0; i-- {
			swapWithNeighbor(s, targets[i], targetSet, true)
		}
	case SendBackward:
		for _, a := range targets {
			swapWithNeighbor(s, a, targetSet, false)
		}
	}
	s.Modified(c.IDs...)
}

func (c *Arrange) Undo(s Scene) {
	for id, z := range c.before {
		if a := s.ByID(id); a != nil {
			a.ZIndex = z
		}
	}
	s.Modified(c.IDs...)
}

func (c *Arrange) Name() string { return c.Action.String() }

// swapWithNeighbor exchanges z with the nearest annotation above (or below)
// that is not itself a target. No neighbor means the target is already at
// that extreme.
func swapWithNeighbor(s Scene, a *annotation.Annotation, targetSet map[int]bool, above bool) {
	var neighbor *annotation.Annotation
	for _, other := range s.All() {
		if targetSet[other.ID] {
			continue
		}
		if above {
			if other.ZIndex > a.ZIndex && (neighbor == nil || other.ZIndex < neighbor.ZIndex) {
				neighbor = other
			}
		} else {
			if other.ZIndex < a.ZIndex && (neighbor == nil || other.ZIndex > neighbor.ZIndex) {
				neighbor = other
			}
		}
	}
	if neighbor != nil {
		a.ZIndex, neighbor.ZIndex = neighbor.ZIndex, a.ZIndex
	}
}

// Alignment selects an edge or center to line targets up on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenterH
	AlignCenterV
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Align Left"
	case AlignRight:
		return "Align Right"
	case AlignTop:
		return "Align Top"
	case AlignBottom:
		return "Align Bottom"
	case AlignCenterH:
		return "Align Horizontal Centers"
	case AlignCenterV:
		return "Align Vertical Centers"
	case AlignCenter:
		return "Align Centers"
	default:
		return "Align"
	}
}

// Align repositions targets so the chosen edge or center of each matches the
// union bounding box of all targets.
type Align struct {
	IDs  []int
	Mode Alignment

	before map[int]geometry.Point2D
}

func (c *Align) Execute(s Scene) {
	targets := liveTargets(s, c.IDs)
	if len(targets) == 0 {
		return
	}

	union := targets[0].Bounds()
	for _, a := range targets[1:] {
		union = union.Union(a.Bounds())
	}

	c.before = make(map[int]geometry.Point2D, len(targets))
	for _, a := range targets {
		c.before[a.ID] = a.Transform.Position
		b := a.Bounds()

		pos := a.Transform.Position
		switch c.Mode {
		case AlignLeft:
			pos.X = union.X
		case AlignRight:
			pos.X = union.X + union.Width - b.Width
		case AlignTop:
			pos.Y = union.Y
		case AlignBottom:
			pos.Y = union.Y + union.Height - b.Height
		case AlignCenterH:
			pos.X = union.Center().X - b.Width/2
		case AlignCenterV:
			pos.Y = union.Center().Y - b.Height/2
		case AlignCenter:
			pos.X = union.Center().X - b.Width/2
			pos.Y = union.Center().Y - b.Height/2
		}
		a.Transform.Position = pos
	}
	s.Modified(c.IDs...)
}

func (c *Align) Undo(s Scene) {
	for id, pos := range c.before {
		if a := s.ByID(id); a != nil {
			a.Transform.Position = pos
		}
	}
	s.Modified(c.IDs...)
}

func (c *Align) Name() string { return c.Mode.String() }

// DistributeDirection selects the distribution axis.
type DistributeDirection int

const (
	DistributeHorizontal DistributeDirection = iota
	DistributeVertical
)

// Distribute equalizes the gaps between three or more targets along one
// axis. The outermost targets stay put; interior ones are repositioned.
// Fewer than three live targets is a no-op.
type Distribute struct {
	IDs       []int
	Direction DistributeDirection

	before map[int]geometry.Point2D
}

func (c *Distribute) Execute(s Scene) {
	targets := liveTargets(s, c.IDs)
	if len(targets) < 3 {
		return
	}

	horizontal := c.Direction == DistributeHorizontal
	sort.Slice(targets, func(i, j int) bool {
		if horizontal {
			return targets[i].Bounds().X < targets[j].Bounds().X
		}
		return targets[i].Bounds().Y < targets[j].Bounds().Y
	})

	first := targets[0].Bounds()
	last := targets[len(targets)-1].Bounds()

	var span, sum float64
	if horizontal {
		span = last.X + last.Width - first.X
	} else {
		span = last.Y + last.Height - first.Y
	}
	for _, a := range targets {
		b := a.Bounds()
		if horizontal {
			sum += b.Width
		} else {
			sum += b.Height
		}
	}
	gap := (span - sum) / float64(len(targets)-1)

	c.before = make(map[int]geometry.Point2D, len(targets))
	for _, a := range targets {
		c.before[a.ID] = a.Transform.Position
	}

	var cursor float64
	if horizontal {
		cursor = first.X + first.Width
	} else {
		cursor = first.Y + first.Height
	}
	for _, a := range targets[1 : len(targets)-1] {
		b := a.Bounds()
		if horizontal {
			a.Transform.Position.X = cursor + gap
			cursor = a.Transform.Position.X + b.Width
		} else {
			a.Transform.Position.Y = cursor + gap
			cursor = a.Transform.Position.Y + b.Height
		}
	}
	s.Modified(c.IDs...)
}

func (c *Distribute) Undo(s Scene) {
	for id, pos := range c.before {
		if a := s.ByID(id); a != nil {
			a.Transform.Position = pos
		}
	}
	s.Modified(c.IDs...)
}

func (c *Distribute) Name() string {
	if c.Direction == DistributeHorizontal {
		return "Distribute Horizontally"
	}
	return "Distribute Vertically"
}

// RotateFlipOp selects a quarter-turn or mirror operation.
type RotateFlipOp int

const (
	Rotate90 RotateFlipOp = iota
	RotateMinus90
	FlipHorizontal
	FlipVertical
)

func (op RotateFlipOp) String() string {
	switch op {
	case Rotate90:
		return "Rotate 90°"
	case RotateMinus90:
		return "Rotate -90°"
	case FlipHorizontal:
		return "Flip Horizontal"
	case FlipVertical:
		return "Flip Vertical"
	default:
		return "Rotate"
	}
}

// RotateFlip adds a quarter turn to the rotation or negates one scale axis.
// Flips change sign only, leaving the magnitude untouched, so the
// annotation mirrors about its own center.
type RotateFlip struct {
	IDs []int
	Op  RotateFlipOp
}

func (c *RotateFlip) Execute(s Scene) {
	c.apply(s, c.Op)
}

func (c *RotateFlip) Undo(s Scene) {
	switch c.Op {
	case Rotate90:
		c.apply(s, RotateMinus90)
	case RotateMinus90:
		c.apply(s, Rotate90)
	default:
		// Flips are their own inverse.
		c.apply(s, c.Op)
	}
}

func (c *RotateFlip) apply(s Scene, op RotateFlipOp) {
	for _, id := range c.IDs {
		a := s.ByID(id)
		if a == nil {
			continue
		}
		switch op {
		case Rotate90:
			a.Transform.Rotation += math.Pi / 2
		case RotateMinus90:
			a.Transform.Rotation -= math.Pi / 2
		case FlipHorizontal:
			a.Transform.Scale.X = -a.Transform.Scale.X
		case FlipVertical:
			a.Transform.Scale.Y = -a.Transform.Scale.Y
		}
	}
	s.Modified(c.IDs...)
}

func (c *RotateFlip) Name() string { return c.Op.String() }

// liveTargets resolves ids to annotations that still exist.
func liveTargets(s Scene, ids []int) []*annotation.Annotation {
	out := make([]*annotation.Annotation, 0, len(ids))
	for _, id := range ids {
		if a := s.ByID(id); a != nil {
			out = append(out, a)
		}
	}
	return out
}

func maxZ(s Scene) int {
	z := math.MinInt
	for _, a := range s.All() {
		if a.ZIndex > z {
			z = a.ZIndex
		}
	}
	if z == math.MinInt {
		return 0
	}
	return z
}

func minZ(s Scene) int {
	z := math.MaxInt
	for _, a := range s.All() {
		if a.ZIndex < z {
			z = a.ZIndex
		}
	}
	if z == math.MaxInt {
		return 0
	}
	return z
}
