package annotation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

func approx(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, 1e-9)
}

func TestLocalPointRoundTrip(t *testing.T) {
	size := geometry.Size{Width: 40, Height: 20}
	tests := []struct {
		name string
		tr   Transform
	}{
		{"identity offset", Transform{Position: geometry.Point2D{X: 10, Y: 5}, Scale: geometry.Point2D{X: 1, Y: 1}}},
		{"scaled", Transform{Position: geometry.Point2D{X: 10, Y: 5}, Scale: geometry.Point2D{X: 2, Y: 0.5}}},
		{"rotated", Transform{Scale: geometry.Point2D{X: 1, Y: 1}, Rotation: math.Pi / 3}},
		{"mirrored and rotated", Transform{Position: geometry.Point2D{X: -4, Y: 9}, Scale: geometry.Point2D{X: -1.5, Y: 2}, Rotation: -math.Pi / 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := geometry.Point2D{X: 17, Y: 12}
			local, ok := tt.tr.LocalPoint(world, size)
			if !ok {
				t.Fatal("LocalPoint() reported degenerate transform")
			}
			back := tt.tr.WorldPoint(local, size)
			if !back.ApproxEqual(world) {
				t.Errorf("WorldPoint(LocalPoint()) = %+v, want %+v", back, world)
			}
		})
	}
}

func TestLocalPointZeroScale(t *testing.T) {
	tr := Transform{Scale: geometry.Point2D{X: 0, Y: 1}}
	if _, ok := tr.LocalPoint(geometry.Point2D{X: 1, Y: 1}, geometry.Size{Width: 10, Height: 10}); ok {
		t.Error("LocalPoint() should fail when a scale axis is zero")
	}
}

func TestShapeContainsUnderTransform(t *testing.T) {
	style := ShapeStyle{Fill: colorutil.Blue, Stroke: colorutil.Black, StrokeWidth: 2}
	tests := []struct {
		name string
		mod  func(a *Annotation)
	}{
		{"plain", func(a *Annotation) {}},
		{"rotated", func(a *Annotation) { a.Transform.Rotation = 1.1 }},
		{"scaled", func(a *Annotation) { a.Transform.Scale = geometry.Point2D{X: 3, Y: 0.5} }},
		{"mirrored", func(a *Annotation) { a.Transform.Scale = geometry.Point2D{X: -1, Y: -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewShape(1, geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150}, Rectangle, style)
			tt.mod(a)

			// The untransformed center always maps back into the shape.
			center := a.Transform.WorldPoint(geometry.Point2D{X: a.Size.Width / 2, Y: a.Size.Height / 2}, a.Size)
			if !a.Contains(center) {
				t.Errorf("center %+v should be contained", center)
			}

			far := a.Transform.WorldPoint(geometry.Point2D{X: a.Size.Width * 3, Y: a.Size.Height * 3}, a.Size)
			if a.Contains(far) {
				t.Errorf("far point %+v should not be contained", far)
			}
		})
	}
}

func TestShapeContainsStrokeOutset(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, Rectangle, ShapeStyle{StrokeWidth: 4})
	if !a.Contains(geometry.Point2D{X: 11.5, Y: 5}) {
		t.Error("point within half the stroke width of the edge should hit")
	}
	if a.Contains(geometry.Point2D{X: 12.5, Y: 5}) {
		t.Error("point beyond the stroke outset should miss")
	}
}

func TestLineContains(t *testing.T) {
	a := NewLine(1, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0}, LineStyle{StrokeWidth: 2})
	if !a.Contains(geometry.Point2D{X: 50, Y: 3}) {
		t.Error("point within the tap slop should hit the line")
	}
	if a.Contains(geometry.Point2D{X: 50, Y: 10}) {
		t.Error("point outside the tap slop should miss the line")
	}
}

func TestMirroredShapeStaysInBounds(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 100, Y: 100, Width: 40, Height: 20}, Rectangle, ShapeStyle{})
	a.Transform.Scale = geometry.Point2D{X: -1, Y: 1}

	b := a.Bounds()
	if !b.ApproxEqual(geometry.Rect{X: 100, Y: 100, Width: 40, Height: 20}) {
		t.Fatalf("Bounds() = %+v, want unchanged by the flip", b)
	}
	if !a.Contains(b.Center()) {
		t.Errorf("flipped shape should contain its own bounds center %+v", b.Center())
	}
	// The local origin mirrors onto the opposite bounds corner.
	tl := a.Transform.WorldPoint(geometry.Point2D{}, a.Size)
	if !tl.ApproxEqual(geometry.Point2D{X: 140, Y: 100}) {
		t.Errorf("mirrored top-left = %+v, want (140,100)", tl)
	}
}

func TestLineHitMatchesDrawnEndpointsUnderRotateFlip(t *testing.T) {
	tests := []struct {
		name string
		mod  func(a *Annotation)
	}{
		{"rotated quarter turn", func(a *Annotation) { a.Transform.Rotation = math.Pi / 2 }},
		{"flipped horizontally", func(a *Annotation) { a.Transform.Scale.X = -a.Transform.Scale.X }},
		{"flipped vertically", func(a *Annotation) { a.Transform.Scale.Y = -a.Transform.Scale.Y }},
		{"flipped and rotated", func(a *Annotation) {
			a.Transform.Scale.X = -a.Transform.Scale.X
			a.Transform.Rotation = -math.Pi / 2
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLine(1, geometry.Point2D{X: 40, Y: 50}, geometry.Point2D{X: 160, Y: 50}, LineStyle{StrokeWidth: 2})
			tt.mod(a)

			start := a.StartWorld()
			end := a.EndWorld()
			mid := start.Add(end).Scale(0.5)
			for _, p := range []geometry.Point2D{start, end, mid} {
				if !a.Contains(p) {
					t.Errorf("drawn point %+v should hit the line", p)
				}
			}

			cps := a.ControlPoints()
			if !cps[0].Position.ApproxEqual(start) || !cps[1].Position.ApproxEqual(end) {
				t.Errorf("handles (%+v, %+v) diverge from endpoints (%+v, %+v)",
					cps[0].Position, cps[1].Position, start, end)
			}
		})
	}
}

func TestMoveEndpointUnderRotation(t *testing.T) {
	a := NewLine(1, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 40, Y: 0}, LineStyle{})
	a.Transform.Rotation = math.Pi / 2
	before := a.StartWorld()

	target := geometry.Point2D{X: 10, Y: 30}
	a.MoveControlPoint(LineEnd, target)

	if !a.EndWorld().ApproxEqual(target) {
		t.Errorf("EndWorld() = %+v, want %+v", a.EndWorld(), target)
	}
	if !a.StartWorld().ApproxEqual(before) {
		t.Errorf("StartWorld() moved to %+v, want %+v", a.StartWorld(), before)
	}
}

func TestNewLineDegenerateBox(t *testing.T) {
	a := NewLine(1, geometry.Point2D{X: 5, Y: 5}, geometry.Point2D{X: 5, Y: 40}, LineStyle{})
	if a.Size.Width < MinExtent {
		t.Errorf("degenerate axis width = %v, want at least %v", a.Size.Width, MinExtent)
	}
	if !a.StartWorld().ApproxEqual(geometry.Point2D{X: 5, Y: 5}) {
		t.Errorf("StartWorld() = %+v, want (5,5)", a.StartWorld())
	}
	if !a.EndWorld().ApproxEqual(geometry.Point2D{X: 5, Y: 40}) {
		t.Errorf("EndWorld() = %+v, want (5,40)", a.EndWorld())
	}
}

func TestNewLineCentersDegenerateAxis(t *testing.T) {
	a := NewLine(1, geometry.Point2D{X: 0, Y: 10}, geometry.Point2D{X: 100, Y: 10}, LineStyle{})
	if !approx(a.Transform.Position.Y, 10-MinExtent/2) {
		t.Errorf("Position.Y = %v, want the widened box centered on the line", a.Transform.Position.Y)
	}
	if !approx(a.Line.Start.Y, MinExtent/2) {
		t.Errorf("local start Y = %v, want %v", a.Line.Start.Y, MinExtent/2)
	}
}

func TestControlPointsShape(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 10, Y: 20, Width: 40, Height: 20}, Ellipse, ShapeStyle{})
	pts := a.ControlPoints()
	if len(pts) != 8 {
		t.Fatalf("shape control points = %d, want 8", len(pts))
	}
	byRole := make(map[ControlPointRole]geometry.Point2D, len(pts))
	for _, cp := range pts {
		byRole[cp.Role] = cp.Position
	}
	if !byRole[CornerBottomRight].ApproxEqual(geometry.Point2D{X: 50, Y: 40}) {
		t.Errorf("bottom-right = %+v, want (50,40)", byRole[CornerBottomRight])
	}
	if !byRole[EdgeTop].ApproxEqual(geometry.Point2D{X: 30, Y: 20}) {
		t.Errorf("edge-top = %+v, want (30,20)", byRole[EdgeTop])
	}
}

func TestResizeToHandle(t *testing.T) {
	tests := []struct {
		name   string
		role   ControlPointRole
		target geometry.Point2D
		want   geometry.Rect
	}{
		{
			name:   "corner drag grows both axes",
			role:   CornerBottomRight,
			target: geometry.Point2D{X: 60, Y: 50},
			want:   geometry.Rect{X: 10, Y: 10, Width: 50, Height: 40},
		},
		{
			name:   "edge drag moves one axis",
			role:   EdgeRight,
			target: geometry.Point2D{X: 25, Y: 999},
			want:   geometry.Rect{X: 10, Y: 10, Width: 15, Height: 20},
		},
		{
			name:   "drag past the opposite corner flips",
			role:   CornerBottomRight,
			target: geometry.Point2D{X: 2, Y: 4},
			want:   geometry.Rect{X: 2, Y: 4, Width: 8, Height: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewShape(1, geometry.Rect{X: 10, Y: 10, Width: 30, Height: 20}, Rectangle, ShapeStyle{})
			a.MoveControlPoint(tt.role, tt.target)
			if got := a.Bounds(); !got.ApproxEqual(tt.want) {
				t.Errorf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResizeFloorsAtMinExtent(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 10, Y: 10, Width: 30, Height: 20}, Rectangle, ShapeStyle{})
	a.MoveControlPoint(CornerBottomRight, geometry.Point2D{X: 10, Y: 10})
	if a.Size.Width < MinExtent || a.Size.Height < MinExtent {
		t.Errorf("Size = %+v, want each axis at least %v", a.Size, MinExtent)
	}
	if math.IsNaN(a.Size.Width) || math.IsNaN(a.Size.Height) {
		t.Error("collapse to a point produced NaN size")
	}
}

func TestResizeUnderScale(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, Rectangle, ShapeStyle{})
	a.Transform.Scale = geometry.Point2D{X: 2, Y: 2}

	// World bounds are 20x20; drag the corner to 40,40.
	a.MoveControlPoint(CornerBottomRight, geometry.Point2D{X: 40, Y: 40})

	if !approx(a.Size.Width, 20) || !approx(a.Size.Height, 20) {
		t.Errorf("local size = %+v, want 20x20", a.Size)
	}
	want := geometry.Rect{X: 0, Y: 0, Width: 40, Height: 40}
	if got := a.Bounds(); !got.ApproxEqual(want) {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestMoveEndpointRenormalizes(t *testing.T) {
	a := NewLine(1, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 50, Y: 30}, LineStyle{})
	a.MoveControlPoint(LineEnd, geometry.Point2D{X: 0, Y: 0})

	if !a.StartWorld().ApproxEqual(geometry.Point2D{X: 10, Y: 10}) {
		t.Errorf("StartWorld() = %+v, want (10,10)", a.StartWorld())
	}
	if !a.EndWorld().ApproxEqual(geometry.Point2D{X: 0, Y: 0}) {
		t.Errorf("EndWorld() = %+v, want (0,0)", a.EndWorld())
	}
	// Box origin moved to the new min corner.
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 0, Y: 0}) {
		t.Errorf("Position = %+v, want (0,0)", a.Transform.Position)
	}
}

func TestSnapshotRestore(t *testing.T) {
	a := NewShape(3, geometry.Rect{X: 1, Y: 2, Width: 10, Height: 10}, Diamond, ShapeStyle{Fill: colorutil.Red})
	a.Shape.Text = "before"
	snap := Capture(a)

	a.Transform.Position = geometry.Point2D{X: 99, Y: 99}
	a.Transform.Rotation = 1.5
	a.Shape.Text = "after"
	a.ZIndex = 42

	snap.Restore(a)
	if !a.Transform.Position.ApproxEqual(geometry.Point2D{X: 1, Y: 2}) {
		t.Errorf("Position = %+v, want (1,2)", a.Transform.Position)
	}
	if a.Transform.Rotation != 0 || a.Shape.Text != "before" || a.ZIndex != 0 {
		t.Errorf("restore left modified state: rot=%v text=%q z=%d", a.Transform.Rotation, a.Shape.Text, a.ZIndex)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	a := NewShape(1, geometry.Rect{Width: 10, Height: 10}, Rectangle, ShapeStyle{})
	snap := Capture(a)
	a.Shape.Text = "mutated"

	if snap.Materialize().Shape.Text != "" {
		t.Error("snapshot shares payload with the live annotation")
	}
}

func TestCloneDeepCopiesPayload(t *testing.T) {
	a := NewLine(1, geometry.Point2D{}, geometry.Point2D{X: 10, Y: 0}, LineStyle{StrokeWidth: 2})
	c := a.Clone()
	c.Line.Style.StrokeWidth = 8
	if a.Line.Style.StrokeWidth != 2 {
		t.Error("Clone() shares line payload with the original")
	}
}

func TestBoundsIgnoresRotation(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 5, Y: 5, Width: 20, Height: 10}, Rectangle, ShapeStyle{})
	plain := a.Bounds()
	a.Transform.Rotation = math.Pi / 4
	if !a.Bounds().ApproxEqual(plain) {
		t.Errorf("Bounds() changed under rotation: %+v vs %+v", a.Bounds(), plain)
	}
}

func TestBoundsAbsoluteScale(t *testing.T) {
	a := NewShape(1, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, Rectangle, ShapeStyle{})
	a.Transform.Scale = geometry.Point2D{X: -2, Y: 3}
	want := geometry.Rect{X: 0, Y: 0, Width: 20, Height: 30}
	if got := a.Bounds(); !got.ApproxEqual(want) {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}
