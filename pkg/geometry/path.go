package geometry

import "math"

// PointToSegmentDistance returns the distance from p to the segment a-b.
// When a and b coincide the segment degenerates to a point.
func PointToSegmentDistance(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the infinite line through a-b, clamp to the segment.
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}

// PointToPolylineDistance returns the minimum distance from p to any edge of
// the closed polygon.
func PointToPolylineDistance(p Point2D, polygon []Point2D) float64 {
	if len(polygon) == 0 {
		return math.Inf(1)
	}
	if len(polygon) == 1 {
		return p.Distance(polygon[0])
	}

	best := math.Inf(1)
	n := len(polygon)
	for i := 0; i < n; i++ {
		d := PointToSegmentDistance(p, polygon[i], polygon[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// DiamondPoints returns the four midpoint vertices of a diamond inscribed in
// the box (0,0)-(size.Width,size.Height).
func DiamondPoints(size Size) []Point2D {
	return []Point2D{
		{X: size.Width / 2, Y: 0},
		{X: size.Width, Y: size.Height / 2},
		{X: size.Width / 2, Y: size.Height},
		{X: 0, Y: size.Height / 2},
	}
}

// TrianglePoints returns the vertices of an upward-pointing triangle
// inscribed in the box (0,0)-(size.Width,size.Height).
func TrianglePoints(size Size) []Point2D {
	return []Point2D{
		{X: size.Width / 2, Y: 0},
		{X: size.Width, Y: size.Height},
		{X: 0, Y: size.Height},
	}
}

// ClampCornerRadius limits a rounded-rectangle corner radius to half the
// shorter box dimension.
func ClampCornerRadius(radius float64, size Size) float64 {
	maxR := math.Min(size.Width, size.Height) / 2
	if radius > maxR {
		return maxR
	}
	if radius < 0 {
		return 0
	}
	return radius
}

// PointInRoundedRect tests containment in a rounded rectangle occupying
// (0,0)-(size.Width,size.Height), with the radius clamped per
// ClampCornerRadius. An outset inflates the box and radius uniformly, which
// models a stroked outline of width 2*outset unioned with the fill.
func PointInRoundedRect(p Point2D, size Size, radius, outset float64) bool {
	r := ClampCornerRadius(radius, size) + outset
	box := Rect{X: -outset, Y: -outset, Width: size.Width + 2*outset, Height: size.Height + 2*outset}
	if !box.Contains(p) {
		return false
	}
	if r <= 0 {
		return true
	}

	// Inside the box: only the four corner squares need the radius check.
	cx := math.Max(box.X+r, math.Min(p.X, box.X+box.Width-r))
	cy := math.Max(box.Y+r, math.Min(p.Y, box.Y+box.Height-r))
	dx := p.X - cx
	dy := p.Y - cy
	return dx*dx+dy*dy <= r*r
}

// PointInEllipse tests containment in the ellipse inscribed in
// (0,0)-(size.Width,size.Height), inflated by outset on both radii.
func PointInEllipse(p Point2D, size Size, outset float64) bool {
	rx := size.Width/2 + outset
	ry := size.Height/2 + outset
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (p.X - size.Width/2) / rx
	dy := (p.Y - size.Height/2) / ry
	return dx*dx+dy*dy <= 1
}
