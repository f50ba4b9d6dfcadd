package annotation

import (
	"image-annotator/pkg/geometry"
)

// ShapeData is the variant payload of a shape annotation.
type ShapeData struct {
	Kind  ShapeKind  `json:"kind"`
	Style ShapeStyle `json:"style"`

	// Optional inline text, empty when absent.
	Text      string    `json:"text,omitempty"`
	TextStyle TextStyle `json:"text_style"`
}

// contains tests a local-space point against the filled shape path unioned
// with its stroked outline (half the stroke width on each side).
func (d *ShapeData) contains(local geometry.Point2D, size geometry.Size) bool {
	outset := 0.0
	if d.Style.StrokeWidth > 0 {
		outset = d.Style.StrokeWidth / 2
	}

	switch d.Kind {
	case Rectangle:
		return geometry.PointInRoundedRect(local, size, 0, outset)
	case RoundedRectangle:
		return geometry.PointInRoundedRect(local, size, d.Style.CornerRadius, outset)
	case Ellipse:
		return geometry.PointInEllipse(local, size, outset)
	case Diamond:
		return pointNearPolygon(local, geometry.DiamondPoints(size), outset)
	case Triangle:
		return pointNearPolygon(local, geometry.TrianglePoints(size), outset)
	default:
		return false
	}
}

func pointNearPolygon(p geometry.Point2D, polygon []geometry.Point2D, outset float64) bool {
	if geometry.PointInPolygon(p, polygon) {
		return true
	}
	return outset > 0 && geometry.PointToPolylineDistance(p, polygon) <= outset
}
