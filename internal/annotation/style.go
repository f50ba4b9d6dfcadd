package annotation

import "image/color"

// ShapeKind selects the outline geometry of a shape annotation.
type ShapeKind int

const (
	Rectangle ShapeKind = iota
	RoundedRectangle
	Ellipse
	Diamond
	Triangle
)

func (k ShapeKind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case RoundedRectangle:
		return "rounded-rectangle"
	case Ellipse:
		return "ellipse"
	case Diamond:
		return "diamond"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// ArrowKind selects the arrow head drawn at a line endpoint.
type ArrowKind int

const (
	ArrowNone ArrowKind = iota
	ArrowOpen
	ArrowFilled
	ArrowDiamond
	ArrowCircle
)

// DashStyle selects the stroke dash pattern of a line.
type DashStyle int

const (
	DashSolid DashStyle = iota
	DashDashed
	DashDotted
)

// CapStyle selects the line end cap.
type CapStyle int

const (
	CapButt CapStyle = iota
	CapRound
	CapSquare
)

// HAlign is the horizontal alignment of inline shape text.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is the vertical alignment of inline shape text.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// ShapeStyle holds the visual settings of a shape annotation. The corner
// radius only applies to rectangle and rounded-rectangle kinds.
type ShapeStyle struct {
	Fill         color.RGBA `json:"fill"`
	Stroke       color.RGBA `json:"stroke"`
	StrokeWidth  float64    `json:"stroke_width"`
	CornerRadius float64    `json:"corner_radius"`
}

// TextStyle holds the inline text settings of a shape annotation.
type TextStyle struct {
	Font     string     `json:"font"`
	FontSize float64    `json:"font_size"`
	Color    color.RGBA `json:"color"`
	HAlign   HAlign     `json:"h_align"`
	VAlign   VAlign     `json:"v_align"`
}

// LineStyle holds the visual settings of a line annotation.
type LineStyle struct {
	Stroke      color.RGBA `json:"stroke"`
	StrokeWidth float64    `json:"stroke_width"`
	StartArrow  ArrowKind  `json:"start_arrow"`
	EndArrow    ArrowKind  `json:"end_arrow"`
	ArrowSize   float64    `json:"arrow_size"`
	Dash        DashStyle  `json:"dash"`
	Cap         CapStyle   `json:"cap"`
}
