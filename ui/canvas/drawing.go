package canvas

import (
	"image"
	"image/color"
	"math"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/colorutil"
	"image-annotator/pkg/geometry"
)

var backgroundColor = color.RGBA{R: 42, G: 42, B: 46, A: 255}
var gridColor = color.RGBA{R: 70, G: 70, B: 76, A: 255}
var selectionColor = colorutil.Yellow
var handleFillColor = colorutil.White
var handleBorderColor = colorutil.Black

const (
	// handleDrawSize is the on-screen size of a control point square.
	handleDrawSize = 8
	// minGridSpacing is the smallest on-screen grid pitch worth drawing.
	minGridSpacing = 8.0
	// defaultArrowSize is the world-space arrow head length when the style
	// leaves it zero.
	defaultArrowSize = 10.0
)

func fillBackground(output *image.RGBA) {
	b := output.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			output.SetRGBA(x, y, backgroundColor)
		}
	}
}

// blendPixel writes a color honoring its alpha channel.
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	b := output.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	switch col.A {
	case 0:
		return
	case 255:
		output.SetRGBA(x, y, col)
	default:
		opacity := float64(col.A) / 255
		output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), colorutil.WithAlpha(col, 255), opacity))
	}
}

// compositeBaseImage samples the base image through the inverse view
// transform, one output pixel at a time.
func (c *AnnotationCanvas) compositeBaseImage(output *image.RGBA) {
	layer := c.scn.BaseImage()
	if layer == nil || layer.Image == nil || !layer.Visible {
		return
	}
	src := layer.Image
	srcBounds := src.Bounds()
	opacity := layer.Opacity

	b := output.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			world := c.scn.ViewToWorld(geometry.Point2D{X: float64(x), Y: float64(y)})
			srcX := int(world.X) + srcBounds.Min.X
			srcY := int(world.Y) + srcBounds.Min.Y
			if world.X < 0 || world.Y < 0 ||
				srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X ||
				srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
				continue
			}

			sr, sg, sb, sa := src.At(srcX, srcY).RGBA()
			alpha := float64(sa) / 0xffff * opacity
			if alpha < 0.001 {
				continue
			}
			srcCol := color.RGBA{R: uint8(sr >> 8), G: uint8(sg >> 8), B: uint8(sb >> 8), A: 255}
			if alpha >= 0.999 {
				output.SetRGBA(x, y, srcCol)
			} else {
				output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), srcCol, alpha))
			}
		}
	}
}

// drawGrid renders the snap grid when enabled and coarse enough to read.
func (c *AnnotationCanvas) drawGrid(output *image.RGBA) {
	if !c.scn.SnapEnabled() {
		return
	}
	spacing := c.scn.GridSize() * c.scn.Zoom()
	if spacing < minGridSpacing {
		return
	}

	b := output.Bounds()
	origin := c.scn.WorldToView(geometry.Point2D{})
	startX := math.Mod(origin.X, spacing)
	for startX < 0 {
		startX += spacing
	}
	startY := math.Mod(origin.Y, spacing)
	for startY < 0 {
		startY += spacing
	}

	for fx := startX; fx < float64(b.Max.X); fx += spacing {
		x := int(fx)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			output.SetRGBA(x, y, gridColor)
		}
	}
	for fy := startY; fy < float64(b.Max.Y); fy += spacing {
		y := int(fy)
		for x := b.Min.X; x < b.Max.X; x++ {
			output.SetRGBA(x, y, gridColor)
		}
	}
}

func (c *AnnotationCanvas) drawAnnotation(output *image.RGBA, a *annotation.Annotation) {
	switch a.Kind {
	case annotation.KindShape:
		c.drawShape(output, a)
	case annotation.KindLine:
		c.drawLineAnnotation(output, a)
	}
}

// drawShape rasterizes a shape by inverse-mapping each pixel of its view
// bounding box into local space and testing fill and stroke membership.
func (c *AnnotationCanvas) drawShape(output *image.RGBA, a *annotation.Annotation) {
	style := a.Shape.Style
	outset := style.StrokeWidth / 2

	// The view box covers the transformed corners plus the stroke.
	corners := []geometry.Point2D{
		{X: -outset, Y: -outset},
		{X: a.Size.Width + outset, Y: -outset},
		{X: a.Size.Width + outset, Y: a.Size.Height + outset},
		{X: -outset, Y: a.Size.Height + outset},
	}
	viewPts := make([]geometry.Point2D, len(corners))
	for i, p := range corners {
		viewPts[i] = c.scn.WorldToView(a.Transform.WorldPoint(p, a.Size))
	}
	box := geometry.BoundingBox(viewPts)

	b := output.Bounds()
	x1 := clampInt(int(box.X)-1, b.Min.X, b.Max.X)
	x2 := clampInt(int(box.X+box.Width)+2, b.Min.X, b.Max.X)
	y1 := clampInt(int(box.Y)-1, b.Min.Y, b.Max.Y)
	y2 := clampInt(int(box.Y+box.Height)+2, b.Min.Y, b.Max.Y)

	hasFill := style.Fill.A > 0
	hasStroke := style.Stroke.A > 0 && style.StrokeWidth > 0

	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			world := c.scn.ViewToWorld(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			local, ok := a.Transform.LocalPoint(world, a.Size)
			if !ok {
				return
			}
			if hasStroke && shapeStrokeHit(a.Shape, local, a.Size, outset) {
				blendPixel(output, x, y, style.Stroke)
			} else if hasFill && shapeFillHit(a.Shape, local, a.Size) {
				blendPixel(output, x, y, style.Fill)
			}
		}
	}

	if a.Shape.Text != "" {
		c.drawShapeText(output, a)
	}
}

func shapeFillHit(d *annotation.ShapeData, local geometry.Point2D, size geometry.Size) bool {
	switch d.Kind {
	case annotation.Rectangle:
		return geometry.PointInRoundedRect(local, size, 0, 0)
	case annotation.RoundedRectangle:
		return geometry.PointInRoundedRect(local, size, d.Style.CornerRadius, 0)
	case annotation.Ellipse:
		return geometry.PointInEllipse(local, size, 0)
	case annotation.Diamond:
		return geometry.PointInPolygon(local, geometry.DiamondPoints(size))
	case annotation.Triangle:
		return geometry.PointInPolygon(local, geometry.TrianglePoints(size))
	default:
		return false
	}
}

// shapeStrokeHit tests membership in the stroke band straddling the outline.
func shapeStrokeHit(d *annotation.ShapeData, local geometry.Point2D, size geometry.Size, outset float64) bool {
	switch d.Kind {
	case annotation.Rectangle:
		return geometry.PointInRoundedRect(local, size, 0, outset) &&
			!geometry.PointInRoundedRect(local, size, 0, -outset)
	case annotation.RoundedRectangle:
		return geometry.PointInRoundedRect(local, size, d.Style.CornerRadius, outset) &&
			!geometry.PointInRoundedRect(local, size, d.Style.CornerRadius, -outset)
	case annotation.Ellipse:
		return geometry.PointInEllipse(local, size, outset) &&
			!geometry.PointInEllipse(local, size, -outset)
	case annotation.Diamond:
		return geometry.PointToPolylineDistance(local, geometry.DiamondPoints(size)) <= outset
	case annotation.Triangle:
		return geometry.PointToPolylineDistance(local, geometry.TrianglePoints(size)) <= outset
	default:
		return false
	}
}

// drawLineAnnotation strokes the segment with its dash pattern, end caps,
// and arrow heads.
func (c *AnnotationCanvas) drawLineAnnotation(output *image.RGBA, a *annotation.Annotation) {
	style := a.Line.Style
	if style.Stroke.A == 0 {
		return
	}

	start := c.scn.WorldToView(a.StartWorld())
	end := c.scn.WorldToView(a.EndWorld())
	thickness := int(math.Max(1, style.StrokeWidth*c.scn.Zoom()))

	c.strokeSegment(output, start, end, style.Stroke, thickness, style.Dash)

	if style.Cap == annotation.CapRound {
		r := float64(thickness) / 2
		c.fillCircleView(output, start, r, style.Stroke)
		c.fillCircleView(output, end, r, style.Stroke)
	}

	size := style.ArrowSize
	if size <= 0 {
		size = defaultArrowSize
	}
	size *= c.scn.Zoom()

	if style.StartArrow != annotation.ArrowNone {
		c.drawArrowHead(output, style.StartArrow, start, end, size, style.Stroke, thickness)
	}
	if style.EndArrow != annotation.ArrowNone {
		c.drawArrowHead(output, style.EndArrow, end, start, size, style.Stroke, thickness)
	}
}

// drawArrowHead draws a head at tip, pointing away from toward.
func (c *AnnotationCanvas) drawArrowHead(output *image.RGBA, kind annotation.ArrowKind, tip, toward geometry.Point2D, size float64, col color.RGBA, thickness int) {
	dir := tip.Sub(toward)
	length := dir.Length()
	if length == 0 {
		return
	}
	dir = dir.Scale(1 / length)
	perp := geometry.Point2D{X: -dir.Y, Y: dir.X}

	base := tip.Sub(dir.Scale(size))
	wing1 := base.Add(perp.Scale(size / 2))
	wing2 := base.Sub(perp.Scale(size / 2))

	switch kind {
	case annotation.ArrowOpen:
		c.strokeSegment(output, tip, wing1, col, thickness, annotation.DashSolid)
		c.strokeSegment(output, tip, wing2, col, thickness, annotation.DashSolid)
	case annotation.ArrowFilled:
		c.fillPolygonView(output, []geometry.Point2D{tip, wing1, wing2}, col)
	case annotation.ArrowDiamond:
		mid := tip.Sub(dir.Scale(size / 2))
		c.fillPolygonView(output, []geometry.Point2D{
			tip,
			mid.Add(perp.Scale(size / 2)),
			tip.Sub(dir.Scale(size)),
			mid.Sub(perp.Scale(size / 2)),
		}, col)
	case annotation.ArrowCircle:
		c.fillCircleView(output, tip.Sub(dir.Scale(size/2)), size/2, col)
	}
}

// strokeSegment walks the segment with Bresenham, stamping a square brush.
// The dash pattern counts steps in view pixels, so it is zoom-stable on
// screen.
func (c *AnnotationCanvas) strokeSegment(output *image.RGBA, from, to geometry.Point2D, col color.RGBA, thickness int, dash annotation.DashStyle) {
	x1, y1 := int(from.X), int(from.Y)
	x2, y2 := int(to.X), int(to.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	step := 0
	for {
		if dashOn(dash, step, thickness) {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					blendPixel(output, x1+s, y1+t, col)
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
		step++
	}
}

// dashOn reports whether a Bresenham step is inked. Pattern periods grow
// with the stroke thickness so heavy lines keep readable gaps.
func dashOn(dash annotation.DashStyle, step, thickness int) bool {
	switch dash {
	case annotation.DashDashed:
		period := 6 + 2*thickness
		return step%period < period*2/3
	case annotation.DashDotted:
		period := 2 + 2*thickness
		return step%period < period/2
	default:
		return true
	}
}

// fillPolygonView fills a view-space polygon with the scanline algorithm.
func (c *AnnotationCanvas) fillPolygonView(output *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	box := geometry.BoundingBox(pts)
	b := output.Bounds()
	yStart := clampInt(int(box.Y), b.Min.Y, b.Max.Y)
	yEnd := clampInt(int(box.Y+box.Height)+1, b.Min.Y, b.Max.Y)

	n := len(pts)
	for y := yStart; y < yEnd; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := 0; i < n; i++ {
			p1 := pts[i]
			p2 := pts[(i+1)%n]
			if (p1.Y <= fy && p2.Y > fy) || (p2.Y <= fy && p1.Y > fy) {
				t := (fy - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		for i := 0; i < len(xs)-1; i++ {
			for j := i + 1; j < len(xs); j++ {
				if xs[j] < xs[i] {
					xs[i], xs[j] = xs[j], xs[i]
				}
			}
		}
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i]); x <= int(xs[i+1]); x++ {
				blendPixel(output, x, y, col)
			}
		}
	}
}

func (c *AnnotationCanvas) fillCircleView(output *image.RGBA, center geometry.Point2D, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	r2 := r * r
	for y := int(center.Y - r); y <= int(center.Y+r)+1; y++ {
		for x := int(center.X - r); x <= int(center.X+r)+1; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= r2 {
				blendPixel(output, x, y, col)
			}
		}
	}
}

// drawToolPreview renders the in-progress draw gesture of the active tool.
func (c *AnnotationCanvas) drawToolPreview(output *image.RGBA) {
	switch t := c.tools.Active().(type) {
	case interface {
		PreviewRect() (geometry.Rect, bool)
	}:
		rect, ok := t.PreviewRect()
		if !ok {
			return
		}
		tl := c.scn.WorldToView(rect.TopLeft())
		br := c.scn.WorldToView(geometry.Point2D{X: rect.X + rect.Width, Y: rect.Y + rect.Height})
		c.drawDashedRect(output, int(tl.X), int(tl.Y), int(br.X), int(br.Y), selectionColor)
	case interface {
		PreviewLine() (geometry.Point2D, geometry.Point2D, bool)
	}:
		start, end, ok := t.PreviewLine()
		if !ok {
			return
		}
		c.strokeSegment(output, c.scn.WorldToView(start), c.scn.WorldToView(end), selectionColor, 1, annotation.DashDashed)
	}
}

// drawSelectionChrome draws dashed bounds and control point handles for the
// selected annotations.
func (c *AnnotationCanvas) drawSelectionChrome(output *image.RGBA) {
	for _, id := range c.scn.SelectedIDs() {
		a := c.scn.ByID(id)
		if a == nil {
			continue
		}

		b := a.Bounds()
		tl := c.scn.WorldToView(b.TopLeft())
		br := c.scn.WorldToView(geometry.Point2D{X: b.X + b.Width, Y: b.Y + b.Height})
		c.drawDashedRect(output, int(tl.X), int(tl.Y), int(br.X), int(br.Y), selectionColor)

		if a.Locked {
			continue
		}
		for _, cp := range a.ControlPoints() {
			c.drawHandle(output, c.scn.WorldToView(cp.Position))
		}
	}
}

// drawDashedRect draws a 1px dashed rectangle, alternating on the pixel
// parity so the pattern marches consistently around the border.
func (c *AnnotationCanvas) drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			blendPixel(output, x, y1, col)
		}
		if (x+y2)%4 < 2 {
			blendPixel(output, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			blendPixel(output, x1, y, col)
		}
		if (x2+y)%4 < 2 {
			blendPixel(output, x2, y, col)
		}
	}
}

func (c *AnnotationCanvas) drawHandle(output *image.RGBA, center geometry.Point2D) {
	half := handleDrawSize / 2
	cx, cy := int(center.X), int(center.Y)
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			onBorder := x == cx-half || x == cx+half || y == cy-half || y == cy+half
			if onBorder {
				blendPixel(output, x, y, handleBorderColor)
			} else {
				blendPixel(output, x, y, handleFillColor)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
