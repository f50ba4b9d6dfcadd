package canvas

import (
	"image"

	"image-annotator/internal/annotation"
	"image-annotator/pkg/geometry"
)

// glyphPatterns holds 3x5 pixel patterns, 5 rows of 3 bits each, for the
// characters the inline text renderer supports. Unsupported characters render
// as blanks.
var glyphPatterns = map[rune][5]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b001, 0b001},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	'/': {0b001, 0b001, 0b010, 0b100, 0b100},
	'?': {0b111, 0b001, 0b011, 0b000, 0b010},
	'!': {0b010, 0b010, 0b010, 0b000, 0b010},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

func glyphFor(ch rune) [5]uint8 {
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	return glyphPatterns[ch]
}

// textPadding is the inset from the shape bounds when aligning text to an
// edge, in view pixels.
const textPadding = 4

// drawShapeText renders the shape's inline text with the bitmap glyph set,
// positioned by the text style alignment within the unrotated view bounds.
func (c *AnnotationCanvas) drawShapeText(output *image.RGBA, a *annotation.Annotation) {
	ts := a.Shape.TextStyle
	col := ts.Color
	if col.A == 0 {
		col = handleBorderColor
	}

	// Glyph scale tracks zoom and font size; font size 12 maps to scale 2
	// at zoom 1, matching the hit target of small shapes.
	fontSize := ts.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	scale := int(fontSize / 6 * c.scn.Zoom())
	if scale < 1 {
		scale = 1
	}
	if scale > 8 {
		scale = 8
	}

	charW := 3 * scale
	charH := 5 * scale
	spacing := scale

	runes := []rune(a.Shape.Text)
	textW := len(runes)*charW + (len(runes)-1)*spacing

	b := a.Bounds()
	tl := c.scn.WorldToView(b.TopLeft())
	br := c.scn.WorldToView(geometry.Point2D{X: b.X + b.Width, Y: b.Y + b.Height})

	var startX, startY int
	switch ts.HAlign {
	case annotation.AlignLeft:
		startX = int(tl.X) + textPadding
	case annotation.AlignRight:
		startX = int(br.X) - textPadding - textW
	default:
		startX = (int(tl.X)+int(br.X))/2 - textW/2
	}
	switch ts.VAlign {
	case annotation.AlignTop:
		startY = int(tl.Y) + textPadding
	case annotation.AlignBottom:
		startY = int(br.Y) - textPadding - charH
	default:
		startY = (int(tl.Y)+int(br.Y))/2 - charH/2
	}

	for i, ch := range runes {
		pattern := glyphFor(ch)
		charX := startX + i*(charW+spacing)
		for row := 0; row < 5; row++ {
			for colBit := 0; colBit < 3; colBit++ {
				if pattern[row]&(1<<(2-colBit)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						blendPixel(output, charX+colBit*scale+dx, startY+row*scale+dy, col)
					}
				}
			}
		}
	}
}
