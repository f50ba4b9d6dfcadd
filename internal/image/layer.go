// Package image provides base image loading for the annotation scene.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"image-annotator/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Layer is the base image annotations are drawn over.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Loaded image data
	DPI     float64     // From TIFF metadata when available
	Visible bool
	Opacity float64 // 0.0 - 1.0
}

// NewLayer creates a Layer with default settings.
func NewLayer() *Layer {
	return &Layer{Visible: true, Opacity: 1.0}
}

// Load loads a PNG, JPEG, or TIFF image from the specified path.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := extractTIFFDPI(path); err == nil {
			layer.DPI = dpi
		}
	}

	return layer, nil
}

// FromImage wraps an already-decoded image in a Layer.
func FromImage(img image.Image) *Layer {
	layer := NewLayer()
	layer.Image = img
	return layer
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// PixelSize returns the image dimensions.
func (l *Layer) PixelSize() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}
