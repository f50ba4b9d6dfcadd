package image

import (
	"encoding/binary"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	layer, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if layer.Width() != 64 || layer.Height() != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", layer.Width(), layer.Height())
	}
	if !layer.Visible || layer.Opacity != 1.0 {
		t.Errorf("defaults = visible %v opacity %v", layer.Visible, layer.Opacity)
	}
	if layer.DPI != 0 {
		t.Errorf("PNG DPI = %v, want 0", layer.DPI)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestFromImage(t *testing.T) {
	layer := FromImage(image.NewGray(image.Rect(0, 0, 10, 20)))
	size := layer.PixelSize()
	if size.Width != 10 || size.Height != 20 {
		t.Errorf("PixelSize() = %+v, want 10x20", size)
	}
}

func TestPixelSizeNilImage(t *testing.T) {
	layer := NewLayer()
	if size := layer.PixelSize(); size.Width != 0 || size.Height != 0 {
		t.Errorf("PixelSize() = %+v, want zero", size)
	}
}

// writeTIFFHeader builds a minimal little-endian TIFF containing only the
// resolution entries of the first IFD.
func writeTIFFHeader(t *testing.T, xRes uint32, unit uint16) string {
	t.Helper()

	le := binary.LittleEndian
	buf := make([]byte, 46)
	buf[0], buf[1] = 'I', 'I'
	le.PutUint16(buf[2:4], 42)
	le.PutUint32(buf[4:8], 8) // first IFD offset

	le.PutUint16(buf[8:10], 2) // entry count

	// XResolution: rational stored at offset 38.
	le.PutUint16(buf[10:12], tagXResolution)
	le.PutUint16(buf[12:14], typeRational)
	le.PutUint32(buf[14:18], 1)
	le.PutUint32(buf[18:22], 38)

	// ResolutionUnit: short, value inline.
	le.PutUint16(buf[22:24], tagResolutionUnit)
	le.PutUint16(buf[24:26], typeShort)
	le.PutUint32(buf[26:30], 1)
	le.PutUint16(buf[30:32], unit)

	// next IFD offset = 0 at buf[34:38]

	le.PutUint32(buf[38:42], xRes)
	le.PutUint32(buf[42:46], 1)

	path := filepath.Join(t.TempDir(), "res.tif")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractTIFFDPI(t *testing.T) {
	path := writeTIFFHeader(t, 300, unitInch)
	dpi, err := extractTIFFDPI(path)
	if err != nil {
		t.Fatalf("extractTIFFDPI() error: %v", err)
	}
	if dpi != 300 {
		t.Errorf("dpi = %v, want 300", dpi)
	}
}

func TestExtractTIFFDPICentimeters(t *testing.T) {
	path := writeTIFFHeader(t, 100, unitCM)
	dpi, err := extractTIFFDPI(path)
	if err != nil {
		t.Fatalf("extractTIFFDPI() error: %v", err)
	}
	if dpi != 254 {
		t.Errorf("dpi = %v, want 254", dpi)
	}
}

func TestExtractTIFFDPIRejectsNonTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tif")
	if err := os.WriteFile(path, []byte("PNGPNGPN"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := extractTIFFDPI(path); err == nil {
		t.Error("non-TIFF header should be rejected")
	}
}
