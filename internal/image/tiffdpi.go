package image

import (
	"encoding/binary"
	"fmt"
	"os"
)

// TIFF IFD tags and types relevant to resolution.
const (
	tagXResolution    = 282
	tagResolutionUnit = 296

	typeShort    = 3
	typeRational = 5

	unitInch = 2
	unitCM   = 3
)

// extractTIFFDPI reads the XResolution/ResolutionUnit entries from the first
// IFD. The stdlib tiff decoder drops metadata, so the header is parsed
// directly.
func extractTIFFDPI(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	header := make([]byte, 8)
	if _, err := file.Read(header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		byteOrder = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := file.Seek(int64(ifdOffset), 0); err != nil {
		return 0, err
	}

	countBuf := make([]byte, 2)
	if _, err := file.Read(countBuf); err != nil {
		return 0, err
	}
	entryCount := byteOrder.Uint16(countBuf)

	var xRes float64
	unit := unitInch

	entry := make([]byte, 12)
	for i := 0; i < int(entryCount); i++ {
		if _, err := file.Read(entry); err != nil {
			return 0, err
		}
		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])

		switch {
		case tag == tagXResolution && fieldType == typeRational:
			valueOffset := byteOrder.Uint32(entry[8:12])
			pos, _ := file.Seek(0, 1)
			rational := make([]byte, 8)
			if _, err := file.ReadAt(rational, int64(valueOffset)); err != nil {
				return 0, err
			}
			num := byteOrder.Uint32(rational[0:4])
			den := byteOrder.Uint32(rational[4:8])
			if den != 0 {
				xRes = float64(num) / float64(den)
			}
			if _, err := file.Seek(pos, 0); err != nil {
				return 0, err
			}
		case tag == tagResolutionUnit && fieldType == typeShort:
			unit = int(byteOrder.Uint16(entry[8:10]))
		}
	}

	if xRes == 0 {
		return 0, fmt.Errorf("no resolution metadata")
	}
	if unit == unitCM {
		xRes *= 2.54
	}
	return xRes, nil
}
