// Package inject rewrites encoded JPEG and PNG byte streams to carry print
// resolution metadata. Tagging is best-effort: once past the structural
// signature check, any malformed input falls back to the original bytes
// rather than failing the conversion.
package inject

import (
	"encoding/binary"

	apperrors "github.com/printforge/imageconv/errors"
)

const (
	jpegSOI0 = 0xFF
	jpegSOI1 = 0xD8
	app0     = 0xE0

	// Total APP0/JFIF segment size: marker (2) + declared length (16).
	app0SegmentSize = 18
	// Length field value: counts itself and the payload, not the marker.
	app0Length = 0x0010

	maxJPEGDensity = 0xFFFF
)

// JPEGDPI returns a copy of data with a fresh APP0/JFIF segment carrying dpi
// as pixels-per-inch density directly after the start-of-image marker. An
// existing leading APP0 segment is replaced, never stacked, so the operation
// is idempotent.
//
// A missing SOI marker is the only hard failure. Anything else that stops
// the rewrite (out-of-range dpi, malformed embedded segment length,
// truncation) returns the input unchanged with a nil error.
func JPEGDPI(data []byte, dpi int) ([]byte, error) {
	if len(data) < 2 || data[0] != jpegSOI0 || data[1] != jpegSOI1 {
		return nil, apperrors.New(apperrors.CategoryInject, "jpeg.inject", apperrors.ErrInvalidFormat)
	}
	if dpi < 1 || dpi > maxJPEGDensity {
		return data, nil
	}

	rest := data[2:]
	// Replace an existing leading APP0 segment if its declared length is
	// intact; on any inconsistency, keep the original bytes.
	if len(data) >= 4 && data[2] == jpegSOI0 && data[3] == app0 {
		if len(data) < 6 {
			return data, nil
		}
		segLen := int(binary.BigEndian.Uint16(data[4:6]))
		if segLen < 2 || 4+segLen > len(data) {
			return data, nil
		}
		rest = data[4+segLen:]
	}

	out := make([]byte, 0, 2+app0SegmentSize+len(rest))
	out = append(out, jpegSOI0, jpegSOI1)
	out = append(out, buildAPP0(uint16(dpi))...)
	out = append(out, rest...)
	return out, nil
}

// buildAPP0 constructs the 18-byte APP0/JFIF segment: marker, length,
// "JFIF\0", version 1.01, density unit 1 (pixels per inch), X and Y density,
// and a zero-size thumbnail.
func buildAPP0(density uint16) []byte {
	seg := make([]byte, 0, app0SegmentSize)
	seg = append(seg, jpegSOI0, app0)
	seg = binary.BigEndian.AppendUint16(seg, app0Length)
	seg = append(seg, 'J', 'F', 'I', 'F', 0x00)
	seg = append(seg, 0x01, 0x01) // JFIF version
	seg = append(seg, 0x01)       // density unit: dots per inch
	seg = binary.BigEndian.AppendUint16(seg, density)
	seg = binary.BigEndian.AppendUint16(seg, density)
	seg = append(seg, 0x00, 0x00) // no thumbnail
	return seg
}
