package inject

import (
	"bytes"
	"encoding/binary"
	"math"

	apperrors "github.com/printforge/imageconv/errors"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	inchesPerMeter = 39.3701

	// pHYs payload: X ppm (4) + Y ppm (4) + unit byte.
	physDataLen = 9
	// Full chunk: length (4) + type (4) + data (9) + CRC (4).
	physChunkSize = 21
)

// PNGDPI returns a copy of data with a pHYs chunk inserted directly after
// the IHDR chunk, declaring dpi converted to pixels per meter on both axes.
//
// A missing PNG signature is the only hard failure. A non-positive dpi or a
// stream too short to hold the declared IHDR chunk returns the input
// unchanged with a nil error. An already-present pHYs chunk is not detected:
// re-tagging an already-tagged stream yields two chunks.
func PNGDPI(data []byte, dpi int) ([]byte, error) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:8], pngSignature) {
		return nil, apperrors.New(apperrors.CategoryInject, "png.inject", apperrors.ErrInvalidFormat)
	}
	if dpi < 1 {
		return data, nil
	}
	if len(data) < 16 {
		return data, nil
	}

	// IHDR starts right after the signature: 4-byte length, 4-byte type,
	// data, 4-byte CRC. The new chunk goes immediately after its CRC.
	ihdrLen := binary.BigEndian.Uint32(data[8:12])
	insertAt := 8 + 8 + int(ihdrLen) + 4
	if insertAt > len(data) {
		return data, nil
	}

	chunk := buildPhys(dpi)
	out := make([]byte, 0, len(data)+physChunkSize)
	out = append(out, data[:insertAt]...)
	out = append(out, chunk...)
	out = append(out, data[insertAt:]...)
	return out, nil
}

// buildPhys constructs the 21-byte pHYs chunk for the given dpi. The CRC
// covers the type and data bytes, not the length field.
func buildPhys(dpi int) []byte {
	ppm := uint32(math.Round(float64(dpi) * inchesPerMeter))

	chunk := make([]byte, 0, physChunkSize)
	chunk = binary.BigEndian.AppendUint32(chunk, physDataLen)
	chunk = append(chunk, 'p', 'H', 'Y', 's')
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 0x01) // unit: meters
	chunk = binary.BigEndian.AppendUint32(chunk, Checksum(chunk[4:4+4+physDataLen]))
	return chunk
}
