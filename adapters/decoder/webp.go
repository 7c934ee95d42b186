package decoder

import (
	"context"
	"image"
	"io"

	"golang.org/x/image/webp"

	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
)

// WebP decodes WebP sources using golang.org/x/image/webp. Output formats
// stay JPEG/PNG; this only widens what the engine accepts as input.
// NOTE: golang.org/x/image/webp only supports lossy WebP decoding.
type WebP struct{}

// NewWebP returns an initialised WebP decoder.
func NewWebP() *WebP { return &WebP{} }

func (w *WebP) CanDecode(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryRaster, "webp.decode", err)
	}
	img, err := webp.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryRaster, "webp.decode", err)
	}
	return img, nil
}
