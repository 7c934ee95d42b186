package encoder

import (
	"context"
	"image"
	"image/png"

	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
	"github.com/printforge/imageconv/utils"
)

// PNG encodes images to PNG format.
type PNG struct{}

// NewPNG returns an initialised PNG encoder.
func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanEncode(format core.Format) bool { return format == core.FormatPNG }

func (p *PNG) Encode(ctx context.Context, img image.Image, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryRaster, "png.encode", err)
	}
	if img == nil {
		return nil, apperrors.New(apperrors.CategoryRaster, "png.encode", apperrors.ErrEmptyInput)
	}

	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.Lossless {
		enc.CompressionLevel = png.BestCompression
	}

	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := enc.Encode(buf, img); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryRaster, "png.encode", err)
	}
	return utils.CloneBytes(buf.Bytes()), nil
}
