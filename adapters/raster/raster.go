// Package raster provides the default Rasterizer: decode the source via the
// codec registry, draw it onto a fresh white canvas at the resolved
// dimensions, and encode it in the requested output format.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
	"github.com/printforge/imageconv/resolve"
	"github.com/printforge/imageconv/utils"
)

// Backend implements core.Rasterizer on top of a codec registry.
// Every call allocates its own canvas, so no pixel state is carried between
// items and the backend is safe for concurrent use.
type Backend struct {
	reg core.Registry
	// Resampler controls quality vs speed. Defaults to xdraw.BiLinear.
	Resampler xdraw.Interpolator
}

// New creates a Backend over the given registry.
func New(reg core.Registry) *Backend { return &Backend{reg: reg} }

func (b *Backend) Rasterize(ctx context.Context, src core.SourceImage, dims core.ResolvedDimensions,
	fit core.FitOptions, format core.Format, quality int) (*core.EncodedImage, error) {

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryRaster, "rasterize", err)
	}
	if len(src.Data) == 0 {
		return nil, apperrors.New(apperrors.CategoryRaster, "rasterize", apperrors.ErrEmptyInput)
	}
	if dims.Width < 1 || dims.Height < 1 || dims.Width > core.MaxRasterDim || dims.Height > core.MaxRasterDim {
		return nil, apperrors.New(apperrors.CategoryRaster, "rasterize",
			fmt.Errorf("canvas %dx%d: %w", dims.Width, dims.Height, apperrors.ErrDimensionsTooLarge))
	}

	decoded, err := b.decode(ctx, src.Data)
	if err != nil {
		return nil, err
	}

	canvas := b.draw(decoded, dims, fit)

	enc, ok := b.reg.EncoderFor(format)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryRaster, "rasterize",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}
	data, err := enc.Encode(ctx, canvas, core.EncodeOptions{Quality: quality})
	if err != nil {
		return nil, err
	}
	return &core.EncodedImage{Data: data, MIME: format.MIME()}, nil
}

func (b *Backend) decode(ctx context.Context, data []byte) (image.Image, error) {
	format := core.Format(utils.DetectFormat(data))
	dec, ok := b.reg.DecoderFor(format)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryRaster, "rasterize.decode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}
	return dec.Decode(ctx, utils.BytesReader(data))
}

// draw scales the decoded source onto a freshly allocated opaque white
// canvas. With aspect fitting the remainder stays white letterbox padding;
// without it the source is stretched over the full canvas.
func (b *Backend) draw(src image.Image, dims core.ResolvedDimensions, fit core.FitOptions) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	target := canvas.Bounds()
	if fit.KeepAspect {
		srcB := src.Bounds()
		w, h, x, y := resolve.FitRect(srcB.Dx(), srcB.Dy(), dims.Width, dims.Height)
		target = image.Rect(x, y, x+w, y+h)
	}

	sampler := b.Resampler
	if sampler == nil {
		sampler = xdraw.BiLinear
	}
	sampler.Scale(canvas, target, src, src.Bounds(), xdraw.Over, nil)
	return canvas
}
