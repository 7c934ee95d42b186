// Package resolve maps source pixel sizes and output settings to the target
// width, height and print resolution of one conversion.
package resolve

import (
	"fmt"
	"math"

	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
)

// Resolver computes target dimensions. Stateless apart from its catalog;
// safe for concurrent use.
type Resolver struct {
	catalog    *Catalog
	defaultDPI int
}

// New creates a Resolver. A nil catalog falls back to the built-in presets;
// defaultDPI <= 0 falls back to core.DefaultDPI.
func New(catalog *Catalog, defaultDPI int) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if defaultDPI <= 0 {
		defaultDPI = core.DefaultDPI
	}
	return &Resolver{catalog: catalog, defaultDPI: defaultDPI}
}

// Catalog returns the preset catalog in use.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// EffectiveDPI resolves the print resolution for the given settings.
// Precedence: explicit settings value > configured default > hard-coded 300.
func (r *Resolver) EffectiveDPI(s core.OutputSettings) int {
	if s.DPI > 0 {
		return s.DPI
	}
	return r.defaultDPI
}

// Resolve maps a source size plus settings to final target dimensions.
//
// Base dimensions come from the sizing mode. When the effective DPI differs
// from the base's native DPI and the mode is not Original, the pixel grid is
// rescaled by dpi/baseDPI so that a DPI change on a preset or custom size
// also scales the raster. The final DPI is always the effective one.
func (r *Resolver) Resolve(src core.SourceImage, s core.OutputSettings) (core.ResolvedDimensions, error) {
	var zero core.ResolvedDimensions
	if src.Width < 1 || src.Height < 1 {
		return zero, apperrors.New(apperrors.CategoryInput, "resolve",
			fmt.Errorf("source size %dx%d: %w", src.Width, src.Height, apperrors.ErrInvalidSettings))
	}

	dpi := r.EffectiveDPI(s)

	var baseW, baseH, baseDPI int
	switch s.Mode {
	case core.SizePreset:
		p, ok := r.catalog.Get(s.PresetID)
		if !ok {
			return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
				fmt.Errorf("%w: %q", apperrors.ErrUnknownPreset, s.PresetID))
		}
		baseW, baseH, baseDPI = p.Width, p.Height, p.DPI
	case core.SizeCustom:
		if s.CustomWidth < 1 || s.CustomHeight < 1 {
			return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
				fmt.Errorf("custom size %dx%d: %w", s.CustomWidth, s.CustomHeight, apperrors.ErrInvalidSettings))
		}
		baseW, baseH, baseDPI = s.CustomWidth, s.CustomHeight, dpi
	case core.SizeScalePercent:
		if s.ScalePercent <= 0 {
			return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
				fmt.Errorf("scale percent %v: %w", s.ScalePercent, apperrors.ErrInvalidSettings))
		}
		baseW = int(math.Round(float64(src.Width) * s.ScalePercent / 100))
		baseH = int(math.Round(float64(src.Height) * s.ScalePercent / 100))
		baseDPI = dpi
	case core.SizeOriginal, "":
		baseW, baseH, baseDPI = src.Width, src.Height, dpi
	default:
		return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
			fmt.Errorf("sizing mode %q: %w", s.Mode, apperrors.ErrInvalidSettings))
	}

	w, h := baseW, baseH
	if s.Mode != core.SizeOriginal && s.Mode != "" && dpi != baseDPI {
		factor := float64(dpi) / float64(baseDPI)
		w = int(math.Round(float64(baseW) * factor))
		h = int(math.Round(float64(baseH) * factor))
	}

	if w < 1 || h < 1 {
		return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
			fmt.Errorf("resolved size %dx%d: %w", w, h, apperrors.ErrInvalidSettings))
	}
	if w > core.MaxRasterDim || h > core.MaxRasterDim {
		return zero, apperrors.New(apperrors.CategoryResolve, "resolve",
			fmt.Errorf("resolved size %dx%d: %w (limit %d)", w, h, apperrors.ErrDimensionsTooLarge, core.MaxRasterDim))
	}

	return core.ResolvedDimensions{Width: w, Height: h, DPI: dpi}, nil
}
