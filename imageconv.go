// Package imageconv converts raster images between JPEG and PNG, resizes
// them to preset or custom print dimensions, and embeds DPI metadata
// directly into the encoded byte stream.
package imageconv

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/printforge/imageconv/adapters/decoder"
	"github.com/printforge/imageconv/adapters/encoder"
	"github.com/printforge/imageconv/adapters/raster"
	"github.com/printforge/imageconv/adapters/sink"
	"github.com/printforge/imageconv/batch"
	"github.com/printforge/imageconv/config"
	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
	"github.com/printforge/imageconv/resolve"
	"github.com/printforge/imageconv/utils"
)

// Re-export Format constants for convenience.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (config.Config, error) { return config.Load(path) }

// Converter is the primary entry point.
type Converter struct {
	cfg      config.Config
	coord    *batch.Coordinator
	reg      *core.DefaultRegistry
	resolver *resolve.Resolver
	backend  core.Rasterizer
}

// New creates a fully wired Converter: JPEG/PNG/WebP source decoders,
// JPEG/PNG output encoders, the default draw-based rasterizer, and a preset
// catalog merged from cfg.Presets. Converted images go to the given sink.
func New(cfg config.Config, persist core.PersistenceSink) *Converter {
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(cfg.DefaultQuality))
	reg.RegisterEncoder(core.FormatPNG, encoder.NewPNG())

	return newWith(cfg, reg, raster.New(reg), persist)
}

// NewToDir is a convenience constructor persisting converted images into
// cfg.OutputDir with cfg.Permissions.
func NewToDir(cfg config.Config) (*Converter, error) {
	persist, err := sink.NewLocal(cfg.OutputDir, os.FileMode(cfg.Permissions))
	if err != nil {
		return nil, err
	}
	return New(cfg, persist), nil
}

// NewWithRasterizer wires a Converter around a custom Rasterizer backend
// (for example a libvips-based one) instead of the default draw backend.
func NewWithRasterizer(cfg config.Config, backend core.Rasterizer, persist core.PersistenceSink) *Converter {
	return newWith(cfg, core.NewRegistry(), backend, persist)
}

func newWith(cfg config.Config, reg *core.DefaultRegistry, backend core.Rasterizer, persist core.PersistenceSink) *Converter {
	user := make([]core.Preset, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		user = append(user, core.Preset{ID: p.ID, Width: p.Width, Height: p.Height, DPI: p.DPI})
	}
	resolver := resolve.New(resolve.NewCatalog(user), cfg.DefaultDPI)

	return &Converter{
		cfg:      cfg,
		coord:    batch.New(cfg, resolver, backend, persist),
		reg:      reg,
		resolver: resolver,
		backend:  backend,
	}
}

// SetLogger attaches a structured logger.
func (c *Converter) SetLogger(l core.Logger) { c.coord.SetLogger(l) }

// SetMetrics attaches a metrics collector.
func (c *Converter) SetMetrics(m core.MetricsCollector) { c.coord.SetMetrics(m) }

// AddHook registers an observer for per-item events.
func (c *Converter) AddHook(h core.Hook) { c.coord.AddHook(h) }

// Registry returns the codec registry so callers can register custom
// decoders/encoders after construction.
func (c *Converter) Registry() *core.DefaultRegistry { return c.reg }

// Presets returns the available preset IDs, built-in plus user-defined.
func (c *Converter) Presets() []string { return c.resolver.Catalog().IDs() }

// Resolve exposes the dimension resolver for callers that want target sizes
// without running a conversion.
func (c *Converter) Resolve(src core.SourceImage, settings core.OutputSettings) (core.ResolvedDimensions, error) {
	return c.resolver.Resolve(src, settings)
}

// Convert runs the batch sequentially and returns the aggregate result.
// It never returns an error; inspect result.Failed for per-item failures.
func (c *Converter) Convert(ctx context.Context, requests []core.BatchRequest, progress core.ProgressSink) *core.BatchResult {
	return c.coord.Run(ctx, requests, progress)
}

// ConvertOne converts a single image and returns the final bytes and the
// deterministic output name, bypassing the configured sink.
func (c *Converter) ConvertOne(ctx context.Context, src core.SourceImage, settings core.OutputSettings) ([]byte, string, error) {
	mem := sink.NewMemory()
	coord := batch.New(c.cfg, c.resolver, c.backend, mem)
	result := coord.Run(ctx, []core.BatchRequest{{Source: src, Settings: settings}}, nil)
	if len(result.Failed) > 0 {
		return nil, "", result.Failed[0].Err
	}
	name := result.Succeeded[0].OutputName
	data, _ := mem.Get(name)
	return data, name, nil
}

// Stats returns lightweight processing statistics.
func (c *Converter) Stats() (processed, errors int64) {
	return c.coord.ProcessedCount(), c.coord.ErrorCount()
}

// ── Source constructors ───────────────────────────────────────────────────────

// FromBytes builds a SourceImage from encoded bytes, probing the pixel
// dimensions from the stream header.
func FromBytes(name string, data []byte) (core.SourceImage, error) {
	w, h, err := probeSize(data)
	if err != nil {
		return core.SourceImage{}, err
	}
	return core.SourceImage{Name: name, Width: w, Height: h, Data: data}, nil
}

// SourceFromReader drains r (respecting the configured source size limit)
// and builds a SourceImage from the result.
func (c *Converter) SourceFromReader(ctx context.Context, name string, r io.Reader) (core.SourceImage, error) {
	if c.cfg.MaxSourceBytes > 0 {
		r = &utils.LimitedReader{R: r, Max: c.cfg.MaxSourceBytes}
	}
	buf, err := utils.DrainReader(ctx, r, c.cfg.ChunkSize)
	if err != nil {
		return core.SourceImage{}, apperrors.Wrap(apperrors.CategoryInput, "source.read", err)
	}
	data := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	return FromBytes(name, data)
}

// probeSize reads just the stream header to learn pixel dimensions, without
// decoding pixel data.
func probeSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(utils.BytesReader(data))
	if err != nil {
		return 0, 0, apperrors.New(apperrors.CategoryInput, "source.probe",
			fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, err))
	}
	return cfg.Width, cfg.Height, nil
}
