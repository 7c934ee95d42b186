// Package batch drives images one at a time through resolve, rasterize,
// inject and persist, isolating per-item failures and reporting progress.
package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/printforge/imageconv/config"
	"github.com/printforge/imageconv/core"
	apperrors "github.com/printforge/imageconv/errors"
	"github.com/printforge/imageconv/inject"
	"github.com/printforge/imageconv/resolve"
)

// Coordinator is the only stateful orchestrator in the module. Processing is
// strictly sequential: one item's pipeline completes or fails before the
// next begins, which bounds peak memory to a single raster and encoded
// buffer. There is no mid-batch cancellation; a started batch runs to
// completion over all items.
type Coordinator struct {
	resolver *resolve.Resolver
	raster   core.Rasterizer
	sink     core.PersistenceSink

	hooks   []core.Hook
	logger  core.Logger
	metrics core.MetricsCollector

	defaultQuality int
	maxRetries     int
	retryDelay     time.Duration

	processedCount int64
	errorCount     int64
}

// New creates a Coordinator over the given collaborators.
func New(cfg config.Config, resolver *resolve.Resolver, raster core.Rasterizer, sink core.PersistenceSink) *Coordinator {
	quality := cfg.DefaultQuality
	if quality <= 0 {
		quality = config.Default().DefaultQuality
	}
	if resolver == nil {
		resolver = resolve.New(nil, cfg.DefaultDPI)
	}
	return &Coordinator{
		resolver:       resolver,
		raster:         raster,
		sink:           sink,
		defaultQuality: quality,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}
}

// SetLogger attaches a structured logger.
func (c *Coordinator) SetLogger(l core.Logger) { c.logger = l }

// SetMetrics attaches a metrics collector.
func (c *Coordinator) SetMetrics(m core.MetricsCollector) { c.metrics = m }

// AddHook registers an observer for per-item events.
func (c *Coordinator) AddHook(h core.Hook) { c.hooks = append(c.hooks, h) }

// Resolver returns the dimension resolver in use.
func (c *Coordinator) Resolver() *resolve.Resolver { return c.resolver }

// Run processes every request in input order and returns an aggregate
// result. It never returns an error and never panics: a failure in one item
// marks only that item failed, and SucceededCount()+FailedCount() == Total
// always holds. progress may be nil; when set it is notified after every
// attempted item, and its own panics are swallowed.
func (c *Coordinator) Run(ctx context.Context, requests []core.BatchRequest, progress core.ProgressSink) *core.BatchResult {
	start := time.Now()
	result := &core.BatchResult{
		RunID: uuid.NewString(),
		Total: len(requests),
	}

	c.debug("batch.start", "run_id", result.RunID, "items", result.Total)

	for i, req := range requests {
		item := core.BatchItem{
			Source:      req.Source,
			Settings:    req.Settings,
			SystemAsset: req.SystemAsset,
			Status:      core.StatusPending,
		}

		c.notifyBefore(ctx, i, &item)
		itemStart := time.Now()
		err := c.processItem(ctx, &item)
		elapsed := time.Since(itemStart)
		c.notifyAfter(ctx, i, &item, elapsed, err)

		if c.metrics != nil {
			c.metrics.RecordItemDuration(elapsed)
			if err != nil {
				c.metrics.RecordError(stageOf(err))
			} else {
				c.metrics.RecordOutputBytes(item.OutputBytes)
			}
		}

		var text string
		if err != nil {
			item.Status = core.StatusFailed
			item.Err = err
			result.Failed = append(result.Failed, item)
			atomic.AddInt64(&c.errorCount, 1)
			text = fmt.Sprintf("failed %s: %v", displayName(item.Source.Name), err)
			c.error("batch.item.failed", "run_id", result.RunID, "index", i, "error", err.Error())
		} else {
			item.Status = core.StatusSucceeded
			result.Succeeded = append(result.Succeeded, item)
			atomic.AddInt64(&c.processedCount, 1)
			text = fmt.Sprintf("converted %s (%d of %d)", item.OutputName, i+1, result.Total)
			c.debug("batch.item.done", "run_id", result.RunID, "index", i,
				"output", item.OutputName, "bytes", item.OutputBytes)
		}

		c.notifyProgress(progress, i+1, result.Total, text)

		// Voluntary suspension point between items so a host event loop
		// stays responsive. Ordering is unaffected.
		runtime.Gosched()
	}

	result.Elapsed = time.Since(start)
	c.debug("batch.done", "run_id", result.RunID,
		"succeeded", result.SucceededCount(), "failed", result.FailedCount())
	return result
}

// processItem runs one item through the full pipeline. Panics anywhere in
// the item are converted to an item error so the loop always continues.
func (c *Coordinator) processItem(ctx context.Context, item *core.BatchItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.New(apperrors.CategoryBatch, "item",
				fmt.Errorf("panic: %v", r))
		}
	}()

	settings := item.Settings
	// Untyped platform assets are always normalised to JPEG, regardless of
	// the requested format. The override is per-item only.
	if item.SystemAsset || settings.Format == "" {
		settings.Format = core.FormatJPEG
	}

	dims, err := c.resolver.Resolve(item.Source, settings)
	if err != nil {
		return err
	}

	quality := settings.Quality
	if quality <= 0 {
		quality = c.defaultQuality
	}

	encoded, err := c.raster.Rasterize(ctx, item.Source, dims,
		core.FitOptions{KeepAspect: settings.KeepAspect}, settings.Format, quality)
	if err != nil {
		return err
	}

	tagged := c.injectDPI(encoded, settings.Format, dims.DPI)

	name := OutputName(item.Source.Name, dims, settings.Format, item.SystemAsset)
	if err := c.persist(ctx, name, tagged.Data); err != nil {
		return err
	}

	item.OutputName = name
	item.OutputBytes = int64(len(tagged.Data))
	return nil
}

// injectDPI tags the encoded stream with print resolution. Tagging is
// best-effort at this level: an injector error means the bytes were not in
// the expected format, and the untagged original is used instead.
func (c *Coordinator) injectDPI(img *core.EncodedImage, format core.Format, dpi int) *core.EncodedImage {
	var (
		data []byte
		err  error
	)
	switch format {
	case core.FormatPNG:
		data, err = inject.PNGDPI(img.Data, dpi)
	default:
		data, err = inject.JPEGDPI(img.Data, dpi)
	}
	if err != nil {
		c.warn("batch.inject.skipped", "format", string(format), "error", err.Error())
		return img
	}
	return &core.EncodedImage{Data: data, MIME: img.MIME}
}

// persist saves the final bytes, retrying transient sink failures.
func (c *Coordinator) persist(ctx context.Context, name string, data []byte) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err = c.sink.Save(ctx, name, data)
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return apperrors.Wrap(apperrors.CategoryPersist, "persist", ctx.Err())
			case <-time.After(c.retryDelay):
			}
		}
	}
	return err
}

// notifyProgress is fire-and-forget: a panicking sink must not affect the
// batch.
func (c *Coordinator) notifyProgress(progress core.ProgressSink, current, total int, text string) {
	if progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.warn("batch.progress.panic", "detail", fmt.Sprint(r))
		}
	}()
	progress.Progress(current, total, text)
}

func (c *Coordinator) notifyBefore(ctx context.Context, index int, item *core.BatchItem) {
	for _, h := range c.hooks {
		h.BeforeItem(ctx, index, item)
	}
}

func (c *Coordinator) notifyAfter(ctx context.Context, index int, item *core.BatchItem, d time.Duration, err error) {
	for _, h := range c.hooks {
		h.AfterItem(ctx, index, item, d, err)
	}
}

// ProcessedCount returns the total number of successfully converted items.
func (c *Coordinator) ProcessedCount() int64 { return atomic.LoadInt64(&c.processedCount) }

// ErrorCount returns the total number of failed items.
func (c *Coordinator) ErrorCount() int64 { return atomic.LoadInt64(&c.errorCount) }

func stageOf(err error) string {
	var ce *apperrors.ConversionError
	if stderrors.As(err, &ce) {
		return string(ce.Category)
	}
	return "unknown"
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed image)"
	}
	return name
}

func (c *Coordinator) debug(msg string, fields ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields...)
	}
}

func (c *Coordinator) warn(msg string, fields ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields...)
	}
}

func (c *Coordinator) error(msg string, fields ...interface{}) {
	if c.logger != nil {
		c.logger.Error(msg, fields...)
	}
}
