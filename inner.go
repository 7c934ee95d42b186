package imageconv

import "github.com/printforge/imageconv/batch"

// Inner exposes the underlying batch.Coordinator for advanced use (e.g.,
// direct access in tests). Prefer the high-level API for normal usage.
func (c *Converter) Inner() *batch.Coordinator { return c.coord }
