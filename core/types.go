package core

import (
	"io"
	"time"
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// MIME returns the MIME type for the format.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	}
	return "application/octet-stream"
}

// Ext returns the conventional file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	}
	return ""
}

// MaxRasterDim is the largest pixel dimension the engine will rasterize on
// either axis. Resolved dimensions above this fail the item.
const MaxRasterDim = 32767

// DefaultDPI is the hard-coded fallback print resolution, used only when
// neither the settings nor the configuration supply one.
const DefaultDPI = 300

// SizingMode selects how target dimensions are derived from a source image.
type SizingMode string

const (
	SizeOriginal     SizingMode = "original"
	SizePreset       SizingMode = "preset"
	SizeCustom       SizingMode = "custom"
	SizeScalePercent SizingMode = "scale"
)

// OutputSettings describes the requested conversion for one image.
// Zero values mean "unset": Quality and DPI fall back to configured
// defaults, never to zero.
type OutputSettings struct {
	Mode         SizingMode
	PresetID     string  // required when Mode == SizePreset
	CustomWidth  int     // required when Mode == SizeCustom
	CustomHeight int     // required when Mode == SizeCustom
	ScalePercent float64 // required when Mode == SizeScalePercent
	KeepAspect   bool
	Format       Format
	Quality      int // 1-100; 0 = use configured default
	DPI          int // positive; 0 = use configured default
}

// Preset is an immutable named target size with its native print resolution.
type Preset struct {
	ID     string
	Width  int
	Height int
	DPI    int
}

// SourceImage is an encoded source plus its known pixel dimensions.
// Decoding the payload is the Rasterizer's business.
type SourceImage struct {
	Name   string
	Width  int
	Height int
	Data   []byte
	Reader io.Reader // optional; drained into Data by the facade when Data is nil
}

// ResolvedDimensions is the output of the dimension resolver. Produced fresh
// per item and never mutated afterwards.
type ResolvedDimensions struct {
	Width  int
	Height int
	DPI    int
}

// FitOptions controls how the source is placed on the target canvas.
type FitOptions struct {
	KeepAspect bool
}

// EncodedImage is an immutable encoded output buffer. Metadata injectors
// return a new EncodedImage rather than mutating one in place.
type EncodedImage struct {
	Data []byte
	MIME string
}

// ByteLen returns the encoded size in bytes.
func (e *EncodedImage) ByteLen() int { return len(e.Data) }

// ItemStatus tracks a batch item through the coordinator.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusSucceeded ItemStatus = "succeeded"
	StatusFailed    ItemStatus = "failed"
)

// BatchRequest is one unit of input to the coordinator.
type BatchRequest struct {
	Source   SourceImage
	Settings OutputSettings
	// SystemAsset marks extensionless platform assets; their output format
	// is forced to JPEG regardless of Settings.Format.
	SystemAsset bool
}

// BatchItem is the per-item record the coordinator maintains and reports.
type BatchItem struct {
	Source      SourceImage
	Settings    OutputSettings
	SystemAsset bool
	Status      ItemStatus
	OutputName  string
	OutputBytes int64
	Err         error
}

// BatchResult aggregates every attempted item. It is only constructed after
// the whole batch has run; Total == len(Succeeded)+len(Failed) always holds.
type BatchResult struct {
	RunID     string
	Succeeded []BatchItem
	Failed    []BatchItem
	Total     int
	Elapsed   time.Duration
}

// SucceededCount returns the number of items that converted and persisted.
func (r *BatchResult) SucceededCount() int { return len(r.Succeeded) }

// FailedCount returns the number of items that failed.
func (r *BatchResult) FailedCount() int { return len(r.Failed) }
