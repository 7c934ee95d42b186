package core

import (
	"context"
	"image"
	"io"
	"time"
)

// Decoder converts raw bytes / a reader into a decoded pixel buffer.
// Implementations live in adapters/decoder/.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
	// CanDecode reports whether this decoder handles the given format hint.
	CanDecode(format Format) bool
}

// Encoder serialises a pixel buffer to bytes in a target format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, opts EncodeOptions) ([]byte, error)
	CanEncode(format Format) bool
}

// EncodeOptions carries format-specific encoding parameters.
type EncodeOptions struct {
	Quality  int  // 1-100; 0 = use encoder default
	Lossless bool // PNG best-compression mode
}

// Rasterizer takes a decoded source and draws it at the resolved dimensions,
// returning encoded bytes in the requested format. Implementations must
// start from a fresh (or fully reset) canvas on every call so pixels from a
// previous item cannot bleed into the next.
type Rasterizer interface {
	Rasterize(ctx context.Context, src SourceImage, dims ResolvedDimensions,
		fit FitOptions, format Format, quality int) (*EncodedImage, error)
}

// PersistenceSink accepts a named byte buffer for saving.
// Implementations live in adapters/sink/.
type PersistenceSink interface {
	Save(ctx context.Context, name string, data []byte) error
}

// ProgressSink receives a notification after every attempted batch item.
// It is fire-and-forget: the coordinator never consults a return value and
// swallows panics raised by implementations.
type ProgressSink interface {
	Progress(current, total int, text string)
}

// ProgressFunc adapts a function to the ProgressSink interface.
type ProgressFunc func(current, total int, text string)

func (f ProgressFunc) Progress(current, total int, text string) { f(current, total, text) }

// Hook is an optional observer invoked around batch items.
type Hook interface {
	BeforeItem(ctx context.Context, index int, item *BatchItem)
	AfterItem(ctx context.Context, index int, item *BatchItem, d time.Duration, err error)
}

// MetricsCollector receives performance observations from the coordinator.
type MetricsCollector interface {
	RecordItemDuration(d time.Duration)
	RecordOutputBytes(n int64)
	RecordError(stage string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Registry maps Format values to Decoder/Encoder implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}
