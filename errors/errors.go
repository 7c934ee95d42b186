package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryResolve   Category = "resolve"
	CategoryInject    Category = "inject"
	CategoryRaster    Category = "raster"
	CategoryPersist   Category = "persist"
	CategoryBatch     Category = "batch"
	CategoryConfig    Category = "config"
	CategoryInput     Category = "input"
	CategoryTransient Category = "transient"
)

// ConversionError is the structured error type used throughout the module.
type ConversionError struct {
	Category  Category
	Op        string // operation name
	Err       error
	Retryable bool
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// New creates a non-retryable ConversionError.
func New(category Category, op string, err error) *ConversionError {
	return &ConversionError{Category: category, Op: op, Err: err}
}

// Transient creates a retryable ConversionError.
func Transient(op string, err error) *ConversionError {
	return &ConversionError{Category: CategoryTransient, Op: op, Err: err, Retryable: true}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsRetryable reports whether err represents a transient failure.
func IsRetryable(err error) bool {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrInvalidFormat      = errors.New("invalid image format")
	ErrDimensionsTooLarge = errors.New("resolved dimensions exceed raster limit")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrInvalidSettings    = errors.New("invalid output settings")
	ErrEmptyInput         = errors.New("empty input")
)
