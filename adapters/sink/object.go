package sink

import (
	"context"
	"fmt"
	"io"

	apperrors "github.com/printforge/imageconv/errors"
	"github.com/printforge/imageconv/utils"
)

// ObjectClient defines the minimal object-store interface used by the
// Object sink. This allows injection of real aws-sdk-go-v2 / GCS clients or
// test doubles without this module taking on a cloud SDK dependency.
type ObjectClient interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// Object persists converted images to an S3-compatible object store.
// Failures are classified transient so the coordinator retries them.
type Object struct {
	client ObjectClient
	bucket string
	prefix string
}

// NewObject creates an Object sink. client must not be nil.
func NewObject(client ObjectClient, bucket, prefix string) (*Object, error) {
	if client == nil {
		return nil, fmt.Errorf("object sink: client must not be nil")
	}
	return &Object{client: client, bucket: bucket, prefix: prefix}, nil
}

func (o *Object) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryPersist, "object.save", err)
	}
	key := name
	if o.prefix != "" {
		key = o.prefix + "/" + name
	}
	if err := o.client.PutObject(ctx, o.bucket, key, utils.BytesReader(data), sniffMIME(data)); err != nil {
		return apperrors.Transient("object.save", err)
	}
	return nil
}

func sniffMIME(data []byte) string {
	switch utils.DetectFormat(data) {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	}
	return "application/octet-stream"
}
