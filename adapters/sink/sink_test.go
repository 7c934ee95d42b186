package sink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/printforge/imageconv/errors"
)

func TestLocal_SaveAndCleanName(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	data := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	if err := l.Save(context.Background(), "out.jpg", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "out.jpg"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("saved bytes differ")
	}

	// Path traversal in the name must stay inside the root.
	if err := l.Save(context.Background(), "../escape.jpg", data); err != nil {
		t.Fatalf("Save traversal name: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.jpg")); err != nil {
		t.Errorf("traversal name not confined to root: %v", err)
	}
}

func TestMemory_SaveCopiesData(t *testing.T) {
	m := NewMemory()
	data := []byte{1, 2, 3}
	if err := m.Save(context.Background(), "a.png", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data[0] = 99

	got, ok := m.Get("a.png")
	if !ok {
		t.Fatal("a.png not found")
	}
	if got[0] != 1 {
		t.Error("sink shares memory with caller's buffer")
	}
	if names := m.Names(); len(names) != 1 || names[0] != "a.png" {
		t.Errorf("Names = %v", names)
	}
}

type fakeObjectClient struct {
	puts  map[string][]byte
	mimes map[string]string
	fail  bool
}

func (f *fakeObjectClient) PutObject(_ context.Context, bucket, key string, body io.Reader, contentType string) error {
	if f.fail {
		return errors.New("connection reset")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.puts[bucket+"/"+key] = data
	f.mimes[bucket+"/"+key] = contentType
	return nil
}

func TestObject_SaveWithPrefixAndMIME(t *testing.T) {
	client := &fakeObjectClient{puts: map[string][]byte{}, mimes: map[string]string{}}
	o, err := NewObject(client, "prints", "batch-7")
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if err := o.Save(context.Background(), "out.png", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := client.puts["prints/batch-7/out.png"]; !ok {
		t.Fatalf("object not stored under prefixed key; got %v", client.puts)
	}
	if got := client.mimes["prints/batch-7/out.png"]; got != "image/png" {
		t.Errorf("content type = %q, want image/png", got)
	}
}

func TestObject_FailureIsTransient(t *testing.T) {
	client := &fakeObjectClient{puts: map[string][]byte{}, mimes: map[string]string{}, fail: true}
	o, err := NewObject(client, "prints", "")
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	err = o.Save(context.Background(), "out.jpg", []byte{0xFF, 0xD8})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.IsRetryable(err) {
		t.Errorf("object store failure should be retryable, got %v", err)
	}
}
