package sink

import (
	"context"
	"sync"

	"github.com/printforge/imageconv/utils"
)

// Memory keeps saved buffers in a map, keyed by filename. Useful for tests
// and for callers that hand bytes to another delivery mechanism.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[name]; !exists {
		m.order = append(m.order, name)
	}
	m.files[name] = utils.CloneBytes(data)
	return nil
}

// Get returns the saved bytes for name.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Names returns saved filenames in first-save order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of saved files.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
