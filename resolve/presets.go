package resolve

import (
	"sort"

	"github.com/printforge/imageconv/core"
)

// Built-in target sizes. IDs are stable; downstream naming and settings
// reference them directly.
var builtins = []core.Preset{
	{ID: "print-quality", Width: 4500, Height: 5400, DPI: 300},
	{ID: "high", Width: 3000, Height: 3600, DPI: 300},
	{ID: "standard", Width: 2400, Height: 3000, DPI: 300},
	{ID: "web", Width: 1800, Height: 2400, DPI: 72},
}

// Catalog holds the built-in presets plus any user-defined entries.
// Immutable after construction; safe for concurrent reads.
type Catalog struct {
	presets map[string]core.Preset
}

// DefaultCatalog returns a catalog with only the built-in presets.
func DefaultCatalog() *Catalog { return NewCatalog(nil) }

// NewCatalog merges user presets over the built-ins. A user preset with a
// built-in ID replaces it.
func NewCatalog(user []core.Preset) *Catalog {
	m := make(map[string]core.Preset, len(builtins)+len(user))
	for _, p := range builtins {
		m[p.ID] = p
	}
	for _, p := range user {
		m[p.ID] = p
	}
	return &Catalog{presets: m}
}

// Get looks up a preset by ID.
func (c *Catalog) Get(id string) (core.Preset, bool) {
	p, ok := c.presets[id]
	return p, ok
}

// IDs returns all preset IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.presets))
	for id := range c.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
