package world

import (
	"reflect"
	"sync"

	"pkg.lodestone.dev/lodestone/assert"
)

// Registry interns Go types into dense uint32 identifiers. The identifiers
// double as bit positions in system access bitmaps, so they must be small and
// stable for the lifetime of the process. Resources and component types share
// one identifier space.
type Registry struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]uint32
	names []string
}

func newRegistry() *Registry {
	return &Registry{
		ids:   make(map[reflect.Type]uint32),
		names: make([]string, 0),
	}
}

// idOf returns the identifier for t, interning it on first use.
func (r *Registry) idOf(t reflect.Type) uint32 {
	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id
	}
	id = uint32(len(r.names))
	r.ids[t] = id
	r.names = append(r.names, t.String())
	return id
}

// Name returns the type name registered under id.
func (r *Registry) Name(id uint32) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.That(int(id) < len(r.names), "unknown type id %d", id)
	return r.names[id]
}

// Len returns the number of interned types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
