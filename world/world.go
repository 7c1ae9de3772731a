// Package world holds the shared mutable store that systems operate on: typed
// singleton resources, archetype-backed component storage, and double-buffered
// event queues. A World is owned by exactly one App (or sub-app) and lives as
// long as it does.
package world

import (
	"sync/atomic"

	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/warehouse"
)

// World is the root store a schedule runs against. Component data lives in a
// warehouse archetype storage; resources are singletons keyed by their
// interned type id. Concurrent access is mediated entirely by the scheduler's
// declared access sets, so none of the accessors lock.
type World struct {
	registry  *Registry
	resources map[uint32]any

	schema  table.Schema
	storage warehouse.Storage

	tick atomic.Uint64
}

// New creates an empty World with a fresh component schema.
func New() *World {
	schema := table.Factory.NewSchema()
	return &World{
		registry:  newRegistry(),
		resources: make(map[uint32]any),
		schema:    schema,
		storage:   warehouse.Factory.NewStorage(schema),
	}
}

// Registry returns the world's type registry.
func (w *World) Registry() *Registry {
	return w.registry
}

// Storage returns the archetype-backed component storage.
func (w *World) Storage() warehouse.Storage {
	return w.storage
}

// Tick returns the number of completed update cycles.
func (w *World) Tick() uint64 {
	return w.tick.Load()
}

// ClearTrackers advances the world's change tick. It runs once per update
// cycle from the Last stage, after every other system has observed the
// current tick's changes.
func (w *World) ClearTrackers() {
	w.tick.Add(1)
}
