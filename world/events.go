package world

// Events is a double-buffered queue of values of type T, stored as a world
// resource. Writers append to the current generation; Update rotates the
// buffers once per tick, dropping the oldest generation. An event is therefore
// visible to readers for exactly two ticks: the tick it was sent and the one
// after.
type Events[T any] struct {
	front      []T // current generation
	back       []T // previous generation
	frontStart int
	backStart  int
	count      int
}

// Send appends an event to the current generation.
func (e *Events[T]) Send(event T) {
	e.front = append(e.front, event)
	e.count++
}

// Update rotates the buffers: the previous generation is dropped and the
// current generation becomes the previous one. Wired into the First stage by
// the app layer, once per event type per tick.
func (e *Events[T]) Update() {
	old := e.back
	e.back = e.front
	e.backStart = e.frontStart
	e.front = old[:0]
	e.frontStart = e.count
}

// Len returns the number of events still held in either generation.
func (e *Events[T]) Len() int {
	return len(e.front) + len(e.back)
}

// IsEmpty reports whether both generations are empty.
func (e *Events[T]) IsEmpty() bool {
	return e.Len() == 0
}

// Clear drops all buffered events without advancing reader cursors past
// events that were never observed.
func (e *Events[T]) Clear() {
	e.front = e.front[:0]
	e.back = e.back[:0]
	e.frontStart = e.count
	e.backStart = e.count
}

// Reader is a cursor over an event queue. Each consuming system owns one;
// every event is observed at most once per reader, provided the reader polls
// at least once every two ticks.
type Reader[T any] struct {
	lastCount int
}

// Read returns the events sent since the last call that are still buffered,
// oldest first, and advances the cursor.
func (r *Reader[T]) Read(e *Events[T]) []T {
	var out []T
	for i, event := range e.back {
		if e.backStart+i >= r.lastCount {
			out = append(out, event)
		}
	}
	for i, event := range e.front {
		if e.frontStart+i >= r.lastCount {
			out = append(out, event)
		}
	}
	r.lastCount = e.count
	return out
}
