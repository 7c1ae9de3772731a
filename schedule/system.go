package schedule

import (
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/kelindar/bitmap"

	"pkg.lodestone.dev/lodestone/world"
)

// SystemFn is a unit of per-tick logic run against a world. It is a
// synchronous, run-to-completion call; the scheduler never suspends it.
type SystemFn func(w *world.World) error

// Label tags a system so that other systems can order themselves relative to
// it. One label may be shared by several systems.
type Label string

// Descriptor couples a system function with its declared data access, its
// ordering constraints, and an optional run criteria. Descriptors are
// append-only once added to a stage.
type Descriptor struct {
	name      string
	fn        SystemFn
	reads     bitmap.Bitmap
	writes    bitmap.Bitmap
	exclusive bool

	labels []Label
	before []Label
	after  []Label

	criteria RunCriteria

	// init runs once, serially, before the system's first execution. It is
	// where a system ensures the resources it reads actually exist.
	init     SystemFn
	initDone bool
}

// NewSystem creates a descriptor for a parallel system. The name is derived
// from the function symbol, the same way the engine names systems in logs;
// override it with WithName for closures.
func NewSystem(fn SystemFn) *Descriptor {
	return &Descriptor{
		name: funcName(fn),
		fn:   fn,
	}
}

// NewExclusiveSystem creates a descriptor for a system that requires the
// whole world to itself. The scheduler treats it as writing every type, so it
// conflicts with everything and runs alone.
func NewExclusiveSystem(fn SystemFn) *Descriptor {
	d := NewSystem(fn)
	d.exclusive = true
	return d
}

func funcName(fn SystemFn) string {
	return filepath.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
}

// WithName overrides the derived system name.
func (d *Descriptor) WithName(name string) *Descriptor {
	d.name = name
	return d
}

// Name returns the system's name as it appears in logs and errors.
func (d *Descriptor) Name() string {
	return d.name
}

// Reads declares shared read access to the given type ids.
func (d *Descriptor) Reads(ids ...uint32) *Descriptor {
	for _, id := range ids {
		d.reads.Set(id)
	}
	return d
}

// Writes declares exclusive write access to the given type ids.
func (d *Descriptor) Writes(ids ...uint32) *Descriptor {
	for _, id := range ids {
		d.writes.Set(id)
	}
	return d
}

// WithLabel attaches a label other systems can order against.
func (d *Descriptor) WithLabel(label Label) *Descriptor {
	d.labels = append(d.labels, label)
	return d
}

// Before constrains this system to run before every system carrying label.
func (d *Descriptor) Before(label Label) *Descriptor {
	d.before = append(d.before, label)
	return d
}

// After constrains this system to run after every system carrying label.
func (d *Descriptor) After(label Label) *Descriptor {
	d.after = append(d.after, label)
	return d
}

// WithRunCriteria gates the system on a per-tick predicate, evaluated at
// stage entry.
func (d *Descriptor) WithRunCriteria(criteria RunCriteria) *Descriptor {
	d.criteria = Both(d.criteria, criteria)
	return d
}

// WithInit registers a one-shot initialization step that runs serially before
// the system's first execution.
func (d *Descriptor) WithInit(fn SystemFn) *Descriptor {
	d.init = fn
	return d
}

// conflictsWith reports whether two systems can never run concurrently:
// either writes a type the other reads or writes. Exclusive systems conflict
// with everything.
func (d *Descriptor) conflictsWith(other *Descriptor) bool {
	if d.exclusive || other.exclusive {
		return true
	}
	return overlaps(d.writes, other.reads) ||
		overlaps(d.writes, other.writes) ||
		overlaps(other.writes, d.reads)
}

func overlaps(a, b bitmap.Bitmap) bool {
	found := false
	a.Range(func(x uint32) {
		if b.Contains(x) {
			found = true
		}
	})
	return found
}
