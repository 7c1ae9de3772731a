package schedule

import (
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// Stage is the atomic unit of schedule progress: everything in a stage runs
// to completion before the next stage begins.
type Stage interface {
	Run(w *world.World) error
}

// SystemStage is an ordered collection of systems executed with as much
// parallelism as their access sets allow. Within one stage, systems with
// conflicting access never execute concurrently; systems with disjoint access
// may run in any relative order.
type SystemStage struct {
	criteria RunCriteria
	systems  []*Descriptor
	workers  int

	exec  *executor
	dirty bool
}

var _ Stage = (*SystemStage)(nil)

// NewSystemStage creates an empty parallel stage that runs on every tick.
func NewSystemStage() *SystemStage {
	return &SystemStage{}
}

// WithRunCriteria gates the whole stage on a per-tick predicate.
func (s *SystemStage) WithRunCriteria(criteria RunCriteria) *SystemStage {
	s.criteria = Both(s.criteria, criteria)
	return s
}

// SetWorkers caps how many systems may execute concurrently. Zero means no
// cap beyond the dependency structure.
func (s *SystemStage) SetWorkers(n int) *SystemStage {
	s.workers = n
	s.dirty = true
	return s
}

// AddSystem appends a system to the stage. Systems are append-only; the
// dispatch graph is rebuilt lazily on the next run.
func (s *SystemStage) AddSystem(d *Descriptor) *SystemStage {
	s.systems = append(s.systems, d)
	s.dirty = true
	return s
}

// AddSystemSet appends every member of the set with the set's criteria,
// labels, and ordering edges merged in.
func (s *SystemStage) AddSystemSet(set *SystemSet) *SystemStage {
	for _, d := range set.resolve() {
		s.AddSystem(d)
	}
	return s
}

// SystemNames returns the names of the registered systems in registration
// order.
func (s *SystemStage) SystemNames() []string {
	names := make([]string, 0, len(s.systems))
	for _, d := range s.systems {
		names = append(names, d.name)
	}
	return names
}

// Len returns the number of registered systems.
func (s *SystemStage) Len() int {
	return len(s.systems)
}

// Run executes the stage once. Pending one-shot system initializers run
// serially first, then per-system criteria are evaluated (stage entry only),
// then the conflict-aware executor dispatches everything else in parallel
// wavefronts.
func (s *SystemStage) Run(w *world.World) error {
	if s.criteria != nil && !s.criteria(w) {
		return nil
	}

	if s.dirty || s.exec == nil {
		exec, err := newExecutor(s.systems, s.workers)
		if err != nil {
			return eris.Wrap(err, "failed to build stage schedule")
		}
		s.exec = exec
		s.dirty = false
	}

	for _, d := range s.systems {
		if d.initDone {
			continue
		}
		d.initDone = true
		if d.init == nil {
			continue
		}
		if err := d.init(w); err != nil {
			return eris.Wrapf(err, "system %s initialization failed", d.name)
		}
	}

	skip := make([]bool, len(s.systems))
	for i, d := range s.systems {
		if d.criteria != nil && !d.criteria(w) {
			skip[i] = true
		}
	}

	return s.exec.run(w, skip)
}
