package schedule

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pkg.lodestone.dev/lodestone/world"
)

// executor runs a stage's systems concurrently wherever their access sets
// permit. Systems are dispatched in topological wavefronts over the
// dependency DAG: every system starts only after all systems it conflicts
// with (or is explicitly ordered after) have finished.
type executor struct {
	systems []*Descriptor
	tier0   []int
	graph   map[int][]int // system -> systems that depend on it
	workers int

	// indegree0 and indegree1 are double-buffered counters tracking each
	// system's remaining dependencies. They alternate between runs so the
	// next run's counts are rebuilt for free while the current one drains.
	activeIndegree uint8
	indegree0      []atomic.Int32
	indegree1      []atomic.Int32
}

// newExecutor validates the ordering constraints and prepares the dispatch
// structures. A cyclic constraint set fails here, at first run.
func newExecutor(systems []*Descriptor, workers int) (*executor, error) {
	graph, indegree, err := buildGraph(systems)
	if err != nil {
		return nil, err
	}

	e := &executor{
		systems: systems,
		tier0:   firstTier(indegree),
		graph:   graph,
		workers: workers,
	}
	e.indegree0 = make([]atomic.Int32, len(systems))
	e.indegree1 = make([]atomic.Int32, len(systems))
	for i, deg := range indegree {
		e.indegree0[i].Store(int32(deg))
	}
	return e, nil
}

// run executes every system once. Systems flagged in skip still flow through
// the queue so their dependents get released, but their function is not
// called. If multiple systems fail, the first failure is reported.
func (e *executor) run(w *world.World, skip []bool) error {
	if len(e.systems) == 0 {
		return nil
	}

	executionQueue := make(chan int, len(e.systems))
	defer close(executionQueue)

	currentIndegree, nextIndegree := e.swapIndegrees()

	g := new(errgroup.Group)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for _, id := range e.tier0 {
		executionQueue <- id
	}

	// Receive exactly one queue entry per system so every system is
	// dispatched even when another one fails; bailing early would leave
	// dependents unscheduled and this loop blocked.
	for range e.systems {
		id := <-executionQueue
		g.Go(func() error {
			var err error
			if !skip[id] {
				log.Trace().Str("system", e.systems[id].name).Msg("running system")
				if err = e.systems[id].fn(w); err != nil {
					err = eris.Wrapf(err, "system %s failed", e.systems[id].name)
				}
			}

			for _, dependent := range e.graph[id] {
				remaining := currentIndegree[dependent].Add(-1)
				nextIndegree[dependent].Add(1)
				if remaining == 0 {
					executionQueue <- dependent
				}
			}

			return err
		})
	}

	return g.Wait()
}

// swapIndegrees returns the current and next indegree buffers and toggles the
// active one.
func (e *executor) swapIndegrees() ([]atomic.Int32, []atomic.Int32) {
	isFirst := e.activeIndegree == 0
	e.activeIndegree = 1 - e.activeIndegree
	if isFirst {
		return e.indegree0, e.indegree1
	}
	return e.indegree1, e.indegree0
}
