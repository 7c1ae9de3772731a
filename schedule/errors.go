package schedule

import "github.com/rotisserie/eris"

var (
	// ErrStageNotFound is returned when a stage label is looked up in a
	// schedule that does not contain it.
	ErrStageNotFound = eris.New("stage not found")

	// ErrWrongStageKind is returned when a stage exists under the requested
	// label but has a different concrete type than the caller expected.
	ErrWrongStageKind = eris.New("stage has unexpected kind")

	// ErrDuplicateStage is returned when a stage label is added twice to the
	// same schedule.
	ErrDuplicateStage = eris.New("stage already exists")

	// ErrCyclicOrdering is returned when explicit before/after constraints
	// form a cycle. The wrapping error names the systems on the cycle.
	ErrCyclicOrdering = eris.New("cyclic system ordering")
)
