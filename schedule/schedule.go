// Package schedule contains the execution engine of the app layer: labeled
// stages assembled into an ordered schedule, systems with declared data
// access grouped into stages, and a conflict-driven dispatcher that extracts
// safe parallelism from those declarations.
package schedule

import (
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// StageLabel identifies a stage inside a schedule. Labels are plain interned
// strings; two labels are the same stage iff they compare equal.
type StageLabel string

// Schedule is an ordered sequence of labeled stages. Running it executes
// every stage in declared order, each to completion. A Schedule is itself a
// Stage, which is how the run-once startup schedule nests inside the main
// one.
type Schedule struct {
	order    []StageLabel
	stages   map[StageLabel]Stage
	criteria RunCriteria
}

var _ Stage = (*Schedule)(nil)

// New creates an empty schedule that runs on every tick.
func New() *Schedule {
	return &Schedule{
		order:  make([]StageLabel, 0),
		stages: make(map[StageLabel]Stage),
	}
}

// WithRunCriteria gates the whole schedule on a per-tick predicate. The
// startup schedule uses Once here.
func (s *Schedule) WithRunCriteria(criteria RunCriteria) *Schedule {
	s.criteria = Both(s.criteria, criteria)
	return s
}

// AddStage appends a stage at the end of the schedule.
func (s *Schedule) AddStage(label StageLabel, stage Stage) error {
	if _, exists := s.stages[label]; exists {
		return eris.Wrapf(ErrDuplicateStage, "stage %q", label)
	}
	s.order = append(s.order, label)
	s.stages[label] = stage
	return nil
}

// AddStageAfter inserts a stage immediately after the stage labeled target.
func (s *Schedule) AddStageAfter(target, label StageLabel, stage Stage) error {
	return s.insertStage(target, label, stage, 1)
}

// AddStageBefore inserts a stage immediately before the stage labeled target.
func (s *Schedule) AddStageBefore(target, label StageLabel, stage Stage) error {
	return s.insertStage(target, label, stage, 0)
}

func (s *Schedule) insertStage(target, label StageLabel, stage Stage, offset int) error {
	if _, exists := s.stages[label]; exists {
		return eris.Wrapf(ErrDuplicateStage, "stage %q", label)
	}

	at := -1
	for i, l := range s.order {
		if l == target {
			at = i + offset
			break
		}
	}
	if at < 0 {
		return eris.Wrapf(ErrStageNotFound, "stage %q", target)
	}

	s.order = append(s.order, "")
	copy(s.order[at+1:], s.order[at:])
	s.order[at] = label
	s.stages[label] = stage
	return nil
}

// Stage returns the stage registered under label.
func (s *Schedule) Stage(label StageLabel) (Stage, error) {
	stage, ok := s.stages[label]
	if !ok {
		return nil, eris.Wrapf(ErrStageNotFound, "stage %q", label)
	}
	return stage, nil
}

// StageLabels returns the labels in execution order.
func (s *Schedule) StageLabels() []StageLabel {
	labels := make([]StageLabel, len(s.order))
	copy(labels, s.order)
	return labels
}

// AddSystemToStage registers a system into the SystemStage under label.
func (s *Schedule) AddSystemToStage(label StageLabel, d *Descriptor) error {
	return EditStage(s, label, func(stage *SystemStage) error {
		stage.AddSystem(d)
		return nil
	})
}

// AddSystemSetToStage registers a system set into the SystemStage under
// label.
func (s *Schedule) AddSystemSetToStage(label StageLabel, set *SystemSet) error {
	return EditStage(s, label, func(stage *SystemStage) error {
		stage.AddSystemSet(set)
		return nil
	})
}

// Run executes every stage in declared order, each to completion.
func (s *Schedule) Run(w *world.World) error {
	if s.criteria != nil && !s.criteria(w) {
		return nil
	}
	for _, label := range s.order {
		if err := s.stages[label].Run(w); err != nil {
			return eris.Wrapf(err, "stage %q failed", label)
		}
	}
	return nil
}

// EditStage looks the stage up by label, downcasts it to the concrete stage
// type T, and applies fn to it. It fails if the label is missing or the stage
// has a different kind.
func EditStage[T Stage](s *Schedule, label StageLabel, fn func(T) error) error {
	stage, err := s.Stage(label)
	if err != nil {
		return err
	}
	typed, ok := stage.(T)
	if !ok {
		return eris.Wrapf(ErrWrongStageKind, "stage %q is %T", label, stage)
	}
	return fn(typed)
}
