package app

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

// State is a resource-backed finite-state value with push/pop/replace
// transitions. Transitions are queued by systems and applied by a driver
// system injected into one stage by AddState; state-scoped run criteria
// observe the new value from the next stage entry onward, never mid-stage.
type State[T comparable] struct {
	stack   []T
	pending []stateOp[T]
}

type stateOpKind uint8

const (
	stateSet stateOpKind = iota
	statePush
	statePop
	stateReplace
)

type stateOp[T comparable] struct {
	kind  stateOpKind
	value T
}

// NewState creates a state holding the initial value.
func NewState[T comparable](initial T) *State[T] {
	return &State[T]{stack: []T{initial}}
}

// Current returns the active state value.
func (s *State[T]) Current() T {
	return s.stack[len(s.stack)-1]
}

// Set queues a transition of the top of the stack to value. Transitioning to
// the current value is an error.
func (s *State[T]) Set(value T) error {
	if value == s.Current() {
		return eris.Errorf("already in state %v", value)
	}
	s.pending = append(s.pending, stateOp[T]{kind: stateSet, value: value})
	return nil
}

// Push queues pushing value on top of the current state.
func (s *State[T]) Push(value T) error {
	if value == s.Current() {
		return eris.Errorf("already in state %v", value)
	}
	s.pending = append(s.pending, stateOp[T]{kind: statePush, value: value})
	return nil
}

// Pop queues removing the top of the stack, restoring the state below it.
// Popping the last remaining state is an error.
func (s *State[T]) Pop() error {
	pendingPops := 0
	for _, op := range s.pending {
		if op.kind == statePop {
			pendingPops++
		}
	}
	if len(s.stack)-pendingPops <= 1 {
		return eris.New("cannot pop the last state off the stack")
	}
	s.pending = append(s.pending, stateOp[T]{kind: statePop})
	return nil
}

// Replace queues replacing the whole stack with value.
func (s *State[T]) Replace(value T) {
	s.pending = append(s.pending, stateOp[T]{kind: stateReplace, value: value})
}

// apply drains the pending transitions, in queue order.
func (s *State[T]) apply() {
	for _, op := range s.pending {
		switch op.kind {
		case stateSet:
			s.stack[len(s.stack)-1] = op.value
		case statePush:
			s.stack = append(s.stack, op.value)
		case statePop:
			if len(s.stack) > 1 {
				s.stack = s.stack[:len(s.stack)-1]
			}
		case stateReplace:
			s.stack = append(s.stack[:0], op.value)
		}
	}
	s.pending = s.pending[:0]
}

func stateName[T comparable]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// AddState inserts a State[T] resource holding initial and injects the driver
// system set into the Update stage. Systems gated with OnState observe
// transitions at their stage's next entry.
func AddState[T comparable](a *App, initial T) *App {
	return AddStateToStage(a, StageUpdate, initial)
}

// AddStateToStage is AddState with an explicit driver stage.
func AddStateToStage[T comparable](a *App, label schedule.StageLabel, initial T) *App {
	InsertResource(a, *NewState[T](initial))

	driver := schedule.NewSystemSet().
		WithLabel(schedule.Label(fmt.Sprintf("state_driver[%s]", stateName[T]()))).
		WithSystem(schedule.NewSystem(func(w *world.World) error {
			world.MustResource[State[T]](w).apply()
			return nil
		}).WithName(fmt.Sprintf("drive_state[%s]", stateName[T]())).
			Writes(world.ResourceID[State[T]](a.World)))

	return a.AddSystemSetToStage(label, driver)
}

// OnState returns a run criteria passing only while the current state equals
// value. Evaluated at stage entry.
func OnState[T comparable](value T) schedule.RunCriteria {
	return func(w *world.World) bool {
		state, err := world.Resource[State[T]](w)
		if err != nil {
			return false
		}
		return state.Current() == value
	}
}
