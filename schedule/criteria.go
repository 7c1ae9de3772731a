package schedule

import "pkg.lodestone.dev/lodestone/world"

// RunCriteria gates whether a stage, system set, or single system executes on
// a given tick. Criteria are evaluated once at stage entry and never
// re-checked mid-stage.
type RunCriteria func(w *world.World) bool

// Always runs the guarded unit on every tick. A nil RunCriteria behaves the
// same way.
func Always(*world.World) bool { return true }

// Once returns a criteria that passes on the first evaluation only. It backs
// the startup schedule's run-once semantics.
func Once() RunCriteria {
	ran := false
	return func(*world.World) bool {
		if ran {
			return false
		}
		ran = true
		return true
	}
}

// Both combines two criteria; nil members count as Always.
func Both(a, b RunCriteria) RunCriteria {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(w *world.World) bool {
		return a(w) && b(w)
	}
}
