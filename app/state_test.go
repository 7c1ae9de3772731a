package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pkg.lodestone.dev/lodestone/app"
	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

type phase int

const (
	phaseMenu phase = iota
	phasePlaying
)

func TestStateGatesSystemsAtStageEntry(t *testing.T) {
	a := app.New()
	app.AddState(a, phaseMenu)

	type hits struct {
		Menu, Playing int
	}
	app.InsertResource(a, hits{})
	hitsID := world.ResourceID[hits](a.World)

	a.AddSystemSet(schedule.NewSystemSet().
		WithRunCriteria(app.OnState(phaseMenu)).
		WithSystem(schedule.NewSystem(func(w *world.World) error {
			world.MustResource[hits](w).Menu++
			return nil
		}).WithName("menu_system").Writes(hitsID)))

	a.AddSystemSet(schedule.NewSystemSet().
		WithRunCriteria(app.OnState(phasePlaying)).
		WithSystem(schedule.NewSystem(func(w *world.World) error {
			world.MustResource[hits](w).Playing++
			return nil
		}).WithName("playing_system").Writes(hitsID)))

	// Transition is queued in PreUpdate on the second tick; the Update-stage
	// driver applies it, so playing systems run from tick three onward.
	a.AddSystemToStage(app.StagePreUpdate, schedule.NewSystem(func(w *world.World) error {
		if w.Tick() == 1 {
			return world.MustResource[app.State[phase]](w).Set(phasePlaying)
		}
		return nil
	}).WithName("start_game").Writes(world.ResourceID[app.State[phase]](a.World)))

	for range 4 {
		require.NoError(t, a.Update())
	}

	got := world.MustResource[hits](a.World)
	require.Equal(t, 2, got.Menu)
	require.Equal(t, 2, got.Playing)
	require.Equal(t, phasePlaying, world.MustResource[app.State[phase]](a.World).Current())
}

func TestOnStateWithoutResourceIsClosed(t *testing.T) {
	w := world.New()
	require.False(t, app.OnState(phasePlaying)(w))
}
