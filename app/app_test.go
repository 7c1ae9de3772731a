package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pkg.lodestone.dev/lodestone/app"
	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

type tally struct {
	Startup int
	Update  int
}

func TestDefaultStageOrder(t *testing.T) {
	a := app.New()

	require.Equal(t, []schedule.StageLabel{
		app.StageFirst,
		app.StageStartup,
		app.StagePreUpdate,
		app.StageUpdate,
		app.StagePostUpdate,
		app.StageLast,
	}, a.Schedule.StageLabels())
}

func TestStartupSystemsRunExactlyOnce(t *testing.T) {
	a := app.New()
	app.InsertResource(a, tally{})
	tallyID := world.ResourceID[tally](a.World)

	a.AddStartupSystem(schedule.NewSystem(func(w *world.World) error {
		world.MustResource[tally](w).Startup++
		return nil
	}).WithName("startup_tally").Writes(tallyID))

	a.AddSystem(schedule.NewSystem(func(w *world.World) error {
		world.MustResource[tally](w).Update++
		return nil
	}).WithName("update_tally").Writes(tallyID))

	for range 5 {
		require.NoError(t, a.Update())
	}

	got := world.MustResource[tally](a.World)
	require.Equal(t, 1, got.Startup)
	require.Equal(t, 5, got.Update)
}

func TestStartupSubStagesRunInOrder(t *testing.T) {
	a := app.New()

	var order []string
	record := func(name string) *schedule.Descriptor {
		return schedule.NewExclusiveSystem(func(*world.World) error {
			order = append(order, name)
			return nil
		}).WithName(name)
	}

	a.AddStartupSystemToStage(app.StartupPost, record("post"))
	a.AddStartupSystemToStage(app.StartupPre, record("pre"))
	a.AddStartupSystem(record("main"))

	require.NoError(t, a.Update())
	require.Equal(t, []string{"pre", "main", "post"}, order)
}

func TestAddStageMissingAnchorPanics(t *testing.T) {
	a := app.New()

	require.Panics(t, func() {
		a.AddStageAfter("no_such_stage", "late", schedule.NewSystemStage())
	})
}

func TestCustomStagePlacement(t *testing.T) {
	a := app.New()

	a.AddStageAfter(app.StageUpdate, "late_update", schedule.NewSystemStage())
	a.AddStageBefore(app.StageFirst, "very_first", schedule.NewSystemStage())

	require.Equal(t, []schedule.StageLabel{
		"very_first",
		app.StageFirst,
		app.StageStartup,
		app.StagePreUpdate,
		app.StageUpdate,
		"late_update",
		app.StagePostUpdate,
		app.StageLast,
	}, a.Schedule.StageLabels())
}

func TestSubAppLookup(t *testing.T) {
	a := app.New()
	sub := app.Empty()

	a.AddSubApp("render", sub, func(*world.World, *app.App) error { return nil })

	got, err := a.GetSubApp("render")
	require.NoError(t, err)
	require.Same(t, sub, got)

	_, err = a.GetSubApp("audio")
	require.ErrorIs(t, err, app.ErrSubAppNotFound)
	require.ErrorContains(t, err, "audio")

	require.Panics(t, func() { a.SubApp("audio") })
}

func TestSubAppsDrivenOncePerUpdateInOrder(t *testing.T) {
	a := app.New()

	var order []string
	a.AddSubApp("render", app.Empty(), func(mainWorld *world.World, sub *app.App) error {
		require.Same(t, a.World, mainWorld)
		order = append(order, "render")
		return sub.Update()
	})
	a.AddSubApp("audio", app.Empty(), func(_ *world.World, sub *app.App) error {
		order = append(order, "audio")
		return sub.Update()
	})

	require.NoError(t, a.Update())
	require.NoError(t, a.Update())
	require.Equal(t, []string{"render", "audio", "render", "audio"}, order)
}

type countingRunner struct {
	updates int
}

func (r *countingRunner) Run(a *app.App) error {
	for range 3 {
		if err := a.Update(); err != nil {
			return err
		}
		r.updates++
	}
	return nil
}

func TestRunMovesAppIntoRunner(t *testing.T) {
	a := app.New()
	originalWorld := a.World

	runner := &countingRunner{}
	a.SetRunner(runner)

	require.NoError(t, a.Run())
	require.Equal(t, 3, runner.updates)

	// The receiver was reset to an empty app; the configured one is gone.
	require.NotSame(t, originalWorld, a.World)
}

func TestEventsVisibleForTwoUpdates(t *testing.T) {
	type ping struct{}

	a := app.New()
	app.AddEvent[ping](a)

	require.NoError(t, a.Update())
	require.NoError(t, app.SendEvent(a, ping{}))

	events := world.MustResource[world.Events[ping]](a.World)

	// Tick T: observable.
	require.Len(t, (&world.Reader[ping]{}).Read(events), 1)

	// Tick T+1: still observable by a fresh reader.
	require.NoError(t, a.Update())
	require.Len(t, (&world.Reader[ping]{}).Read(events), 1)

	// Tick T+2: rotated out.
	require.NoError(t, a.Update())
	require.Empty(t, (&world.Reader[ping]{}).Read(events))
}

func TestClearTrackersAdvancesWorldTick(t *testing.T) {
	a := app.New()

	require.NoError(t, a.Update())
	require.NoError(t, a.Update())
	require.Equal(t, uint64(2), a.World.Tick())
}
