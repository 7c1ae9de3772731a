// Package app assembles worlds, schedules, and systems into a runnable
// application. An App owns one World and one Schedule, drives any number of
// labeled sub-apps once per update cycle, and hands process lifetime to a
// pluggable Runner.
package app

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

// Label identifies a sub-app within its parent.
type Label string

// App bundles a World with the Schedule that runs against it. Apps are
// assembled with the builder-style methods below, then either driven manually
// with Update or handed to a Runner with Run.
type App struct {
	World    *world.World
	Schedule *schedule.Schedule

	runner      Runner
	subAppOrder []Label
	subApps     map[Label]*SubApp

	cfg Config
	log zerolog.Logger
}

// Empty creates a minimal App: one fresh world, one empty schedule, a
// run-once runner, and no sub-apps. Use it for sub-apps or when providing a
// fully custom stage layout.
func Empty() *App {
	return &App{
		World:    world.New(),
		Schedule: schedule.New(),
		runner:   RunOnce{},
		subApps:  make(map[Label]*SubApp),
		log:      log.Logger,
	}
}

// New creates an App with the default stage structure, the AppExit event, and
// per-tick change-tracker clearing wired into the Last stage. This is the
// constructor most callers want.
func New(opts ...Option) *App {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load app config")
	}

	a := Empty()
	a.cfg = cfg
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.cfg.logger()

	a.addDefaultStages()
	AddEvent[AppExit](a)
	a.AddSystemToStage(StageLast, schedule.NewExclusiveSystem(func(w *world.World) error {
		w.ClearTrackers()
		return nil
	}).WithName("clear_trackers"))

	return a
}

// Config returns the app's loaded configuration.
func (a *App) Config() Config {
	return a.cfg
}

// Logger returns the app's logger.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

// Update advances the app by one cycle: the main schedule runs to completion,
// then each sub-app's runner is invoked with the main world, in registration
// order. Nothing overlaps; a sub-app tick never races the main schedule.
func (a *App) Update() error {
	if err := a.Schedule.Run(a.World); err != nil {
		return err
	}
	for _, label := range a.subAppOrder {
		sub := a.subApps[label]
		if err := sub.runner(a.World, sub.App); err != nil {
			return err
		}
	}
	return nil
}

// Run finalizes the app's configuration and hands it to the configured
// runner, which owns the rest of the process lifetime. The receiver is reset
// to an empty app: after Run returns, the original configuration is gone.
func (a *App) Run() error {
	moved := *a
	*a = *Empty()
	runner := moved.runner
	moved.runner = RunOnce{}
	return runner.Run(&moved)
}

// SetRunner replaces the strategy invoked by Run. The default runs a single
// update.
func (a *App) SetRunner(r Runner) *App {
	a.runner = r
	return a
}

// mustNot aborts on configuration errors. The builder-style App methods are
// convenience accessors and treat a bad label or stage kind as fatal; the
// Schedule-level methods return the error instead.
func mustNot(err error) {
	if err != nil {
		panic(err)
	}
}

// AddStage appends a stage at the end of the main schedule.
func (a *App) AddStage(label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.Schedule.AddStage(label, stage))
	return a
}

// AddStageAfter inserts a stage immediately after target.
func (a *App) AddStageAfter(target, label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.Schedule.AddStageAfter(target, label, stage))
	return a
}

// AddStageBefore inserts a stage immediately before target.
func (a *App) AddStageBefore(target, label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.Schedule.AddStageBefore(target, label, stage))
	return a
}

// AddSystem registers a system into the Update stage.
func (a *App) AddSystem(d *schedule.Descriptor) *App {
	return a.AddSystemToStage(StageUpdate, d)
}

// AddSystemToStage registers a system into the stage under label.
func (a *App) AddSystemToStage(label schedule.StageLabel, d *schedule.Descriptor) *App {
	mustNot(a.Schedule.AddSystemToStage(label, d))
	return a
}

// AddSystemSet registers a system set into the Update stage.
func (a *App) AddSystemSet(set *schedule.SystemSet) *App {
	return a.AddSystemSetToStage(StageUpdate, set)
}

// AddSystemSetToStage registers a system set into the stage under label.
func (a *App) AddSystemSetToStage(label schedule.StageLabel, set *schedule.SystemSet) *App {
	mustNot(a.Schedule.AddSystemSetToStage(label, set))
	return a
}

// startupSchedule returns the nested run-once schedule.
func (a *App) startupSchedule() *schedule.Schedule {
	stage, err := a.Schedule.Stage(StageStartup)
	mustNot(err)
	nested, ok := stage.(*schedule.Schedule)
	if !ok {
		mustNot(schedule.ErrWrongStageKind)
	}
	return nested
}

// AddStartupStage appends a stage at the end of the startup schedule.
func (a *App) AddStartupStage(label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.startupSchedule().AddStage(label, stage))
	return a
}

// AddStartupStageAfter inserts a startup stage immediately after target.
// The target must name a stage inside the startup schedule.
func (a *App) AddStartupStageAfter(target, label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.startupSchedule().AddStageAfter(target, label, stage))
	return a
}

// AddStartupStageBefore inserts a startup stage immediately before target.
func (a *App) AddStartupStageBefore(target, label schedule.StageLabel, stage schedule.Stage) *App {
	mustNot(a.startupSchedule().AddStageBefore(target, label, stage))
	return a
}

// AddStartupSystem registers a run-once system into the main startup stage.
func (a *App) AddStartupSystem(d *schedule.Descriptor) *App {
	return a.AddStartupSystemToStage(StartupMain, d)
}

// AddStartupSystemToStage registers a run-once system into the startup stage
// under label.
func (a *App) AddStartupSystemToStage(label schedule.StageLabel, d *schedule.Descriptor) *App {
	mustNot(a.startupSchedule().AddSystemToStage(label, d))
	return a
}

// AddStartupSystemSetToStage registers a system set into the startup stage
// under label.
func (a *App) AddStartupSystemSetToStage(label schedule.StageLabel, set *schedule.SystemSet) *App {
	mustNot(a.startupSchedule().AddSystemSetToStage(label, set))
	return a
}

// InsertResource stores value as a singleton resource in the app's world,
// overwriting any previous value of the same type.
func InsertResource[T any](a *App, value T) *App {
	world.InsertResource(a.World, value)
	return a
}

// InitResource ensures a resource of type T exists in the app's world.
func InitResource[T any](a *App) *App {
	mustNot(world.InitResource[T](a.World))
	return a
}
