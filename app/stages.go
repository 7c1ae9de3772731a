package app

import "pkg.lodestone.dev/lodestone/schedule"

// Default stage labels, in execution order. The startup schedule nests its
// own three sub-stages and runs only on the first update.
const (
	StageFirst      schedule.StageLabel = "first"
	StageStartup    schedule.StageLabel = "startup_schedule"
	StagePreUpdate  schedule.StageLabel = "pre_update"
	StageUpdate     schedule.StageLabel = "update"
	StagePostUpdate schedule.StageLabel = "post_update"
	StageLast       schedule.StageLabel = "last"
)

// Startup sub-stage labels inside StageStartup.
const (
	StartupPre  schedule.StageLabel = "pre_startup"
	StartupMain schedule.StageLabel = "startup"
	StartupPost schedule.StageLabel = "post_startup"
)

// addDefaultStages gives the schedule its standard structure. User systems
// with no explicit stage land in StageUpdate; startup systems land in
// StartupMain.
func (a *App) addDefaultStages() {
	parallel := func() *schedule.SystemStage {
		return schedule.NewSystemStage().SetWorkers(a.cfg.Workers)
	}

	startup := schedule.New().WithRunCriteria(schedule.Once())
	mustNot(startup.AddStage(StartupPre, parallel()))
	mustNot(startup.AddStage(StartupMain, parallel()))
	mustNot(startup.AddStage(StartupPost, parallel()))

	mustNot(a.Schedule.AddStage(StageFirst, parallel()))
	mustNot(a.Schedule.AddStage(StageStartup, startup))
	mustNot(a.Schedule.AddStage(StagePreUpdate, parallel()))
	mustNot(a.Schedule.AddStage(StageUpdate, parallel()))
	mustNot(a.Schedule.AddStage(StagePostUpdate, parallel()))
	mustNot(a.Schedule.AddStage(StageLast, parallel()))
}
