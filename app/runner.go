package app

import (
	"time"

	"pkg.lodestone.dev/lodestone/world"
)

// Runner owns the process lifetime of an App handed to it by App.Run: a
// single update, a fixed-rate loop, or an external event-loop integration.
type Runner interface {
	Run(a *App) error
}

// RunOnce advances the app by exactly one update cycle. It is the default
// runner.
type RunOnce struct{}

func (RunOnce) Run(a *App) error {
	return a.Update()
}

// LoopRunner updates the app every time the tick channel fires, until an
// AppExit event is observed or the channel closes. Tests can pass in their
// own channel for fine-grained control over when updates happen.
type LoopRunner struct {
	ticks <-chan time.Time
}

// NewLoopRunner creates a runner ticking at the given rate in updates per
// second.
func NewLoopRunner(tickRate float64) *LoopRunner {
	interval := time.Duration(float64(time.Second) / tickRate)
	return &LoopRunner{ticks: time.Tick(interval)}
}

// NewChannelRunner creates a runner driven by an external tick channel.
func NewChannelRunner(ticks <-chan time.Time) *LoopRunner {
	return &LoopRunner{ticks: ticks}
}

func (r *LoopRunner) Run(a *App) error {
	var exitReader world.Reader[AppExit]
	for range r.ticks {
		if err := a.Update(); err != nil {
			return err
		}
		events, err := world.Resource[world.Events[AppExit]](a.World)
		if err != nil {
			// Apps built from Empty have no exit event; keep looping until
			// the channel closes.
			continue
		}
		if len(exitReader.Read(events)) > 0 {
			a.log.Info().Msg("app exit requested")
			return nil
		}
	}
	return nil
}
