package app

import (
	"fmt"
	"reflect"

	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

// AppExit signals the runner to terminate. Any system can send it; the loop
// runner checks for it after every update.
type AppExit struct{}

// AddEvent sets the app up to manage events of type T: an Events[T] resource
// is initialized and a rotation system is registered into the First stage so
// buffers advance once per tick.
func AddEvent[T any](a *App) *App {
	InitResource[world.Events[T]](a)

	name := fmt.Sprintf("update_events[%s]", reflect.TypeOf((*T)(nil)).Elem().String())
	a.AddSystemToStage(StageFirst, schedule.NewSystem(func(w *world.World) error {
		world.MustResource[world.Events[T]](w).Update()
		return nil
	}).WithName(name).Writes(world.ResourceID[world.Events[T]](a.World)))

	return a
}

// SendEvent queues an event of type T on the app's world. The event queue
// must have been registered with AddEvent.
func SendEvent[T any](a *App, event T) error {
	events, err := world.Resource[world.Events[T]](a.World)
	if err != nil {
		return err
	}
	events.Send(event)
	return nil
}
