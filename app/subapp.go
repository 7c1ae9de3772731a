package app

import (
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// SubAppRunner drives one sub-app tick. It receives the parent's world and
// decides how much of it to pull into the sub-app's own world and how many
// times to run the sub-app's schedule.
type SubAppRunner func(mainWorld *world.World, sub *App) error

// SubApp pairs a nested App with the runner that drives it once per parent
// update.
type SubApp struct {
	App    *App
	runner SubAppRunner
}

// ErrSubAppNotFound is returned by GetSubApp for unknown labels.
var ErrSubAppNotFound = eris.New("sub-app not found")

// AddSubApp registers a nested app under label. Registration order is the
// order sub-apps are driven in.
func (a *App) AddSubApp(label Label, sub *App, runner SubAppRunner) *App {
	if _, exists := a.subApps[label]; !exists {
		a.subAppOrder = append(a.subAppOrder, label)
	}
	a.subApps[label] = &SubApp{App: sub, runner: runner}
	return a
}

// GetSubApp returns the sub-app registered under label, or an error carrying
// the label back when none exists.
func (a *App) GetSubApp(label Label) (*App, error) {
	sub, ok := a.subApps[label]
	if !ok {
		return nil, eris.Wrapf(ErrSubAppNotFound, "sub-app %q", label)
	}
	return sub.App, nil
}

// SubApp returns the sub-app registered under label and panics when none
// exists. Use GetSubApp for the non-fatal variant.
func (a *App) SubApp(label Label) *App {
	sub, err := a.GetSubApp(label)
	mustNot(err)
	return sub
}
