package world_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"pkg.lodestone.dev/lodestone/world"
)

type frameCount struct {
	Value int
}

type derived struct {
	Doubled int
}

func (d *derived) InitFromWorld(w *world.World) error {
	if fc, err := world.Resource[frameCount](w); err == nil {
		d.Doubled = fc.Value * 2
	}
	return nil
}

func TestInsertAndGetResource(t *testing.T) {
	w := world.New()

	world.InsertResource(w, frameCount{Value: 3})

	fc, err := world.Resource[frameCount](w)
	assert.NilError(t, err)
	assert.Equal(t, 3, fc.Value)

	fc.Value = 7
	again := world.MustResource[frameCount](w)
	assert.Equal(t, 7, again.Value)
}

func TestMissingResourceReturnsError(t *testing.T) {
	w := world.New()

	_, err := world.Resource[frameCount](w)
	assert.ErrorIs(t, err, world.ErrResourceNotFound)
}

func TestInitResourceUsesZeroValue(t *testing.T) {
	w := world.New()

	assert.NilError(t, world.InitResource[frameCount](w))
	fc := world.MustResource[frameCount](w)
	assert.Equal(t, 0, fc.Value)
}

func TestInitResourceIsNoopWhenPresent(t *testing.T) {
	w := world.New()

	world.InsertResource(w, frameCount{Value: 42})
	assert.NilError(t, world.InitResource[frameCount](w))
	assert.Equal(t, 42, world.MustResource[frameCount](w).Value)
}

func TestInitResourceConstructsFromWorld(t *testing.T) {
	w := world.New()

	world.InsertResource(w, frameCount{Value: 5})
	assert.NilError(t, world.InitResource[derived](w))
	assert.Equal(t, 10, world.MustResource[derived](w).Doubled)
}

func TestRemoveResource(t *testing.T) {
	w := world.New()

	world.InsertResource(w, frameCount{Value: 1})
	assert.Assert(t, world.HasResource[frameCount](w))

	world.RemoveResource[frameCount](w)
	assert.Assert(t, !world.HasResource[frameCount](w))
}

func TestResourceIDsAreStable(t *testing.T) {
	w := world.New()

	a := world.ResourceID[frameCount](w)
	b := world.ResourceID[derived](w)
	assert.Assert(t, a != b)
	assert.Equal(t, a, world.ResourceID[frameCount](w))
}

func TestClearTrackersAdvancesTick(t *testing.T) {
	w := world.New()

	assert.Equal(t, uint64(0), w.Tick())
	w.ClearTrackers()
	w.ClearTrackers()
	assert.Equal(t, uint64(2), w.Tick())
}
