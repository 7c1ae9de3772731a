package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pkg.lodestone.dev/lodestone/app"
	"pkg.lodestone.dev/lodestone/render"
	"pkg.lodestone.dev/lodestone/world"
)

func newRenderApp(t *testing.T) (*app.App, *render.RecordingDevice) {
	t.Helper()
	a := app.New()
	device := &render.RecordingDevice{}
	a.AddPlugin(render.Plugin{Device: device})
	return a, device
}

func spawnQuad(t *testing.T, a *app.App, b render.NodeBundle) {
	t.Helper()
	_, err := render.Spawn(a.World, b)
	require.NoError(t, err)
}

func TestPipelineSubmitsVisibleNodes(t *testing.T) {
	a, device := newRenderApp(t)

	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 1),
		Color:     render.Color{R: 1, A: 1},
		Visible:   true,
	})
	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 2),
		Visible:   false,
	})

	require.NoError(t, a.Update())

	batches := device.LastSubmission()
	require.Len(t, batches, 1)
	require.Equal(t, uint32(0), batches[0].VertexStart)
	require.Equal(t, uint32(6), batches[0].VertexEnd)
	require.Equal(t, 1, device.BufferWrites)
}

func TestPipelineSkipsUnloadedImages(t *testing.T) {
	a, device := newRenderApp(t)
	images := world.MustResource[render.Images](a.World)
	images.MarkLoading("tex")

	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 1),
		Image:     "tex",
		Visible:   true,
	})

	require.NoError(t, a.Update())
	require.Empty(t, device.LastSubmission())

	images.MarkLoaded("tex")
	require.NoError(t, a.Update())
	batches := device.LastSubmission()
	require.Len(t, batches, 1)
	require.Equal(t, render.Handle("tex"), batches[0].Image)
}

func TestPipelineSubmitsBackToFront(t *testing.T) {
	a, device := newRenderApp(t)
	images := world.MustResource[render.Images](a.World)
	images.MarkLoaded("near")
	images.MarkLoaded("far")

	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 9),
		Image:     "far",
		Visible:   true,
	})
	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 1),
		Image:     "near",
		Visible:   true,
	})

	require.NoError(t, a.Update())

	batches := device.LastSubmission()
	require.Len(t, batches, 2)
	require.Equal(t, render.Handle("near"), batches[0].Image)
	require.Equal(t, render.Handle("far"), batches[1].Image)
	require.LessOrEqual(t, batches[0].SortKey, batches[1].SortKey)
}

func TestAssetEventsInvalidateBindGroups(t *testing.T) {
	a, device := newRenderApp(t)
	images := world.MustResource[render.Images](a.World)
	images.MarkLoaded("tex")

	spawnQuad(t, a, render.NodeBundle{
		Size:      render.Vec2{X: 10, Y: 10},
		Transform: render.TranslationMat4(0, 0, 1),
		Image:     "tex",
		Visible:   true,
	})

	// First frame mints the view, uniform, and material bind groups.
	require.NoError(t, a.Update())
	require.Equal(t, 3, device.BindGroupsCreated)

	// Second frame reuses the cached material group.
	require.NoError(t, a.Update())
	require.Equal(t, 5, device.BindGroupsCreated)

	// A modified asset evicts the cache; the material group is rebuilt.
	require.NoError(t, app.SendEvent(a, render.AssetEvent{Kind: render.AssetModified, Handle: "tex"}))
	require.NoError(t, a.Update())
	require.Equal(t, 8, device.BindGroupsCreated)
}

func TestRenderGraphInstalled(t *testing.T) {
	a, _ := newRenderApp(t)
	sub := a.SubApp(render.SubAppLabel)

	graph := world.MustResource[render.Graph](sub.World)
	_, err := graph.SubGraph(render.DrawUIGraphName)
	require.NoError(t, err)

	raw, err := graph.DumpJSON()
	require.NoError(t, err)
	require.Contains(t, string(raw), render.MainPassDriverNode)
	require.Contains(t, string(raw), render.UIPassDriverNode)
}

func TestMainWorldHandleRemovedBetweenFrames(t *testing.T) {
	a, _ := newRenderApp(t)
	sub := a.SubApp(render.SubAppLabel)

	require.NoError(t, a.Update())
	require.False(t, world.HasResource[render.MainWorld](sub.World))
}
