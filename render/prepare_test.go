package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pkg.lodestone.dev/lodestone/world"
)

func newPrepareWorld(t *testing.T) (*world.World, *RecordingDevice) {
	t.Helper()
	w := world.New()
	device := &RecordingDevice{}
	world.InsertResource(w, RenderDevice{Device: device})
	world.InsertResource(w, ExtractedNodes{})
	world.InsertResource(w, Meta{})
	return w, device
}

func quadNode(image Handle, z float32) ExtractedNode {
	return ExtractedNode{
		Transform: TranslationMat4(0, 0, z),
		Color:     Color{R: 1, A: 1},
		Rect:      Rect{Max: Vec2{X: 10, Y: 10}},
		Image:     image,
	}
}

func TestPrepareSingleImageSingleBatch(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)
	for i := range MaxUniformEntries {
		extracted.Nodes = append(extracted.Nodes, quadNode("atlas", float32(i)))
	}

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Len(t, meta.Batches, 1)
	require.Len(t, meta.Uniforms, 1)
	require.Equal(t, uint32(0), meta.Batches[0].VertexStart)
	require.Equal(t, uint32(MaxUniformEntries*6), meta.Batches[0].VertexEnd)
	require.Equal(t, Handle("atlas"), meta.Batches[0].Image)
}

func TestPrepareUniformOverflowSplitsBatch(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)
	for i := range MaxUniformEntries + 1 {
		extracted.Nodes = append(extracted.Nodes, quadNode("atlas", float32(i)))
	}

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Len(t, meta.Batches, 2)
	require.Equal(t, uint32(MaxUniformEntries*6), meta.Batches[0].VertexEnd)
	require.Equal(t, uint32(MaxUniformEntries*6), meta.Batches[1].VertexStart)
	require.Equal(t, uint32((MaxUniformEntries+1)*6), meta.Batches[1].VertexEnd)
	require.Equal(t, uint32(0), meta.Batches[0].UniformOffset)
	require.Equal(t, uint32(1), meta.Batches[1].UniformOffset)
}

func TestPrepareBatchBreaksOnImageChange(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)
	for i, image := range []Handle{"a", "a", "b", "a"} {
		extracted.Nodes = append(extracted.Nodes, quadNode(image, float32(i)))
	}

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Len(t, meta.Batches, 3)
	require.Equal(t, Handle("a"), meta.Batches[0].Image)
	require.Equal(t, Handle("b"), meta.Batches[1].Image)
	require.Equal(t, Handle("a"), meta.Batches[2].Image)
	require.Equal(t, uint32(12), meta.Batches[0].VertexEnd)
}

func TestPrepareSortsByDepthBeforeBatching(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)
	extracted.Nodes = append(extracted.Nodes, quadNode("far", 5), quadNode("near", 1))

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Len(t, meta.Batches, 2)
	require.Equal(t, Handle("near"), meta.Batches[0].Image)
	require.Equal(t, float32(1), meta.Batches[0].Depth)
	require.Equal(t, Handle("far"), meta.Batches[1].Image)
}

func TestPrepareCullsFullyClippedNodes(t *testing.T) {
	w, device := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)

	node := quadNode(DefaultImage, 0)
	clip := Rect{Min: Vec2{X: 100, Y: 100}, Max: Vec2{X: 110, Y: 110}}
	node.Clip = &clip
	extracted.Nodes = append(extracted.Nodes, node)

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Empty(t, meta.Batches)
	require.Empty(t, meta.Vertices)
	require.Equal(t, 1, device.BufferWrites)
}

func TestPrepareClipShrinksCorners(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)

	// The quad spans [-5, 5] on both axes; the clip cuts away the left half.
	node := quadNode(DefaultImage, 0)
	clip := Rect{Min: Vec2{X: 0, Y: -5}, Max: Vec2{X: 5, Y: 5}}
	node.Clip = &clip
	extracted.Nodes = append(extracted.Nodes, node)

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Len(t, meta.Batches, 1)
	for _, v := range meta.Vertices {
		require.GreaterOrEqual(t, v.Position.X, float32(0))
		require.LessOrEqual(t, v.Position.X, float32(5))
	}
}

func TestPrepareEmptyFrameStillWritesBuffers(t *testing.T) {
	w, device := newPrepareWorld(t)

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	require.Empty(t, meta.Batches)
	require.Equal(t, 1, device.BufferWrites)
}

func TestPrepareEncodesUniformEntries(t *testing.T) {
	w, _ := newPrepareWorld(t)
	extracted := world.MustResource[ExtractedNodes](w)

	node := quadNode(DefaultImage, 0)
	node.Color = Color{R: 1, G: 0, B: 0, A: 1}
	node.BorderColor = packColor(Color{B: 1, A: 1})
	node.BorderWidth = 2
	node.Corners = [4]float32{1, 2, 3, 4}
	extracted.Nodes = append(extracted.Nodes, node)

	require.NoError(t, PrepareNodes(w))

	meta := world.MustResource[Meta](w)
	entry := meta.Uniforms[0].Entries[0]
	require.Equal(t, packColor(Color{R: 1, A: 1}), entry.Color)
	require.Equal(t, Vec2{X: 10, Y: 10}, entry.Size)
	require.Equal(t, float32(2), entry.BorderWidth)
	require.Equal(t, [4]float32{1, 2, 3, 4}, entry.CornerRadius)
	require.Equal(t, Vec2{}, entry.Center)
}
