package render

import (
	"sort"

	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// MaxUniformEntries is the per-batch uniform block capacity. A run of nodes
// sharing an image still splits into a new batch when the block fills.
const MaxUniformEntries = 256

// quadVertexPositions are the unit quad corners, bottom-left winding.
var quadVertexPositions = [4]Vec3{
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
	{X: 0.5, Y: 0.5},
	{X: -0.5, Y: 0.5},
}

// quadIndices expand the four corners into two triangles.
var quadIndices = [6]int{0, 2, 3, 0, 1, 2}

// Vertex is one entry in the UI vertex buffer.
type Vertex struct {
	Position     Vec3
	UV           Vec2
	UniformIndex uint32
}

// UniformEntry carries one node's shading parameters.
type UniformEntry struct {
	Color        uint32
	Size         Vec2
	Center       Vec2
	BorderColor  uint32
	BorderWidth  float32
	CornerRadius [4]float32
}

// Uniform is one fixed-capacity uniform block shared by a batch.
type Uniform struct {
	Entries [MaxUniformEntries]UniformEntry
}

// Batch is a contiguous vertex range drawn with one image and one uniform
// block.
type Batch struct {
	VertexStart   uint32
	VertexEnd     uint32
	Image         Handle
	UniformOffset uint32
	Depth         float32
}

// Meta owns the frame's GPU-facing buffers and bind groups. Slices are reused
// across frames.
type Meta struct {
	Vertices []Vertex
	Uniforms []Uniform
	Batches  []Batch

	ViewBindGroup    BindGroup
	UniformBindGroup BindGroup
}

// PrepareNodes turns the extracted nodes into vertex and uniform buffers and
// splits them into batches. Nodes are sorted by increasing depth first so
// transparency composes correctly; a batch breaks on an image change or a
// full uniform block.
func PrepareNodes(w *world.World) error {
	meta := world.MustResource[Meta](w)
	extracted := world.MustResource[ExtractedNodes](w)

	meta.Vertices = meta.Vertices[:0]
	meta.Uniforms = meta.Uniforms[:0]
	meta.Batches = meta.Batches[:0]

	sort.SliceStable(extracted.Nodes, func(i, j int) bool {
		return extracted.Nodes[i].Depth() < extracted.Nodes[j].Depth()
	})

	var (
		start, end     uint32
		currentImage   Handle
		lastDepth      float32
		currentUniform Uniform
		uniformIndex   uint32
	)

	flush := func() {
		offset := uint32(len(meta.Uniforms))
		meta.Uniforms = append(meta.Uniforms, currentUniform)
		meta.Batches = append(meta.Batches, Batch{
			VertexStart:   start,
			VertexEnd:     end,
			Image:         currentImage,
			UniformOffset: offset,
			Depth:         lastDepth,
		})
		currentUniform = Uniform{}
		uniformIndex = 0
		start = end
	}

	for _, node := range extracted.Nodes {
		if currentImage != node.Image || uniformIndex >= MaxUniformEntries {
			if start != end {
				flush()
			}
			currentImage = node.Image
		}

		rectSize := node.Rect.Size()

		var positions [4]Vec3
		for i, corner := range quadVertexPositions {
			positions[i] = node.Transform.TransformPoint(Vec3{
				X: corner.X * rectSize.X,
				Y: corner.Y * rectSize.Y,
			})
		}

		// Shrink each corner onto the clip rect per axis. This breaks under
		// rotation, which would need the quad re-tessellated.
		var diff [4]Vec2
		if clip := node.Clip; clip != nil {
			diff = [4]Vec2{
				{X: max(clip.Min.X-positions[0].X, 0), Y: max(clip.Min.Y-positions[0].Y, 0)},
				{X: min(clip.Max.X-positions[1].X, 0), Y: max(clip.Min.Y-positions[1].Y, 0)},
				{X: min(clip.Max.X-positions[2].X, 0), Y: min(clip.Max.Y-positions[2].Y, 0)},
				{X: max(clip.Min.X-positions[3].X, 0), Y: min(clip.Max.Y-positions[3].Y, 0)},
			}
		}

		// Fully clipped on either axis means nothing would be visible.
		if diff[0].X-diff[1].X >= rectSize.X || diff[1].Y-diff[2].Y >= rectSize.Y {
			continue
		}

		var clipped [4]Vec3
		for i := range positions {
			clipped[i] = Vec3{
				X: positions[i].X + diff[i].X,
				Y: positions[i].Y + diff[i].Y,
				Z: positions[i].Z,
			}
		}

		// UVs shrink with the clip; y is flipped in UV space.
		rect := node.Rect
		uvCorners := [4]Vec2{
			{X: rect.Min.X + diff[0].X, Y: rect.Max.Y - diff[0].Y},
			{X: rect.Max.X + diff[1].X, Y: rect.Max.Y - diff[1].Y},
			{X: rect.Max.X + diff[2].X, Y: rect.Min.Y - diff[2].Y},
			{X: rect.Min.X + diff[3].X, Y: rect.Min.Y - diff[3].Y},
		}
		var uvs [4]Vec2
		for i, uv := range uvCorners {
			uvs[i] = Vec2{X: uv.X / rect.Max.X, Y: uv.Y / rect.Max.Y}
		}

		currentUniform.Entries[uniformIndex] = UniformEntry{
			Color: packColor(node.Color),
			Size:  rectSize,
			Center: Vec2{
				X: (positions[0].X + positions[2].X) / 2,
				Y: (positions[0].Y + positions[2].Y) / 2,
			},
			BorderColor:  node.BorderColor,
			BorderWidth:  node.BorderWidth,
			CornerRadius: node.Corners,
		}

		for _, idx := range quadIndices {
			meta.Vertices = append(meta.Vertices, Vertex{
				Position:     clipped[idx],
				UV:           uvs[idx],
				UniformIndex: uniformIndex,
			})
		}

		uniformIndex++
		lastDepth = node.Depth()
		end += uint32(len(quadIndices))
	}

	if start != end {
		flush()
	}

	device := world.MustResource[RenderDevice](w).Device
	if err := device.WriteBuffers(meta.Vertices, meta.Uniforms); err != nil {
		return eris.Wrap(err, "failed to write ui buffers")
	}
	return nil
}
