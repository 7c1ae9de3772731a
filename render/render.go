package render

import (
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// uiPassNode submits the sorted phase to the device. Each phase item becomes
// one draw using the batch's cached bind group.
type uiPassNode struct{}

func (uiPassNode) Run(w *world.World) error {
	meta := world.MustResource[Meta](w)
	phase := world.MustResource[Phase](w)
	groups := world.MustResource[ImageBindGroups](w)
	device := world.MustResource[RenderDevice](w).Device

	batches := make([]DrawBatch, 0, len(phase.Items))
	for _, item := range phase.Items {
		batch := meta.Batches[item.BatchIndex]
		batches = append(batches, DrawBatch{
			VertexStart:   batch.VertexStart,
			VertexEnd:     batch.VertexEnd,
			Image:         batch.Image,
			UniformOffset: batch.UniformOffset,
			SortKey:       item.SortKey,
			BindGroup:     groups.Values[batch.Image],
		})
	}
	if err := device.Submit(batches); err != nil {
		return eris.Wrap(err, "failed to submit ui pass")
	}
	return nil
}

// RunGraph executes the render world's graph. It runs exclusively so graph
// nodes may touch any resource.
func RunGraph(w *world.World) error {
	graph := world.MustResource[Graph](w)
	return graph.Run(w)
}
