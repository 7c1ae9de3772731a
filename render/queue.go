package render

import (
	"sort"

	"pkg.lodestone.dev/lodestone/world"
)

// ImageBindGroups caches one bind group per image handle across frames.
// Modified and Removed asset events evict the stale entry so the next queue
// pass rebuilds it.
type ImageBindGroups struct {
	Values map[Handle]BindGroup
}

func (g *ImageBindGroups) InitFromWorld(*world.World) error {
	g.Values = make(map[Handle]BindGroup)
	return nil
}

// PhaseItem references one prepared batch together with its sort key.
type PhaseItem struct {
	SortKey    float32
	BatchIndex int
}

// Phase is the frame's ordered draw list.
type Phase struct {
	Items []PhaseItem
}

// QueueNodes refreshes bind groups and enqueues every prepared batch into the
// transparent phase.
func QueueNodes(w *world.World) error {
	events := world.MustResource[AssetEvents](w)
	groups := world.MustResource[ImageBindGroups](w)

	// A changed image invalidates whatever the cached group referenced.
	for _, event := range events.Images {
		switch event.Kind {
		case AssetModified, AssetRemoved:
			delete(groups.Values, event.Handle)
		}
	}

	device := world.MustResource[RenderDevice](w).Device
	meta := world.MustResource[Meta](w)
	meta.ViewBindGroup = device.CreateBindGroup("ui_view_bind_group", DefaultImage)
	meta.UniformBindGroup = device.CreateBindGroup("ui_uniforms_bind_group", DefaultImage)

	phase := world.MustResource[Phase](w)
	phase.Items = phase.Items[:0]
	for i, batch := range meta.Batches {
		if _, ok := groups.Values[batch.Image]; !ok {
			groups.Values[batch.Image] = device.CreateBindGroup("ui_material_bind_group", batch.Image)
		}
		phase.Items = append(phase.Items, PhaseItem{SortKey: batch.Depth, BatchIndex: i})
	}
	return nil
}

// SortPhase orders the draw list back to front. The sort is stable so equal
// depths keep submission order.
func SortPhase(w *world.World) error {
	phase := world.MustResource[Phase](w)
	sort.SliceStable(phase.Items, func(i, j int) bool {
		return phase.Items[i].SortKey < phase.Items[j].SortKey
	})
	return nil
}
