package render

import (
	"github.com/TheBitDrifter/warehouse"
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// MainWorld lends the main app's world to the render world for the duration
// of one extract pass. The sub-app runner inserts it before Update and
// removes it after, so render systems outside Extract cannot touch it.
type MainWorld struct {
	World *world.World
}

// ExtractedNode is a render-world copy of one visible UI node. Everything the
// rest of the pipeline needs is flattened here so later stages never reach
// back into the main world.
type ExtractedNode struct {
	Transform   Mat4
	Color       Color
	Rect        Rect
	Image       Handle
	Clip        *Rect
	BorderColor uint32
	BorderWidth float32
	Corners     [4]float32
}

// Depth is the back-to-front sort key.
func (n ExtractedNode) Depth() float32 {
	return n.Transform.Depth()
}

// ExtractedNodes collects the frame's nodes. The slice is reused across
// frames.
type ExtractedNodes struct {
	Nodes []ExtractedNode
}

// ExtractNodes copies every visible UI node with a loaded image out of the
// main world. Invisible nodes and nodes waiting on asset loads are skipped.
func ExtractNodes(w *world.World) error {
	main := world.MustResource[MainWorld](w).World
	extracted := world.MustResource[ExtractedNodes](w)
	extracted.Nodes = extracted.Nodes[:0]

	ui, err := world.Resource[UIComponents](main)
	if err != nil {
		// The main app never registered UI; nothing to draw.
		return nil
	}
	images, err := world.Resource[Images](main)
	if err != nil {
		return eris.Wrap(err, "image registry missing from main world")
	}

	query := warehouse.Factory.NewQuery()
	node := query.And(ui.Node, ui.Transform, ui.Color, ui.Image, ui.Visibility)
	cursor := warehouse.Factory.NewCursor(node, main.Storage())

	for cursor.OldNext() {
		if !ui.Visibility.GetFromCursor(cursor).Visible {
			continue
		}
		image := ui.Image.GetFromCursor(cursor).Handle
		if !images.IsLoaded(image) {
			continue
		}

		en := ExtractedNode{
			Transform: ui.Transform.GetFromCursor(cursor).Matrix,
			Color:     ui.Color.GetFromCursor(cursor).Value,
			Rect:      Rect{Max: ui.Node.GetFromCursor(cursor).Size},
			Image:     image,
		}
		if ui.Clip.CheckCursor(cursor) {
			clip := ui.Clip.GetFromCursor(cursor).Rect
			en.Clip = &clip
		}
		if ui.Border.CheckCursor(cursor) {
			border := ui.Border.GetFromCursor(cursor)
			en.BorderColor = packColor(border.Color)
			en.BorderWidth = border.Width
		}
		if ui.Corners.CheckCursor(cursor) {
			en.Corners = ui.Corners.GetFromCursor(cursor).Radii
		}
		extracted.Nodes = append(extracted.Nodes, en)
	}
	return nil
}

// assetEventCursor keeps a persistent read position into the main world's
// asset event stream across frames.
type assetEventCursor struct {
	reader world.Reader[AssetEvent]
}

// ExtractAssetEvents snapshots new main-world asset events into the render
// world so queueing can invalidate stale bind groups.
func ExtractAssetEvents(w *world.World) error {
	main := world.MustResource[MainWorld](w).World
	snapshot := world.MustResource[AssetEvents](w)
	snapshot.Images = snapshot.Images[:0]

	events, err := world.Resource[world.Events[AssetEvent]](main)
	if err != nil {
		return nil
	}
	cursor := world.MustResource[assetEventCursor](w)
	snapshot.Images = append(snapshot.Images, cursor.reader.Read(events)...)
	return nil
}
