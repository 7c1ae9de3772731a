package render

import "pkg.lodestone.dev/lodestone/world"

// Handle identifies an image asset. The zero value is the untextured
// white-pixel default and is always considered loaded.
type Handle string

// DefaultImage is the built-in 1x1 white image.
const DefaultImage Handle = ""

// ImageState tracks an asset through its load lifecycle.
type ImageState uint8

const (
	ImageLoading ImageState = iota
	ImageLoaded
)

// Images is the main-world image asset registry. Nodes referencing an image
// that is not yet loaded are skipped during extraction.
type Images struct {
	states map[Handle]ImageState
}

func (i *Images) InitFromWorld(*world.World) error {
	i.states = make(map[Handle]ImageState)
	return nil
}

// MarkLoading registers a handle whose data is still in flight.
func (i *Images) MarkLoading(h Handle) {
	i.states[h] = ImageLoading
}

// MarkLoaded flags a handle as ready for rendering.
func (i *Images) MarkLoaded(h Handle) {
	i.states[h] = ImageLoaded
}

// Remove drops a handle from the registry.
func (i *Images) Remove(h Handle) {
	delete(i.states, h)
}

// IsLoaded reports whether the handle can be drawn this frame.
func (i *Images) IsLoaded(h Handle) bool {
	if h == DefaultImage {
		return true
	}
	return i.states[h] == ImageLoaded
}

// AssetEventKind classifies an asset lifecycle event.
type AssetEventKind uint8

const (
	AssetCreated AssetEventKind = iota
	AssetModified
	AssetRemoved
)

// AssetEvent is emitted on the main world whenever an image asset changes.
// Modified and Removed events invalidate cached GPU bind groups.
type AssetEvent struct {
	Kind   AssetEventKind
	Handle Handle
}

// AssetEvents is the render world's per-frame snapshot of main-world asset
// events, refreshed during extraction.
type AssetEvents struct {
	Images []AssetEvent
}
