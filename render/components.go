package render

import (
	"github.com/TheBitDrifter/warehouse"
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

// Node is the base UI quad component. Size is the quad's extent in logical
// pixels.
type Node struct {
	Size Vec2
}

// Transform positions a node. Translation z orders nodes back to front.
type Transform struct {
	Matrix Mat4
}

// NodeColor tints the node's quad.
type NodeColor struct {
	Value Color
}

// NodeImage textures the node. The zero handle is the plain white default.
type NodeImage struct {
	Handle Handle
}

// Visibility toggles a node in and out of the draw list.
type Visibility struct {
	Visible bool
}

// Clip restricts a node's geometry to a rectangle. Vertices outside are
// shrunk onto its edges; fully clipped nodes are culled.
type Clip struct {
	Rect Rect
}

// Border draws an outline inside the node's bounds.
type Border struct {
	Color Color
	Width float32
}

// CornerRadius rounds the node's corners, ordered top-left, top-right,
// bottom-right, bottom-left.
type CornerRadius struct {
	Radii [4]float32
}

// UIComponents bundles the registered accessors for every UI component. It is
// inserted as a main-world resource so systems share one registration.
type UIComponents struct {
	Node       warehouse.AccessibleComponent[Node]
	Transform  warehouse.AccessibleComponent[Transform]
	Color      warehouse.AccessibleComponent[NodeColor]
	Image      warehouse.AccessibleComponent[NodeImage]
	Visibility warehouse.AccessibleComponent[Visibility]
	Clip       warehouse.AccessibleComponent[Clip]
	Border     warehouse.AccessibleComponent[Border]
	Corners    warehouse.AccessibleComponent[CornerRadius]
}

// NewUIComponents registers the UI component set.
func NewUIComponents() UIComponents {
	return UIComponents{
		Node:       warehouse.FactoryNewComponent[Node](),
		Transform:  warehouse.FactoryNewComponent[Transform](),
		Color:      warehouse.FactoryNewComponent[NodeColor](),
		Image:      warehouse.FactoryNewComponent[NodeImage](),
		Visibility: warehouse.FactoryNewComponent[Visibility](),
		Clip:       warehouse.FactoryNewComponent[Clip](),
		Border:     warehouse.FactoryNewComponent[Border](),
		Corners:    warehouse.FactoryNewComponent[CornerRadius](),
	}
}

// NodeBundle describes one UI node to spawn. Optional pieces are pointers;
// nil leaves the component off the entity.
type NodeBundle struct {
	Size      Vec2
	Transform Mat4
	Color     Color
	Image     Handle
	Visible   bool
	Clip      *Rect
	Border    *Border
	Corners   *[4]float32
}

// Spawn creates a UI node entity in the given world.
func Spawn(w *world.World, b NodeBundle) (warehouse.Entity, error) {
	ui, err := world.Resource[UIComponents](w)
	if err != nil {
		return nil, eris.Wrap(err, "ui components are not registered")
	}

	components := []warehouse.Component{ui.Node, ui.Transform, ui.Color, ui.Image, ui.Visibility}
	if b.Clip != nil {
		components = append(components, ui.Clip)
	}
	if b.Border != nil {
		components = append(components, ui.Border)
	}
	if b.Corners != nil {
		components = append(components, ui.Corners)
	}

	entities, err := w.Storage().NewEntities(1, components...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create ui node entity")
	}
	entity := entities[0]

	*ui.Node.GetFromEntity(entity) = Node{Size: b.Size}
	*ui.Transform.GetFromEntity(entity) = Transform{Matrix: b.Transform}
	*ui.Color.GetFromEntity(entity) = NodeColor{Value: b.Color}
	*ui.Image.GetFromEntity(entity) = NodeImage{Handle: b.Image}
	*ui.Visibility.GetFromEntity(entity) = Visibility{Visible: b.Visible}
	if b.Clip != nil {
		*ui.Clip.GetFromEntity(entity) = Clip{Rect: *b.Clip}
	}
	if b.Border != nil {
		*ui.Border.GetFromEntity(entity) = *b.Border
	}
	if b.Corners != nil {
		*ui.Corners.GetFromEntity(entity) = CornerRadius{Radii: *b.Corners}
	}
	return entity, nil
}
