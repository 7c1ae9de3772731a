package render

import "sync"

// BindGroup is an opaque handle minted by a Device. The pipeline only stores
// and compares them; the backend decides what they mean.
type BindGroup any

// DrawBatch is one submitted draw: a contiguous vertex range sharing an image
// and a uniform block.
type DrawBatch struct {
	VertexStart   uint32
	VertexEnd     uint32
	Image         Handle
	UniformOffset uint32
	SortKey       float32
	BindGroup     BindGroup
}

// Device is the narrow GPU surface the pipeline needs. Real backends wrap a
// graphics API; tests use RecordingDevice.
type Device interface {
	CreateBindGroup(label string, image Handle) BindGroup
	WriteBuffers(vertices []Vertex, uniforms []Uniform) error
	Submit(batches []DrawBatch) error
}

// RenderDevice holds the active Device as a world resource.
type RenderDevice struct {
	Device Device
}

// NopDevice discards everything. It is the default when a plugin is built
// without a device, keeping headless runs cheap.
type NopDevice struct{}

func (NopDevice) CreateBindGroup(string, Handle) BindGroup { return nil }
func (NopDevice) WriteBuffers([]Vertex, []Uniform) error   { return nil }
func (NopDevice) Submit([]DrawBatch) error                 { return nil }

// RecordingDevice captures every call for inspection.
type RecordingDevice struct {
	mu sync.Mutex

	BindGroupsCreated int
	BufferWrites      int
	Submissions       [][]DrawBatch
}

func (d *RecordingDevice) CreateBindGroup(label string, image Handle) BindGroup {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.BindGroupsCreated++
	return label + ":" + string(image)
}

func (d *RecordingDevice) WriteBuffers(vertices []Vertex, uniforms []Uniform) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.BufferWrites++
	return nil
}

func (d *RecordingDevice) Submit(batches []DrawBatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	recorded := make([]DrawBatch, len(batches))
	copy(recorded, batches)
	d.Submissions = append(d.Submissions, recorded)
	return nil
}

// LastSubmission returns the batches from the most recent Submit, or nil.
func (d *RecordingDevice) LastSubmission() []DrawBatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Submissions) == 0 {
		return nil
	}
	return d.Submissions[len(d.Submissions)-1]
}
