package render

// Minimal geometry types for the draw pipeline. The engine treats math as an
// external concern; only what the quad batching needs lives here.

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec2
}

// Size returns the rectangle's extent.
func (r Rect) Size() Vec2 {
	return Vec2{X: r.Max.X - r.Min.X, Y: r.Max.Y - r.Min.Y}
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// packColor encodes a color into one uint32, one byte per channel, to keep
// uniform entries small.
func packColor(c Color) uint32 {
	return uint32(c.R*255) |
		uint32(c.G*255)<<8 |
		uint32(c.B*255)<<16 |
		uint32(c.A*255)<<24
}

// Mat4 is a column-major 4x4 transform matrix.
type Mat4 [16]float32

// IdentityMat4 returns the identity transform.
func IdentityMat4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TranslationMat4 returns a pure translation transform.
func TranslationMat4(x, y, z float32) Mat4 {
	m := IdentityMat4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// TransformPoint applies the matrix to a point (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// Depth returns the transform's translation along z, the draw-order sort key.
func (m Mat4) Depth() float32 {
	return m[14]
}
