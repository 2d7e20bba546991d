package gfx

// Vertex layouts, in floats per vertex.
const (
	StrideTextured = 5  // position, uv
	StrideCube     = 3  // position
	StrideMesh     = 14 // position, normal, uv, tangent, bitangent
)

// Attribute component counts matching the strides above.
var (
	LayoutTextured = []int32{3, 2}
	LayoutCube     = []int32{3}
	LayoutMesh     = []int32{3, 3, 2, 3, 3}
)

// QuadIndices draws a four-vertex quad as two triangles.
var QuadIndices = []uint32{0, 1, 2, 2, 3, 0}

// GroundQuad returns a flat square of half-size extent on the y=0 plane
// whose UVs tile the texture repeat times.
func GroundQuad(extent, repeat float32) []float32 {
	return []float32{
		-extent, 0, -extent, 0, 0,
		extent, 0, -extent, repeat, 0,
		extent, 0, extent, repeat, repeat,
		-extent, 0, extent, 0, repeat,
	}
}

// GlowQuad returns a unit-half-size square on the y=0 plane with UVs over [0,1].
func GlowQuad() []float32 {
	return GroundQuad(1, 1)
}

// SkyboxCube returns the 36 vertices of a cube spanning [-1,1], wound to be seen from inside.
func SkyboxCube() []float32 {
	return []float32{
		-1, 1, -1, -1, -1, -1, 1, -1, -1,
		1, -1, -1, 1, 1, -1, -1, 1, -1,

		-1, -1, 1, -1, -1, -1, -1, 1, -1,
		-1, 1, -1, -1, 1, 1, -1, -1, 1,

		1, -1, -1, 1, -1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, -1, 1, -1, -1,

		-1, -1, 1, -1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, -1, 1, -1, -1, 1,

		-1, 1, -1, 1, 1, -1, 1, 1, 1,
		1, 1, 1, -1, 1, 1, -1, 1, -1,

		-1, -1, -1, -1, -1, 1, 1, -1, -1,
		1, -1, -1, -1, -1, 1, 1, -1, 1,
	}
}
