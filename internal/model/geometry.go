package model

import (
	"github.com/chewxy/math32"
)

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: [3]float32{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

func computeBounds(vertices []Vertex) Bounds {
	b := emptyBounds()
	for i := range vertices {
		updateBounds(&b, vertices[i].Position)
	}
	return b
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// normalize returns a unit vector, or +Y for a degenerate input.
func normalize(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

// generateNormals sets smooth vertex normals by summing the area-weighted
// normals of every triangle touching the vertex.
func generateNormals(vertices []Vertex, indices []uint32) {
	sums := make([][3]float32, len(vertices))
	forTriangles(vertices, indices, func(i0, i1, i2 uint32) {
		p0 := vertices[i0].Position
		n := cross(sub(vertices[i1].Position, p0), sub(vertices[i2].Position, p0))
		for _, i := range [3]uint32{i0, i1, i2} {
			sums[i][0] += n[0]
			sums[i][1] += n[1]
			sums[i][2] += n[2]
		}
	})
	for i := range vertices {
		vertices[i].Normal = normalize(sums[i])
	}
}

// generateTangents derives a per-vertex tangent frame from UVs for normal mapping.
// Triangles with degenerate UVs contribute nothing; vertices left without a frame
// keep zero tangents and are shaded with the vertex normal.
func generateTangents(vertices []Vertex, indices []uint32) {
	tan := make([][3]float32, len(vertices))
	bit := make([][3]float32, len(vertices))

	forTriangles(vertices, indices, func(i0, i1, i2 uint32) {
		v0, v1, v2 := &vertices[i0], &vertices[i1], &vertices[i2]
		e1, e2 := sub(v1.Position, v0.Position), sub(v2.Position, v0.Position)
		du1, dv1 := v1.TexCoord[0]-v0.TexCoord[0], v1.TexCoord[1]-v0.TexCoord[1]
		du2, dv2 := v2.TexCoord[0]-v0.TexCoord[0], v2.TexCoord[1]-v0.TexCoord[1]

		det := du1*dv2 - du2*dv1
		if math32.Abs(det) < 1e-12 {
			return
		}
		r := 1 / det
		t := [3]float32{(e1[0]*dv2 - e2[0]*dv1) * r, (e1[1]*dv2 - e2[1]*dv1) * r, (e1[2]*dv2 - e2[2]*dv1) * r}
		b := [3]float32{(e2[0]*du1 - e1[0]*du2) * r, (e2[1]*du1 - e1[1]*du2) * r, (e2[2]*du1 - e1[2]*du2) * r}
		for _, i := range [3]uint32{i0, i1, i2} {
			for k := 0; k < 3; k++ {
				tan[i][k] += t[k]
				bit[i][k] += b[k]
			}
		}
	})

	for i := range vertices {
		if tan[i] == ([3]float32{}) || bit[i] == ([3]float32{}) {
			continue
		}
		vertices[i].Tangent = normalize(tan[i])
		vertices[i].Bitangent = normalize(bit[i])
	}
}

// forTriangles calls fn for every in-range triangle of indices.
func forTriangles(vertices []Vertex, indices []uint32, fn func(i0, i1, i2 uint32)) {
	n := uint32(len(vertices))
	for k := 0; k+2 < len(indices); k += 3 {
		i0, i1, i2 := indices[k], indices[k+1], indices[k+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		fn(i0, i1, i2)
	}
}

func sequentialIndices(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
