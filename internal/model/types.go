// Package model loads the carousel glTF model, tags its meshes and extracts bulb anchors.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
)

// ErrModelNotFound means the model file does not exist. The viewer cannot start without it.
var ErrModelNotFound = errors.New("model not found")

// Vertex is one interleaved mesh vertex, matching gfx.LayoutMesh.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoord  [2]float32
	Tangent   [3]float32
	Bitangent [3]float32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Textures are the resolved image paths of a mesh's material. Empty means none.
type Textures struct {
	Diffuse string
	Normal  string
	Height  string
}

// Mesh is one drawable part of the model.
type Mesh struct {
	Index    int
	Name     string // lower-cased
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
	Textures Textures

	Emissive bool // light-bearing, drawn self-lit
	Rider    int  // rider slot bound to this mesh, -1 if none

	// Set by Upload.
	Geometry   gfx.Geometry
	DiffuseTex uint32
	NormalTex  uint32
}

// Positions returns the vertex positions in vertex order.
func (m *Mesh) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.Vertices))
	for i := range m.Vertices {
		out[i] = m.Vertices[i].Position
	}
	return out
}

// Interleave flattens vertices for upload with gfx.LayoutMesh.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*gfx.StrideMesh)
	for _, v := range m.Vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.TexCoord[:]...)
		out = append(out, v.Tangent[:]...)
		out = append(out, v.Bitangent[:]...)
	}
	return out
}

// Model is the loaded carousel. It is immutable once loaded, apart from GPU handles.
type Model struct {
	Path    string
	Meshes  []*Mesh
	Anchors []mgl32.Vec3 // bulb anchors in model space, all light-bearing meshes
}

// Bounds returns the union of all mesh bounds.
func (m *Model) Bounds() Bounds {
	b := emptyBounds()
	for _, mesh := range m.Meshes {
		updateBounds(&b, mesh.Bounds.Min)
		updateBounds(&b, mesh.Bounds.Max)
	}
	return b
}
