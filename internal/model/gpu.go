package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/engine/gfx"
	"github.com/Faultbox/carousel-viewer/internal/engine/texture"
	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// Uploader creates GPU geometry for a mesh.
type Uploader interface {
	Upload(vertices []float32, layout []int32, indices []uint32) gfx.Geometry
	Release(g gfx.Geometry)
}

// TextureLoader loads a 2D texture from a file.
type TextureLoader func(path string, opts texture.Options) (uint32, error)

// Upload sends every mesh to the GPU and loads its textures. Textures shared between
// meshes are loaded once. A texture that fails to load is logged and left as 0.
func (m *Model) Upload(up Uploader, load TextureLoader, maxTexture int) {
	cache := make(map[string]uint32)
	opts := texture.ModelOptions(maxTexture)

	get := func(mesh *Mesh, path, kind string) uint32 {
		if path == "" {
			return 0
		}
		if tex, ok := cache[path]; ok {
			return tex
		}
		tex, err := load(path, opts)
		if err != nil {
			logger.Warn("texture not loaded",
				zap.String("mesh", mesh.Name),
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
		cache[path] = tex
		return tex
	}

	for _, mesh := range m.Meshes {
		mesh.Geometry = up.Upload(mesh.Interleave(), gfx.LayoutMesh, mesh.Indices)
		mesh.DiffuseTex = get(mesh, mesh.Textures.Diffuse, "diffuse")
		mesh.NormalTex = get(mesh, mesh.Textures.Normal, "normal")
		if mesh.NormalTex == 0 {
			mesh.NormalTex = get(mesh, mesh.Textures.Height, "height")
		}
	}
}

// TextureHandles returns the distinct non-zero texture handles in use.
func (m *Model) TextureHandles() []uint32 {
	seen := make(map[uint32]bool)
	var out []uint32
	for _, mesh := range m.Meshes {
		for _, tex := range [2]uint32{mesh.DiffuseTex, mesh.NormalTex} {
			if tex != 0 && !seen[tex] {
				seen[tex] = true
				out = append(out, tex)
			}
		}
	}
	return out
}

// Release frees the mesh geometry and hands the textures to deleteTextures.
func (m *Model) Release(up Uploader, deleteTextures func(...uint32)) {
	if deleteTextures != nil {
		deleteTextures(m.TextureHandles()...)
	}
	for _, mesh := range m.Meshes {
		up.Release(mesh.Geometry)
		mesh.Geometry = gfx.Geometry{}
		mesh.DiffuseTex, mesh.NormalTex = 0, 0
	}
}
