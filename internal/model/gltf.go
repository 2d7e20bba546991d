package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// heightExtra is the material extras key naming a height map, used when no normal map is set.
const heightExtra = "heightTexture"

// LoadOptions configures Load.
type LoadOptions struct {
	Lights LightOptions
	// RiderMeshes maps rider slot to the flattened mesh index it rides on.
	RiderMeshes []int
	// TextureDir overrides the texture directory. Defaults to <model dir>/../textures.
	TextureDir string
}

// DefaultLoadOptions returns options for the stock carousel model.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Lights:      DefaultLightOptions(),
		RiderMeshes: []int{0, 1},
	}
}

// Load reads a glTF model. Every triangle primitive becomes one mesh, in document order.
// Missing normals are generated and tangents are derived from UVs.
func Load(file string, opts LoadOptions) (*Model, error) {
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, file)
		}
		return nil, fmt.Errorf("stat model: %w", err)
	}

	doc, err := gltf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open gltf %s: %w", file, err)
	}

	textureDir := opts.TextureDir
	if textureDir == "" {
		textureDir = filepath.Join(filepath.Dir(file), "..", "textures")
	}

	m := &Model{Path: file}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Warn("skipping non-triangle primitive",
					zap.String("mesh", gm.Name),
					zap.Int("primitive", pi),
					zap.Uint8("mode", uint8(prim.Mode)),
				)
				continue
			}

			mesh, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d (%s) primitive %d: %w", mi, gm.Name, pi, err)
			}
			mesh.Index = len(m.Meshes)
			mesh.Name = strings.ToLower(gm.Name)
			mesh.Rider = -1
			mesh.Textures = resolveTextures(doc, prim, textureDir)
			mesh.Emissive = opts.Lights.Matches(mesh.Name)

			logger.Debug("mesh",
				zap.Int("index", mesh.Index),
				zap.String("name", mesh.Name),
				zap.Int("vertices", len(mesh.Vertices)),
				zap.Int("indices", len(mesh.Indices)),
			)

			if mesh.Emissive {
				m.Anchors = append(m.Anchors, ExtractAnchors(mesh.Name, mesh.Positions(), opts.Lights)...)
			}
			m.Meshes = append(m.Meshes, mesh)
		}
	}

	for slot, idx := range opts.RiderMeshes {
		if idx < 0 || idx >= len(m.Meshes) {
			logger.Warn("rider mesh out of range", zap.Int("rider", slot), zap.Int("mesh", idx), zap.Int("meshes", len(m.Meshes)))
			continue
		}
		m.Meshes[idx].Rider = slot
	}

	b := m.Bounds()
	logger.Info("model loaded",
		zap.String("path", file),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("anchors", len(m.Anchors)),
		zap.Float32s("min", b.Min[:]),
		zap.Float32s("max", b.Max[:]),
	)
	return m, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no positions")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	hasNormals := false
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		for i := range vertices {
			if i < len(normals) {
				vertices[i].Normal = normals[i]
			}
		}
		hasNormals = len(normals) == len(vertices)
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
		for i := range vertices {
			if i < len(uvs) {
				vertices[i].TexCoord = uvs[i]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = sequentialIndices(len(vertices))
	}

	if !hasNormals {
		generateNormals(vertices, indices)
	}
	generateTangents(vertices, indices)

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   computeBounds(vertices),
	}, nil
}

// resolveTextures maps the material's image URIs to files under dir by base name.
func resolveTextures(doc *gltf.Document, prim *gltf.Primitive, dir string) Textures {
	var t Textures
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return t
	}
	mat := doc.Materials[*prim.Material]

	if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		t.Diffuse = texturePath(doc, pbr.BaseColorTexture.Index, dir)
	}
	if mat.NormalTexture != nil && mat.NormalTexture.Index != nil {
		t.Normal = texturePath(doc, *mat.NormalTexture.Index, dir)
	}
	if t.Normal == "" {
		t.Height = heightPath(doc, mat.Extras, dir)
	}
	return t
}

func texturePath(doc *gltf.Document, index int, dir string) string {
	if index < 0 || index >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[index].Source
	if src == nil || *src >= len(doc.Images) {
		return ""
	}
	return imagePath(doc.Images[*src].URI, dir)
}

func imagePath(uri, dir string) string {
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return ""
	}
	return filepath.Join(dir, path.Base(filepath.ToSlash(uri)))
}

// heightPath reads the height map from material extras. The value may be a
// texture index or an image file name.
func heightPath(doc *gltf.Document, extras any, dir string) string {
	if extras == nil {
		return ""
	}
	raw, err := json.Marshal(extras)
	if err != nil {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	switch v := fields[heightExtra].(type) {
	case float64:
		return texturePath(doc, int(v), dir)
	case string:
		return imagePath(v, dir)
	case map[string]any:
		if idx, ok := v["index"].(float64); ok {
			return texturePath(doc, int(idx), dir)
		}
	}
	return ""
}
