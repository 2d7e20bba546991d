package model

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// LightOptions controls bulb detection and anchor extraction.
type LightOptions struct {
	Keywords  []string // lower-case substrings marking a light-bearing mesh
	Threshold float32  // minimum distance between anchors, model units
	Max       int      // anchors per mesh
}

// DefaultLightOptions returns the stock bulb detection settings.
func DefaultLightOptions() LightOptions {
	return LightOptions{
		Keywords:  []string{"bulb", "light", "lit"},
		Threshold: 0.15,
		Max:       64,
	}
}

// Matches reports whether a mesh name marks a light-bearing mesh. Matching ignores case.
func (o LightOptions) Matches(name string) bool {
	name = strings.ToLower(name)
	for _, k := range o.Keywords {
		if k != "" && strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// IsLightBearing reports whether name matches the default bulb keywords.
func IsLightBearing(name string) bool {
	return DefaultLightOptions().Matches(name)
}

// ExtractAnchors picks representative bulb positions from a light-bearing mesh.
//
// Vertices are scanned in order; a vertex closer than Threshold to an anchor already
// picked is skipped, otherwise it becomes a new anchor. Scanning stops at Max anchors.
// The result is order-dependent and every pair of anchors is at least Threshold apart.
// Meshes whose name does not match return nil.
func ExtractAnchors(name string, positions []mgl32.Vec3, opts LightOptions) []mgl32.Vec3 {
	if !opts.Matches(name) || opts.Max <= 0 {
		return nil
	}

	var anchors []mgl32.Vec3
	for _, p := range positions {
		covered := false
		for _, a := range anchors {
			if p.Sub(a).Len() < opts.Threshold {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		anchors = append(anchors, p)
		if len(anchors) >= opts.Max {
			break
		}
	}

	logger.Info("extracted light anchors",
		zap.String("mesh", name),
		zap.Int("anchors", len(anchors)),
	)
	return anchors
}
