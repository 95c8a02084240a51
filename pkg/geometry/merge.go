// Package geometry reconstructs mesh-ready zones from a decoded World:
// leaf sector geometry is merged into one indexed buffer, split into
// connected components, and clustered into spatially coherent zones.
package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/madbsp/pkg/formats"
)

// ErrNoGeometry is returned when a world's sector tree yields no faces.
var ErrNoGeometry = errors.New("world contains no mesh geometry")

// MergedGeometry is the flattened geometry of every inline leaf sector.
// UVs are index-aligned with Vertices, FaceMaterials with Faces. Face
// vertex indices point into Vertices; material values are global indices
// into the world's material list.
type MergedGeometry struct {
	Vertices      []mgl32.Vec3
	UVs           []mgl32.Vec2
	Faces         [][3]uint32
	FaceMaterials []uint32
}

// Flatten merges all leaf sectors into a single indexed triangle buffer.
// Sectors are visited in tree pre-order (left before right), which fixes
// the vertex and face numbering downstream consumers see. Native-data
// sectors hold no inline geometry and are skipped.
func Flatten(w *formats.World) (*MergedGeometry, error) {
	g := &MergedGeometry{}
	base := uint32(0)

	for _, sec := range w.AtomicSectors() {
		if sec.IsNativeData || len(sec.Vertices) == 0 {
			continue
		}

		for i, v := range sec.Vertices {
			g.Vertices = append(g.Vertices, v)
			if i < len(sec.UVs) {
				g.UVs = append(g.UVs, sec.UVs[i])
			} else {
				g.UVs = append(g.UVs, mgl32.Vec2{})
			}
		}

		for _, tri := range sec.Triangles {
			g.Faces = append(g.Faces, [3]uint32{
				base + uint32(tri.V1),
				base + uint32(tri.V2),
				base + uint32(tri.V3),
			})
			g.FaceMaterials = append(g.FaceMaterials,
				uint32(sec.MatListWindowBase+int32(tri.MaterialIndex)))
		}

		base += uint32(len(sec.Vertices))
	}

	if len(g.Faces) == 0 {
		return nil, ErrNoGeometry
	}
	return g, nil
}
