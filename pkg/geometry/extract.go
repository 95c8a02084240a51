package geometry

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// ZoneGeometry is a zone's geometry remapped to zone-local vertex indices.
type ZoneGeometry struct {
	Vertices      []mgl32.Vec3
	UVs           []mgl32.Vec2
	Faces         [][3]uint32
	FaceMaterials []uint32
}

// ExtractOptions controls coordinate transforms applied while extracting.
type ExtractOptions struct {
	// Center shifts the zone so its bounding box midpoint sits at the origin.
	Center bool
	// Scale multiplies all coordinates; zero means 1.
	Scale float32
}

// ExtractZone copies a zone out of the merged geometry with vertex indices
// remapped to a compact zone-local range. Local indices follow ascending
// global index order; faces follow the zone's face order.
func ExtractZone(g *MergedGeometry, zone Zone, opts ExtractOptions) *ZoneGeometry {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	var offset mgl32.Vec3
	if opts.Center {
		offset = zone.BBox.Min.Add(zone.BBox.Max).Mul(0.5)
	}

	globals := make([]uint32, 0, len(zone.VertexIndices))
	for vi := range zone.VertexIndices {
		globals = append(globals, vi)
	}
	sort.Slice(globals, func(i, j int) bool { return globals[i] < globals[j] })

	zg := &ZoneGeometry{
		Vertices:      make([]mgl32.Vec3, 0, len(globals)),
		UVs:           make([]mgl32.Vec2, 0, len(globals)),
		Faces:         make([][3]uint32, 0, len(zone.FaceIndices)),
		FaceMaterials: make([]uint32, 0, len(zone.FaceIndices)),
	}

	local := make(map[uint32]uint32, len(globals))
	for _, vi := range globals {
		local[vi] = uint32(len(zg.Vertices))
		zg.Vertices = append(zg.Vertices, g.Vertices[vi].Sub(offset).Mul(scale))
		zg.UVs = append(zg.UVs, g.UVs[vi])
	}

	for _, fi := range zone.FaceIndices {
		face := g.Faces[fi]
		zg.Faces = append(zg.Faces, [3]uint32{
			local[face[0]],
			local[face[1]],
			local[face[2]],
		})
		zg.FaceMaterials = append(zg.FaceMaterials, g.FaceMaterials[fi])
	}
	return zg
}
