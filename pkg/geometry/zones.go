package geometry

import "github.com/go-gl/mathgl/mgl32"

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Distance returns the box-to-box Euclidean distance: zero when the boxes
// overlap or touch on every axis, otherwise the norm of the per-axis gaps.
func (b BBox) Distance(other BBox) float32 {
	gap := mgl32.Vec3{
		axisGap(b.Min[0], b.Max[0], other.Min[0], other.Max[0]),
		axisGap(b.Min[1], b.Max[1], other.Min[1], other.Max[1]),
		axisGap(b.Min[2], b.Max[2], other.Min[2], other.Max[2]),
	}
	return gap.Len()
}

func axisGap(min1, max1, min2, max2 float32) float32 {
	if max1 < min2 {
		return min2 - max1
	}
	if max2 < min1 {
		return min1 - max2
	}
	return 0
}

func (b *BBox) extend(other BBox) {
	for i := 0; i < 3; i++ {
		if other.Min[i] < b.Min[i] {
			b.Min[i] = other.Min[i]
		}
		if other.Max[i] > b.Max[i] {
			b.Max[i] = other.Max[i]
		}
	}
}

// Zone is a cluster of spatially adjacent connected components. Indices
// point into the MergedGeometry the zone was built from.
type Zone struct {
	FaceIndices   []uint32
	VertexIndices map[uint32]struct{}
	BBox          BBox
}

// component is one connected group of faces, pre-clustering.
type component struct {
	faceIndices []uint32
	vertIndices map[uint32]struct{}
	bbox        BBox
}

// unionFind is a disjoint-set forest with path compression. One instance
// is scratch state for a single ClusterZones call.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		x, u.parent[x] = u.parent[x], root
	}
	return root
}

func (u *unionFind) union(x, y int) {
	px, py := u.find(x), u.find(y)
	if px != py {
		u.parent[px] = py
	}
}

// ClusterZones partitions merged geometry into zones. Faces sharing a
// vertex form connected components; components whose bounding boxes lie
// within clusterDistance of each other are merged into one zone. A
// distance of zero still merges boxes that overlap or touch, so disjoint
// geometry in contact stays together.
//
// Clustering compares every component pair, so it is quadratic in the
// component count. Components are normally far fewer than faces; inputs
// with many thousands of disjoint pieces will be slow here.
func ClusterZones(g *MergedGeometry, clusterDistance float32) []Zone {
	comps := connectedComponents(g)

	clusters := newUnionFind(len(comps))
	for i := 0; i < len(comps); i++ {
		for j := i + 1; j < len(comps); j++ {
			if comps[i].bbox.Distance(comps[j].bbox) <= clusterDistance {
				clusters.union(i, j)
			}
		}
	}

	// Zones keep the order in which cluster roots first appear while
	// walking components in extraction order.
	zoneIndex := make(map[int]int)
	var zones []Zone
	for i, comp := range comps {
		root := clusters.find(i)
		zi, ok := zoneIndex[root]
		if !ok {
			zi = len(zones)
			zoneIndex[root] = zi
			zones = append(zones, Zone{
				VertexIndices: make(map[uint32]struct{}),
				BBox:          comp.bbox,
			})
		}

		zone := &zones[zi]
		zone.FaceIndices = append(zone.FaceIndices, comp.faceIndices...)
		for vi := range comp.vertIndices {
			zone.VertexIndices[vi] = struct{}{}
		}
		zone.BBox.extend(comp.bbox)
	}
	return zones
}

// connectedComponents groups faces into components of transitively
// vertex-connected geometry and computes each component's bounding box.
// Component order follows the first face of each component.
func connectedComponents(g *MergedGeometry) []*component {
	verts := newUnionFind(len(g.Vertices))
	for _, face := range g.Faces {
		verts.union(int(face[0]), int(face[1]))
		verts.union(int(face[1]), int(face[2]))
	}

	byRoot := make(map[int]*component)
	var comps []*component
	for fi, face := range g.Faces {
		root := verts.find(int(face[0]))
		comp, ok := byRoot[root]
		if !ok {
			comp = &component{vertIndices: make(map[uint32]struct{})}
			byRoot[root] = comp
			comps = append(comps, comp)
		}
		comp.faceIndices = append(comp.faceIndices, uint32(fi))
		for _, vi := range face {
			comp.vertIndices[vi] = struct{}{}
		}
	}

	for _, comp := range comps {
		first := true
		for vi := range comp.vertIndices {
			v := g.Vertices[vi]
			if first {
				comp.bbox = BBox{Min: v, Max: v}
				first = false
				continue
			}
			comp.bbox.extend(BBox{Min: v, Max: v})
		}
	}
	return comps
}
