// Package formats provides parsers for TFB RenderWare binary file formats.
// World (BSP) container parser: the World section wraps a material table
// and a recursive plane-split spatial partition tree whose leaves carry the
// map geometry.
package formats

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Recognized WorldStruct body sizes. The two layouts carry the same counts
// but order the bounding box differently; see parseWorldStruct.
const (
	worldStructSizeLarge = 0x40
	worldStructSizeSmall = 0x34
)

// World is a fully decoded World section (0x000B).
type World struct {
	Version           int32 // RenderWare version stamp from the section header
	RootIsWorldSector int32
	InverseOrigin     mgl32.Vec3
	NumTriangles      uint32
	NumVertices       uint32
	NumPlaneSectors   uint32
	NumAtomicSectors  uint32
	ColSectorSize     uint32
	Flags             uint32
	BoxMax            mgl32.Vec3
	BoxMin            mgl32.Vec3 // zero for the 0x34 struct layout, which has no min box
	Materials         MaterialList
	Root              *SectorNode // nil when the file declares no sector tree
	Extension         []byte
}

// ParseWorld parses a World BSP from raw bytes. In collision mode the
// AtomicSector structs carry no colour or UV arrays; callers usually derive
// the flag from the file name, which is outside this package's concern.
func ParseWorld(data []byte, collision bool) (*World, error) {
	r := NewReader(data)

	hdr, err := expectSection(r, SectionWorld)
	if err != nil {
		return nil, err
	}

	w := &World{Version: hdr.Version}

	structHdr, err := expectSection(r, SectionStruct)
	if err != nil {
		return nil, err
	}

	if w.RootIsWorldSector, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if w.InverseOrigin, err = r.ReadVec3(); err != nil {
		return nil, err
	}

	if err = parseWorldStruct(r, w, structHdr.Size); err != nil {
		return nil, err
	}

	if w.Materials, err = parseMaterialList(r); err != nil {
		return nil, err
	}

	if w.Root, err = parseRootSector(r, w, collision); err != nil {
		return nil, err
	}

	if w.Extension, err = parseExtension(r); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseWorldFile parses a World BSP file from disk.
func ParseWorldFile(path string, collision bool) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BSP file: %w", err)
	}
	return ParseWorld(data, collision)
}

// parseWorldStruct reads the variant-dependent WorldStruct body. The 0x40
// layout stores the counts before both box corners; the 0x34 layout stores
// boxMax first and has no boxMin.
func parseWorldStruct(r *Reader, w *World, structSize int32) error {
	var err error

	switch structSize {
	case worldStructSizeLarge:
		if err = parseWorldCounts(r, w); err != nil {
			return err
		}
		if w.BoxMax, err = r.ReadVec3(); err != nil {
			return err
		}
		if w.BoxMin, err = r.ReadVec3(); err != nil {
			return err
		}
	case worldStructSizeSmall:
		if w.BoxMax, err = r.ReadVec3(); err != nil {
			return err
		}
		if err = parseWorldCounts(r, w); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: 0x%X", ErrUnsupportedWorldVariant, structSize)
	}
	return nil
}

// parseWorldCounts reads the six count/flag fields shared by both layouts.
func parseWorldCounts(r *Reader, w *World) error {
	var err error

	if w.NumTriangles, err = r.ReadUint32(); err != nil {
		return err
	}
	if w.NumVertices, err = r.ReadUint32(); err != nil {
		return err
	}
	if w.NumPlaneSectors, err = r.ReadUint32(); err != nil {
		return err
	}
	if w.NumAtomicSectors, err = r.ReadUint32(); err != nil {
		return err
	}
	if w.ColSectorSize, err = r.ReadUint32(); err != nil {
		return err
	}
	w.Flags, err = r.ReadUint32()
	return err
}

// parseRootSector parses the sector tree root. A single atomic sector is
// stored bare; any plane sectors mean the root is a PlaneSector. A world
// with neither has no tree at all, which is valid.
func parseRootSector(r *Reader, w *World, collision bool) (*SectorNode, error) {
	switch {
	case w.NumAtomicSectors == 1 && w.NumPlaneSectors == 0:
		return parseSectorChild(r, collision, true, 0)
	case w.NumPlaneSectors > 0:
		return parseSectorChild(r, collision, false, 0)
	default:
		return nil, nil
	}
}

// AtomicSectors returns the tree's leaves in pre-order, left before right.
// Consumers rely on this order for stable zone numbering.
func (w *World) AtomicSectors() []*AtomicSector {
	var leaves []*AtomicSector
	collectAtomicSectors(w.Root, &leaves)
	return leaves
}

func collectAtomicSectors(node *SectorNode, out *[]*AtomicSector) {
	switch {
	case node == nil:
	case node.Atomic != nil:
		*out = append(*out, node.Atomic)
	case node.Plane != nil:
		collectAtomicSectors(node.Plane.Left, out)
		collectAtomicSectors(node.Plane.Right, out)
	}
}

// TotalVertexCount returns the number of inline vertices across all leaf
// sectors. Native-data sectors contribute nothing.
func (w *World) TotalVertexCount() int {
	total := 0
	for _, sec := range w.AtomicSectors() {
		total += len(sec.Vertices)
	}
	return total
}

// TotalTriangleCount returns the number of inline triangles across all leaf
// sectors. Native-data sectors contribute nothing.
func (w *World) TotalTriangleCount() int {
	total := 0
	for _, sec := range w.AtomicSectors() {
		total += len(sec.Triangles)
	}
	return total
}
