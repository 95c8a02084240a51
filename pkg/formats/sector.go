package formats

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// maxSectorDepth bounds PlaneSector recursion. The format carries no depth
// field, so corrupt input could otherwise recurse without limit; real maps
// stay far below this.
const maxSectorDepth = 64

// atomicStructBodySize is the fixed AtomicSector struct body: 11 32-bit
// fields (matListWindowBase, numTriangles, numVertices, boxMax, boxMin,
// collSectorPresent, unused).
const atomicStructBodySize = 44

// Triangle is one indexed face of an AtomicSector. Vertex indices are local
// to the sector; MaterialIndex is local to the sector's material window.
type Triangle struct {
	V1, V2, V3    uint16
	MaterialIndex uint16
}

// AtomicSector is a leaf of the spatial partition tree (section 0x0009).
// When IsNativeData is set the geometry lives in an external representation
// and Vertices/Colors/UVs/Triangles are empty; consumers must skip the
// sector rather than treat it as degenerate.
type AtomicSector struct {
	MatListWindowBase int32 // added to a triangle's local material index
	BoxMax            mgl32.Vec3
	BoxMin            mgl32.Vec3
	CollSectorPresent int32
	IsNativeData      bool
	TwoColorArrays    bool // struct carried a second, unused colour array
	Vertices          []mgl32.Vec3
	Colors            []Color      // empty in collision mode
	UVs               []mgl32.Vec2 // empty in collision mode
	Triangles         []Triangle
	Extension         []byte
}

// PlaneSector is an internal binary-split node (section 0x000A).
type PlaneSector struct {
	SplitType  int32
	SplitValue float32
	LeftValue  float32
	RightValue float32
	Left       *SectorNode
	Right      *SectorNode
}

// SectorNode is one node of the spatial partition tree: exactly one of
// Atomic or Plane is non-nil.
type SectorNode struct {
	Atomic *AtomicSector
	Plane  *PlaneSector
}

// parseAtomicSector parses an AtomicSector whose identifier was already
// consumed by the caller. In collision mode the struct carries no colour or
// UV arrays.
func parseAtomicSector(r *Reader, collision bool) (*AtomicSector, error) {
	// Section size and version; the size includes the nested struct header
	// and is not used for positioning.
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}

	structHdr, err := expectSection(r, SectionStruct)
	if err != nil {
		return nil, err
	}
	structSize := int(structHdr.Size)
	structStart := r.Tell()

	sec := &AtomicSector{}

	if sec.MatListWindowBase, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	numTriangles, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	numVertices, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if sec.BoxMax, err = r.ReadVec3(); err != nil {
		return nil, err
	}
	if sec.BoxMin, err = r.ReadVec3(); err != nil {
		return nil, err
	}
	if sec.CollSectorPresent, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if _, err = r.ReadInt32(); err != nil { // unused
		return nil, err
	}

	if numTriangles < 0 || numVertices < 0 {
		return nil, fmt.Errorf("%w: negative sector counts (%d triangles, %d vertices) at offset 0x%X",
			ErrOutOfBounds, numTriangles, numVertices, structStart)
	}
	nt := int(numTriangles)
	nv := int(numVertices)

	// Native-data sector: the struct holds nothing beyond the fixed body
	// yet declares geometry. The arrays live in an external representation
	// this parser does not read.
	if r.Tell() == structStart+structSize && nv != 0 && nt != 0 {
		sec.IsNativeData = true
		if sec.Extension, err = parseExtension(r); err != nil {
			return nil, err
		}
		return sec, nil
	}

	if err = r.Seek(structStart + atomicStructBodySize); err != nil {
		return nil, err
	}
	if 12*nv > r.Remaining() {
		return nil, fmt.Errorf("%w: %d vertices declared at offset 0x%X",
			ErrOutOfBounds, nv, r.Tell())
	}

	sec.Vertices = make([]mgl32.Vec3, nv)
	for i := range sec.Vertices {
		if sec.Vertices[i], err = r.ReadVec3(); err != nil {
			return nil, err
		}
	}

	if !collision {
		// The struct stores either one or two colour arrays; the format
		// gives no flag, so the declared size is the only tell. When two
		// are present the first is unused and skipped. Both observed extra
		// sizes (4 and 12 bytes per vertex) mean the same thing.
		expected := atomicStructBodySize + 24*nv + 8*nt
		extra := structSize - expected
		sec.TwoColorArrays = extra == 4*nv || extra == 12*nv

		if sec.TwoColorArrays {
			if err = r.Seek(structStart + atomicStructBodySize + 16*nv); err != nil {
				return nil, err
			}
		}

		sec.Colors = make([]Color, nv)
		for i := range sec.Colors {
			if sec.Colors[i], err = r.ReadColor(); err != nil {
				return nil, err
			}
		}

		// UVs start at a computed offset, not wherever the colour reads
		// ended up.
		uvStart := structStart + atomicStructBodySize + 16*nv
		if sec.TwoColorArrays {
			uvStart += 4 * nv
		}
		if err = r.Seek(uvStart); err != nil {
			return nil, err
		}

		sec.UVs = make([]mgl32.Vec2, nv)
		for i := range sec.UVs {
			if sec.UVs[i], err = r.ReadVec2(); err != nil {
				return nil, err
			}
		}
	}

	// Triangles always sit at the end of the struct.
	if err = r.Seek(structStart + structSize - 8*nt); err != nil {
		return nil, err
	}
	sec.Triangles = make([]Triangle, nt)
	for i := range sec.Triangles {
		tri := &sec.Triangles[i]
		if tri.V1, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if tri.V2, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if tri.V3, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if tri.MaterialIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
	}

	// Land exactly on the struct end regardless of which arrays were read.
	if err = r.Seek(structStart + structSize); err != nil {
		return nil, err
	}

	if sec.Extension, err = parseExtension(r); err != nil {
		return nil, err
	}
	return sec, nil
}

// parsePlaneSector parses a PlaneSector whose identifier was already
// consumed by the caller, recursing into both children.
func parsePlaneSector(r *Reader, collision bool, depth int) (*PlaneSector, error) {
	if depth > maxSectorDepth {
		return nil, fmt.Errorf("%w: plane nesting exceeds %d levels", ErrMalformedTree, maxSectorDepth)
	}

	// Section size and version.
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if _, err := expectSection(r, SectionStruct); err != nil {
		return nil, err
	}

	plane := &PlaneSector{}
	var err error

	if plane.SplitType, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if plane.SplitValue, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	leftIsAtomic, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	rightIsAtomic, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if plane.LeftValue, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	if plane.RightValue, err = r.ReadFloat32(); err != nil {
		return nil, err
	}

	if plane.Left, err = parseSectorChild(r, collision, leftIsAtomic == 1, depth); err != nil {
		return nil, err
	}
	if plane.Right, err = parseSectorChild(r, collision, rightIsAtomic == 1, depth); err != nil {
		return nil, err
	}
	return plane, nil
}

// parseSectorChild reads a child section identifier, checks it against the
// type the parent declared, and parses the child.
func parseSectorChild(r *Reader, collision, atomic bool, depth int) (*SectorNode, error) {
	off := r.Tell()
	id, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	if atomic {
		if id != SectionAtomicSector {
			return nil, fmt.Errorf("%w: expected AtomicSector (0x%04X), found 0x%04X at offset 0x%X",
				ErrUnexpectedSection, SectionAtomicSector, id, off)
		}
		sec, err := parseAtomicSector(r, collision)
		if err != nil {
			return nil, err
		}
		return &SectorNode{Atomic: sec}, nil
	}

	if id != SectionPlaneSector {
		return nil, fmt.Errorf("%w: expected PlaneSector (0x%04X), found 0x%04X at offset 0x%X",
			ErrUnexpectedSection, SectionPlaneSector, id, off)
	}
	sec, err := parsePlaneSector(r, collision, depth+1)
	if err != nil {
		return nil, err
	}
	return &SectorNode{Plane: sec}, nil
}
