// Package formats provides parsers for TFB RenderWare binary file formats.
package formats

// Note: the World BSP container (sections 0x0006-0x000B) is implemented in
// world.go, sector.go and material.go on top of the cursor in reader.go.

import (
	"errors"
	"fmt"
)

// Section identifiers used by the World container.
const (
	SectionStruct       uint32 = 0x0001
	SectionString       uint32 = 0x0002
	SectionExtension    uint32 = 0x0003
	SectionTexture      uint32 = 0x0006
	SectionMaterial     uint32 = 0x0007
	SectionMaterialList uint32 = 0x0008
	SectionAtomicSector uint32 = 0x0009
	SectionPlaneSector  uint32 = 0x000A
	SectionWorld        uint32 = 0x000B
)

// World format errors.
var (
	ErrOutOfBounds             = errors.New("read past end of buffer")
	ErrInvalidOffset           = errors.New("invalid seek offset")
	ErrUnexpectedSection       = errors.New("unexpected section identifier")
	ErrUnsupportedWorldVariant = errors.New("unsupported WorldStruct size")
	ErrMalformedTree           = errors.New("malformed sector tree")
)

// SectionHeader is the self-describing prefix every section carries.
// Size is the payload length in bytes, excluding the header itself.
// AtomicSector and PlaneSector headers additionally count the nested
// struct header in Size; nothing here relies on that quirk.
type SectionHeader struct {
	Identifier uint32
	Size       int32
	Version    int32
}

// parseSectionHeader reads a section header at the current offset.
func parseSectionHeader(r *Reader) (SectionHeader, error) {
	var h SectionHeader
	var err error

	if h.Identifier, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.Size, err = r.ReadInt32(); err != nil {
		return h, err
	}
	if h.Version, err = r.ReadInt32(); err != nil {
		return h, err
	}
	return h, nil
}

// expectSection reads a section header and checks its identifier.
func expectSection(r *Reader, want uint32) (SectionHeader, error) {
	off := r.Tell()
	h, err := parseSectionHeader(r)
	if err != nil {
		return h, err
	}
	if h.Identifier != want {
		return h, fmt.Errorf("%w: expected 0x%04X, found 0x%04X at offset 0x%X",
			ErrUnexpectedSection, want, h.Identifier, off)
	}
	return h, nil
}

// parseExtension reads an extension section and returns its raw payload.
// Extension content is format-unknown and preserved verbatim.
func parseExtension(r *Reader) ([]byte, error) {
	h, err := expectSection(r, SectionExtension)
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(h.Size))
}
