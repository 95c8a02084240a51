package formats

import "fmt"

// Texture holds a material's texture reference (section 0x0006).
type Texture struct {
	FilterMode   uint8
	AddressModes uint8
	UseMipLevels uint16
	DiffuseName  string // base texture name, may be empty
	AlphaName    string // alpha mask texture name, may be empty
	Extension    []byte // raw extension payload, format unknown
}

// Material describes one surface material (section 0x0007).
type Material struct {
	Color    Color
	Ambient  float32
	Specular float32
	Diffuse  float32
	Textured bool
	Texture  *Texture // set only when Textured
	Extension []byte  // raw extension payload, format unknown
}

// MaterialList is the world's ordered material table (section 0x0008).
// Indices and Materials are index-aligned; slice order is on-disk order,
// which is also the order triangles reference through matListWindowBase.
type MaterialList struct {
	Indices   []int32
	Materials []Material
}

// MaterialAt returns the material at a resolved global index, or nil when
// the index falls outside the list.
func (l *MaterialList) MaterialAt(index int) *Material {
	if index < 0 || index >= len(l.Materials) {
		return nil
	}
	return &l.Materials[index]
}

// parseTexture parses a Texture section including its leading header.
func parseTexture(r *Reader) (*Texture, error) {
	if _, err := expectSection(r, SectionTexture); err != nil {
		return nil, err
	}
	if _, err := expectSection(r, SectionStruct); err != nil {
		return nil, err
	}

	tex := &Texture{}
	var err error

	if tex.FilterMode, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if tex.AddressModes, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if tex.UseMipLevels, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	// Texture names are string sections; the declared section size is the
	// full field width, name is null-terminated inside it. Empty is legal.
	diffuseHdr, err := expectSection(r, SectionString)
	if err != nil {
		return nil, err
	}
	if tex.DiffuseName, err = r.ReadString(int(diffuseHdr.Size)); err != nil {
		return nil, err
	}

	alphaHdr, err := expectSection(r, SectionString)
	if err != nil {
		return nil, err
	}
	if tex.AlphaName, err = r.ReadString(int(alphaHdr.Size)); err != nil {
		return nil, err
	}

	if tex.Extension, err = parseExtension(r); err != nil {
		return nil, err
	}
	return tex, nil
}

// parseMaterial parses a Material section including its leading header.
func parseMaterial(r *Reader) (Material, error) {
	if _, err := expectSection(r, SectionMaterial); err != nil {
		return Material{}, err
	}
	if _, err := expectSection(r, SectionStruct); err != nil {
		return Material{}, err
	}

	var mat Material
	var err error

	// Leading flags field is unused by the engine.
	if _, err = r.ReadInt32(); err != nil {
		return Material{}, err
	}
	if mat.Color, err = r.ReadColor(); err != nil {
		return Material{}, err
	}
	// Second unused int32 between color and the textured flag.
	if _, err = r.ReadInt32(); err != nil {
		return Material{}, err
	}

	textured, err := r.ReadInt32()
	if err != nil {
		return Material{}, err
	}
	mat.Textured = textured != 0

	if mat.Ambient, err = r.ReadFloat32(); err != nil {
		return Material{}, err
	}
	if mat.Specular, err = r.ReadFloat32(); err != nil {
		return Material{}, err
	}
	if mat.Diffuse, err = r.ReadFloat32(); err != nil {
		return Material{}, err
	}

	if mat.Textured {
		if mat.Texture, err = parseTexture(r); err != nil {
			return Material{}, err
		}
	}

	if mat.Extension, err = parseExtension(r); err != nil {
		return Material{}, err
	}
	return mat, nil
}

// parseMaterialList parses a MaterialList section including its header.
func parseMaterialList(r *Reader) (MaterialList, error) {
	if _, err := expectSection(r, SectionMaterialList); err != nil {
		return MaterialList{}, err
	}
	if _, err := expectSection(r, SectionStruct); err != nil {
		return MaterialList{}, err
	}

	count, err := r.ReadInt32()
	if err != nil {
		return MaterialList{}, err
	}
	if count < 0 || int(count)*4 > r.Remaining() {
		return MaterialList{}, fmt.Errorf("%w: material count %d at offset 0x%X",
			ErrOutOfBounds, count, r.Tell())
	}

	list := MaterialList{
		Indices:   make([]int32, count),
		Materials: make([]Material, 0, count),
	}
	for i := range list.Indices {
		if list.Indices[i], err = r.ReadInt32(); err != nil {
			return MaterialList{}, err
		}
	}

	for i := int32(0); i < count; i++ {
		mat, err := parseMaterial(r)
		if err != nil {
			return MaterialList{}, fmt.Errorf("parsing material %d: %w", i, err)
		}
		list.Materials = append(list.Materials, mat)
	}
	return list, nil
}
