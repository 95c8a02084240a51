// Package obj exports decoded world geometry as Wavefront OBJ/MTL text.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/madbsp/pkg/formats"
	"github.com/Faultbox/madbsp/pkg/geometry"
)

// objWriter wraps a buffered writer with a sticky error so the emit code
// can stay free of per-line error checks.
type objWriter struct {
	w   *bufio.Writer
	err error
}

func newObjWriter(w io.Writer) *objWriter {
	return &objWriter{w: bufio.NewWriter(w)}
}

func (o *objWriter) printf(format string, args ...any) {
	if o.err == nil {
		_, o.err = fmt.Fprintf(o.w, format, args...)
	}
}

func (o *objWriter) flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}

// WriteMTL writes the material table. Materials are named
// material_<index>_<suffix>; texturePrefix is prepended to texture file
// references.
func WriteMTL(w io.Writer, materials []formats.Material, texturePrefix, suffix string) error {
	ow := newObjWriter(w)

	for i, mat := range materials {
		ow.printf("newmtl material_%d_%s\n", i, suffix)

		r := float64(mat.Color.R) / 255.0
		g := float64(mat.Color.G) / 255.0
		b := float64(mat.Color.B) / 255.0
		ow.printf("Kd %.6f %.6f %.6f\n", r, g, b)
		ow.printf("Ka %.6f %.6f %.6f\n", mat.Ambient, mat.Ambient, mat.Ambient)
		ow.printf("Ks %.6f %.6f %.6f\n", mat.Specular, mat.Specular, mat.Specular)

		if a := float64(mat.Color.A) / 255.0; a < 1.0 {
			ow.printf("d %.6f\n", a)
		}

		if mat.Textured && mat.Texture != nil && mat.Texture.DiffuseName != "" {
			ow.printf("map_Kd %s%s.png\n", texturePrefix, mat.Texture.DiffuseName)
		}

		ow.printf("\n")
	}
	return ow.flush()
}

// WriteWorld writes every inline leaf sector as its own OBJ group, faces
// grouped by resolved material index. V coordinates are flipped for
// image-space UV origins.
func WriteWorld(w io.Writer, world *formats.World, mtlName, suffix string, scale float32) error {
	ow := newObjWriter(w)

	ow.printf("# RenderWare World BSP Export\n")
	ow.printf("# Vertices: %d\n", world.NumVertices)
	ow.printf("# Triangles: %d\n", world.NumTriangles)
	ow.printf("mtllib %s\n\n", mtlName)

	vertexOffset := 0
	for si, sec := range world.AtomicSectors() {
		if sec.IsNativeData || len(sec.Vertices) == 0 {
			continue
		}

		ow.printf("# Sector %d\n", si)
		ow.printf("g sector_%d\n", si)

		for _, v := range sec.Vertices {
			ow.printf("v %.6f %.6f %.6f\n", v.X()*scale, v.Y()*scale, v.Z()*scale)
		}
		for _, uv := range sec.UVs {
			ow.printf("vt %.6f %.6f\n", uv.X(), 1.0-uv.Y())
		}

		byMaterial := make(map[int][]formats.Triangle)
		for _, tri := range sec.Triangles {
			idx := int(sec.MatListWindowBase) + int(tri.MaterialIndex)
			byMaterial[idx] = append(byMaterial[idx], tri)
		}

		indices := make([]int, 0, len(byMaterial))
		for idx := range byMaterial {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		hasUVs := len(sec.UVs) > 0
		for _, idx := range indices {
			ow.printf("usemtl material_%d_%s\n", idx, suffix)
			for _, tri := range byMaterial[idx] {
				v1 := int(tri.V1) + vertexOffset + 1
				v2 := int(tri.V2) + vertexOffset + 1
				v3 := int(tri.V3) + vertexOffset + 1
				if hasUVs {
					ow.printf("f %d/%d %d/%d %d/%d\n", v1, v1, v2, v2, v3, v3)
				} else {
					ow.printf("f %d %d %d\n", v1, v2, v3)
				}
			}
		}

		vertexOffset += len(sec.Vertices)
		ow.printf("\n")
	}
	return ow.flush()
}

// WriteZones writes one OBJ group per zone, with zone-local geometry
// produced by geometry.ExtractZone.
func WriteZones(w io.Writer, g *geometry.MergedGeometry, zones []geometry.Zone, mtlName, suffix string, opts geometry.ExtractOptions) error {
	ow := newObjWriter(w)

	ow.printf("# RenderWare World BSP Export (%d zones)\n", len(zones))
	ow.printf("mtllib %s\n\n", mtlName)

	vertexOffset := 0
	for zi, zone := range zones {
		zg := geometry.ExtractZone(g, zone, opts)

		ow.printf("g zone_%d\n", zi)
		for _, v := range zg.Vertices {
			ow.printf("v %.6f %.6f %.6f\n", v.X(), v.Y(), v.Z())
		}
		for _, uv := range zg.UVs {
			ow.printf("vt %.6f %.6f\n", uv.X(), 1.0-uv.Y())
		}

		byMaterial := make(map[uint32][]int)
		for fi, mat := range zg.FaceMaterials {
			byMaterial[mat] = append(byMaterial[mat], fi)
		}
		indices := make([]int, 0, len(byMaterial))
		for idx := range byMaterial {
			indices = append(indices, int(idx))
		}
		sort.Ints(indices)

		for _, idx := range indices {
			ow.printf("usemtl material_%d_%s\n", idx, suffix)
			for _, fi := range byMaterial[uint32(idx)] {
				face := zg.Faces[fi]
				v1 := int(face[0]) + vertexOffset + 1
				v2 := int(face[1]) + vertexOffset + 1
				v3 := int(face[2]) + vertexOffset + 1
				ow.printf("f %d/%d %d/%d %d/%d\n", v1, v1, v2, v2, v3, v3)
			}
		}

		vertexOffset += len(zg.Vertices)
		ow.printf("\n")
	}
	return ow.flush()
}

// MaterialSuffix returns a random four-digit suffix for material names,
// keeping repeated imports from colliding.
func MaterialSuffix() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}

// ExportWorld writes <name>.obj and <name>.mtl for a decoded world into
// outputDir.
func ExportWorld(outputDir, name string, world *formats.World, texturePrefix string, scale float32) error {
	suffix := MaterialSuffix()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	mtlName := name + ".mtl"
	mtlFile, err := os.Create(filepath.Join(outputDir, mtlName))
	if err != nil {
		return err
	}
	defer mtlFile.Close()
	if err := WriteMTL(mtlFile, world.Materials.Materials, texturePrefix, suffix); err != nil {
		return fmt.Errorf("writing MTL: %w", err)
	}

	objFile, err := os.Create(filepath.Join(outputDir, name+".obj"))
	if err != nil {
		return err
	}
	defer objFile.Close()
	if err := WriteWorld(objFile, world, mtlName, suffix, scale); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return nil
}

// ExportZones writes <name>.obj and <name>.mtl for clustered zone geometry
// into outputDir.
func ExportZones(outputDir, name string, world *formats.World, g *geometry.MergedGeometry, zones []geometry.Zone, texturePrefix string, opts geometry.ExtractOptions) error {
	suffix := MaterialSuffix()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	mtlName := name + ".mtl"
	mtlFile, err := os.Create(filepath.Join(outputDir, mtlName))
	if err != nil {
		return err
	}
	defer mtlFile.Close()
	if err := WriteMTL(mtlFile, world.Materials.Materials, texturePrefix, suffix); err != nil {
		return fmt.Errorf("writing MTL: %w", err)
	}

	objFile, err := os.Create(filepath.Join(outputDir, name+".obj"))
	if err != nil {
		return err
	}
	defer objFile.Close()
	if err := WriteZones(objFile, g, zones, mtlName, suffix, opts); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return nil
}
