package obj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/madbsp/pkg/formats"
	"github.com/Faultbox/madbsp/pkg/geometry"
)

func testWorld() *formats.World {
	sector := &formats.AtomicSector{
		MatListWindowBase: 0,
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		UVs: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Triangles: []formats.Triangle{
			{V1: 0, V2: 1, V3: 2, MaterialIndex: 1},
			{V1: 0, V2: 2, V3: 3, MaterialIndex: 0},
		},
	}
	return &formats.World{
		NumVertices:  4,
		NumTriangles: 2,
		Root:         &formats.SectorNode{Atomic: sector},
		Materials: formats.MaterialList{
			Materials: []formats.Material{
				{Color: formats.Color{R: 255, G: 128, B: 0, A: 255}, Ambient: 0.25, Specular: 0.5},
				{
					Color:    formats.Color{R: 0, G: 0, B: 255, A: 128},
					Textured: true,
					Texture:  &formats.Texture{DiffuseName: "street"},
				},
			},
		},
	}
}

func TestWriteMTL(t *testing.T) {
	w := testWorld()
	buf := new(bytes.Buffer)

	if err := WriteMTL(buf, w.Materials.Materials, "textures/", "1234"); err != nil {
		t.Fatalf("WriteMTL failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"newmtl material_0_1234\n",
		"Kd 1.000000 0.501961 0.000000\n",
		"Ka 0.250000 0.250000 0.250000\n",
		"Ks 0.500000 0.500000 0.500000\n",
		"newmtl material_1_1234\n",
		"d 0.501961\n",
		"map_Kd textures/street.png\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("MTL output missing %q:\n%s", want, out)
		}
	}

	// The opaque material must not carry a dissolve line.
	first := out[:strings.Index(out, "newmtl material_1_1234")]
	if strings.Contains(first, "\nd ") {
		t.Errorf("opaque material carries a dissolve line:\n%s", first)
	}
	if strings.Contains(first, "map_Kd") {
		t.Errorf("untextured material carries a texture reference:\n%s", first)
	}
}

func TestWriteWorld(t *testing.T) {
	w := testWorld()
	buf := new(bytes.Buffer)

	if err := WriteWorld(buf, w, "map.mtl", "1234", 1.0); err != nil {
		t.Fatalf("WriteWorld failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"mtllib map.mtl\n",
		"g sector_0\n",
		"v 0.000000 0.000000 0.000000\n",
		"v 1.000000 1.000000 0.000000\n",
		// V coordinate flips: (1,1) becomes (1,0).
		"vt 1.000000 0.000000\n",
		"vt 0.000000 1.000000\n",
		"usemtl material_0_1234\n",
		"usemtl material_1_1234\n",
		// Indices are 1-based with matching texture coordinates.
		"f 1/1 2/2 3/3\n",
		"f 1/1 3/3 4/4\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("OBJ output missing %q:\n%s", want, out)
		}
	}

	// Material groups come out in ascending index order.
	if strings.Index(out, "usemtl material_0_1234") > strings.Index(out, "usemtl material_1_1234") {
		t.Error("material groups not sorted by index")
	}
}

func TestWriteWorld_Scale(t *testing.T) {
	w := testWorld()
	buf := new(bytes.Buffer)

	if err := WriteWorld(buf, w, "map.mtl", "1234", 0.5); err != nil {
		t.Fatalf("WriteWorld failed: %v", err)
	}
	if !strings.Contains(buf.String(), "v 0.500000 0.500000 0.000000\n") {
		t.Errorf("scale not applied:\n%s", buf.String())
	}
}

func TestWriteWorld_SkipsNativeSectors(t *testing.T) {
	w := testWorld()
	w.Root = &formats.SectorNode{
		Plane: &formats.PlaneSector{
			Left:  &formats.SectorNode{Atomic: &formats.AtomicSector{IsNativeData: true}},
			Right: w.Root,
		},
	}

	buf := new(bytes.Buffer)
	if err := WriteWorld(buf, w, "map.mtl", "1234", 1.0); err != nil {
		t.Fatalf("WriteWorld failed: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "g sector_0\n") {
		t.Error("native sector must not produce a group")
	}
	// The surviving sector keeps its traversal index and 1-based vertices.
	if !strings.Contains(out, "g sector_1\n") {
		t.Errorf("inline sector missing:\n%s", out)
	}
	if !strings.Contains(out, "f 1/1 2/2 3/3\n") {
		t.Errorf("vertex offset wrong when sectors are skipped:\n%s", out)
	}
}

func TestWriteWorld_NoUVs(t *testing.T) {
	w := testWorld()
	w.Root.Atomic.UVs = nil

	buf := new(bytes.Buffer)
	if err := WriteWorld(buf, w, "map.mtl", "1234", 1.0); err != nil {
		t.Fatalf("WriteWorld failed: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "vt ") {
		t.Error("collision geometry must not emit texture coordinates")
	}
	if !strings.Contains(out, "f 1 2 3\n") {
		t.Errorf("faces without UVs must use plain indices:\n%s", out)
	}
}

func TestWriteZones(t *testing.T) {
	w := testWorld()
	g, err := geometry.Flatten(w)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	zones := geometry.ClusterZones(g, 0)
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}

	buf := new(bytes.Buffer)
	err = WriteZones(buf, g, zones, "map.mtl", "1234", geometry.ExtractOptions{})
	if err != nil {
		t.Fatalf("WriteZones failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"mtllib map.mtl\n",
		"g zone_0\n",
		"v 0.000000 0.000000 0.000000\n",
		"vt 1.000000 0.000000\n",
		"usemtl material_0_1234\n",
		"f 1/1 3/3 4/4\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("zone OBJ missing %q:\n%s", want, out)
		}
	}
}

func TestMaterialSuffix(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := MaterialSuffix()
		if len(s) != 4 {
			t.Fatalf("expected a four-digit suffix, got %q", s)
		}
	}
}
