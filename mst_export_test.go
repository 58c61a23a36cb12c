package pccasset

import (
	"os"
	"path/filepath"
	"testing"

	mst "github.com/flywave/go-mst"
	"github.com/flywave/go3d/vec3"

	"github.com/flywave/go-pccasset/upk"
)

func quadGeometry() *upk.MeshGeometry {
	return &upk.MeshGeometry{
		Positions: []vec3.T{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}, {2, 3, 1}},
		Sections: []upk.MeshSection{
			{MaterialIndex: 0, Indices: []uint32{0, 1, 2}},
			{MaterialIndex: 1, Indices: []uint32{1, 3, 2}},
		},
	}
}

func TestBuildMst(t *testing.T) {
	mats := []MaterialRecord{
		{Index: 0, Resolved: true, Name: "A", Parameters: []Parameter{
			&TextureParameter{Name: "Normal", Texture: TextureRef{Name: "N", Image: solidTexture(1)}},
			&TextureParameter{Name: "DiffuseMap", Texture: TextureRef{Name: "D", Image: solidTexture(2)}},
		}},
		{Index: 1},
	}
	mesh, bbox, err := BuildMst(quadGeometry(), mats)
	if err != nil {
		t.Fatalf("BuildMst error: %v", err)
	}
	if len(mesh.Nodes) != 1 {
		t.Fatalf("nodes = %d", len(mesh.Nodes))
	}
	node := mesh.Nodes[0]
	if len(node.Vertices) != 4 {
		t.Errorf("vertices = %d", len(node.Vertices))
	}
	if len(node.FaceGroup) != 2 || node.FaceGroup[1].Batchid != 1 || len(node.FaceGroup[1].Faces) != 1 {
		t.Errorf("face groups = %+v", node.FaceGroup)
	}
	if len(mesh.Materials) != 2 {
		t.Fatalf("materials = %d", len(mesh.Materials))
	}
	texMtl, ok := mesh.Materials[0].(*mst.TextureMaterial)
	if !ok || texMtl.Texture == nil {
		t.Fatalf("material 0 = %#v", mesh.Materials[0])
	}
	if texMtl.Texture.Size != [2]uint64{2, 2} {
		t.Errorf("texture size = %v", texMtl.Texture.Size)
	}
	if base, ok := mesh.Materials[1].(*mst.BaseMaterial); !ok || base.Color != [3]byte{255, 255, 255} {
		t.Errorf("material 1 = %#v", mesh.Materials[1])
	}
	want := [6]float64{0, 0, 0, 2, 3, 1}
	for i, v := range bbox {
		if v != want[i] {
			t.Errorf("bbox[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestBuildMstRejectsBadIndices(t *testing.T) {
	geom := quadGeometry()
	geom.Sections[0].Indices = []uint32{0, 1, 9}
	if _, _, err := BuildMst(geom, nil); err == nil {
		t.Error("expected out of range error")
	}
	geom.Sections[0].Indices = []uint32{0, 1}
	if _, _, err := BuildMst(geom, nil); err == nil {
		t.Error("expected triangle list error")
	}
}

func TestMstExporterWritesFile(t *testing.T) {
	out := t.TempDir()
	pkg := upk.NewPackage("/game/BIOA_NOR10.pcc.json.zst", "le1")
	sm := &upk.StaticMesh{Geometry: quadGeometry()}
	idx := pkg.AddExport("Wall01", upk.ClassStaticMesh, 0, sm)
	exp, _ := pkg.Export(idx)

	job := &MeshJob{PackageFile: pkg.FilePath, Export: exp, Mesh: sm, OutDir: out}
	if err := (&MstExporter{}).ExportMesh(job); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(out, "BIOA_NOR10", "StaticMesh3", "Wall01.mst")
	if MstPath(job) != path {
		t.Errorf("MstPath = %q, want %q", MstPath(job), path)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("mst file: %v", err)
	}

	job.Mesh = &upk.StaticMesh{}
	if err := (&MstExporter{}).ExportMesh(job); err == nil {
		t.Error("expected error for mesh without geometry")
	}
}
