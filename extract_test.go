package pccasset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flywave/go-pccasset/flattext"
	"github.com/flywave/go-pccasset/upk"
)

const wallMaterials = "%index0#export#Wall_Mat#textures#Wall_Diff#expressions#Spec#scalar#0.5#Tint#vector#1%0.1%0.2%0.3#Diffuse#texture#Wall_Diff#Detail#texture#Floor_Diff" +
	"#%index1" +
	"#%index2#export#Floor_Mat#textures#Floor_Norm#expressions#Rough#scalar#0.25"

func TestLocations(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.Locations(levelPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := levelPath + "#" + texturePath; got != want {
		t.Errorf("Locations = %q, want %q", got, want)
	}
}

func TestLocationsReopen(t *testing.T) {
	opener := newMemOpener()
	opener.add("/dumps/L.pcc.json", func() *upk.Package {
		pkg := upk.NewPackage("/dumps/L.pcc", "le1")
		pkg.AdditionalPackagesToCook = []string{"S"}
		return pkg
	})
	opener.add("/dumps/S.pcc.json", func() *upk.Package {
		pkg := upk.NewPackage("/dumps/S.pcc", "le1")
		pkg.AddExport("Rock", upk.ClassStaticMesh, 0, &upk.StaticMesh{})
		return pkg
	})
	games := GameIndex{"le1": LoadedFiles{}}
	games["le1"].Add("/dumps/L.pcc.json")
	games["le1"].Add("/dumps/S.pcc.json")
	e := NewExtractor(opener, games, quietLogger())

	got, err := e.Locations("/dumps/L.pcc.json")
	if err != nil {
		t.Fatal(err)
	}
	if want := "/dumps/L.pcc.json#/dumps/S.pcc.json"; got != want {
		t.Fatalf("Locations = %q, want %q", got, want)
	}
	for _, loc := range strings.Split(got, "#") {
		if _, err := e.StaticMeshNames(loc); err != nil {
			t.Errorf("StaticMeshNames(%s): %v", loc, err)
		}
	}
	if names, _ := e.StaticMeshNames("/dumps/S.pcc.json"); names != "Rock" {
		t.Errorf("sibling meshes = %q", names)
	}
}

func TestStaticMeshNames(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.StaticMeshNames(levelPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Wall01#Plain#Wall01"; got != want {
		t.Errorf("StaticMeshNames = %q, want %q", got, want)
	}
}

func TestExportStaticMesh(t *testing.T) {
	e, _ := testExtractor()
	launcher := e.Launcher.(*recordLauncher)
	out, tex := t.TempDir(), t.TempDir()

	got, err := e.ExportStaticMesh(ExportRequest{
		Package:      levelPath,
		Mesh:         "Wall01",
		ExporterPath: "/opt/umodel",
		Format:       "psk",
		OutDir:       out,
		TexturesDir:  tex,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != wallMaterials {
		t.Errorf("ExportStaticMesh =\n%q\nwant\n%q", got, wallMaterials)
	}
	if len(launcher.calls) != 1 {
		t.Fatalf("launches = %v", launcher.calls)
	}
	want := []string{"/opt/umodel", "-export", "-psk", "-out=" + out, levelPath, "Wall01", "StaticMesh"}
	call := launcher.calls[0]
	if len(call) != len(want) {
		t.Fatalf("launch = %v, want %v", call, want)
	}
	for i := range want {
		if call[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, call[i], want[i])
		}
	}
	if _, err := os.Stat(filepath.Join(tex, "Wall_Diff.png")); err != nil {
		t.Errorf("texture not written: %v", err)
	}
}

func TestExportStaticMeshMst(t *testing.T) {
	e, _ := testExtractor()
	out := t.TempDir()
	got, err := e.ExportStaticMesh(ExportRequest{Package: levelPath, Mesh: "Wall01", Format: MST, OutDir: out})
	if err != nil {
		t.Fatal(err)
	}
	if got != wallMaterials {
		t.Errorf("payload = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "BIOA_NOR10", "StaticMesh3", "Wall01.mst")); err != nil {
		t.Errorf("mst not written: %v", err)
	}
	if n := len(e.Launcher.(*recordLauncher).calls); n != 0 {
		t.Errorf("external exporter launched %d times for mst", n)
	}
}

func TestExportStaticMeshEmptyMaterial(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.ExportStaticMesh(ExportRequest{Package: levelPath, Mesh: "Plain", Format: "psk"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "%index0#export#Empty_Mat#textures#expressions"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportStaticMeshNotFound(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.ExportStaticMesh(ExportRequest{Package: levelPath, Mesh: "wall01", Format: "psk"})
	if err != nil || got != "" {
		t.Errorf("case-mismatched mesh = %q, %v; want empty", got, err)
	}
	if n := len(e.Launcher.(*recordLauncher).calls); n != 0 {
		t.Errorf("launched %d times for a missing mesh", n)
	}
}

func TestActors(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.Actors(levelPath)
	if err != nil {
		t.Fatal(err)
	}
	actors, err := flattext.ParseActors(got)
	if err != nil {
		t.Fatalf("ParseActors(%q): %v", got, err)
	}
	if len(actors) != 2 || actors[0].Mesh != "Wall01" || actors[1].Mesh != "Crate" {
		t.Fatalf("actors = %+v", actors)
	}
	m := actors[0].Transform
	if math.Abs(float64(m[0][1]-2)) > 1e-6 || math.Abs(float64(m[1][0]+2)) > 1e-6 || m[3][2] != 300 {
		t.Errorf("transform = %v", m)
	}
}

func TestBones(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.Bones(levelPath, "Hench_Rig")
	if err != nil {
		t.Fatal(err)
	}
	if want := "Root#Pelvis#Spine"; got != want {
		t.Errorf("Bones = %q, want %q", got, want)
	}
	if got, _ := e.Bones(levelPath, "Nobody"); got != "" {
		t.Errorf("unknown skeleton = %q", got)
	}
}

func TestAnimations(t *testing.T) {
	e, _ := testExtractor()
	got, err := e.Animations(levelPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "Walk$" +
		"Root#0#0#0#0#1#0#0#0#1#1#0#0#1#0#0#0#2#2#0#0#1#0#0#0#%" +
		"Pelvis#0#0#0#5#1#0#0#0#1#0#0#5#0.70710677#0#0#0.70710677#%"
	if got != want {
		t.Errorf("Animations =\n%q\nwant\n%q", got, want)
	}
}

func TestOperationsAreDeterministic(t *testing.T) {
	e, _ := testExtractor()
	ops := map[string]func() (string, error){
		"locations":  func() (string, error) { return e.Locations(levelPath) },
		"static":     func() (string, error) { return e.StaticMeshNames(levelPath) },
		"actors":     func() (string, error) { return e.Actors(levelPath) },
		"bones":      func() (string, error) { return e.Bones(levelPath, "Hench_Rig") },
		"animations": func() (string, error) { return e.Animations(levelPath) },
		"export": func() (string, error) {
			return e.ExportStaticMesh(ExportRequest{Package: levelPath, Mesh: "Wall01", Format: "psk"})
		},
	}
	for name, op := range ops {
		a, errA := op()
		b, errB := op()
		if errA != nil || errB != nil || a != b {
			t.Errorf("%s not deterministic: %q vs %q (%v, %v)", name, a, b, errA, errB)
		}
	}
}

func TestUndecodablePackage(t *testing.T) {
	e, _ := testExtractor()
	if _, err := e.Animations("/game/nothing.pcc"); !errors.Is(err, ErrDecodeUnavailable) {
		t.Errorf("error = %v, want ErrDecodeUnavailable", err)
	}
}
