package pccasset

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"

	"github.com/flywave/go-pccasset/upk"
)

// memOpener serves packages built in memory, a fresh copy per Open.
type memOpener struct {
	builders map[string]func() *upk.Package
	opened   map[string]int
}

func newMemOpener() *memOpener {
	return &memOpener{builders: map[string]func() *upk.Package{}, opened: map[string]int{}}
}

func (m *memOpener) add(path string, build func() *upk.Package) {
	m.builders[path] = build
}

func (m *memOpener) Open(path string) (*upk.Package, error) {
	build, ok := m.builders[path]
	if !ok {
		return nil, fmt.Errorf("no package at %s", path)
	}
	m.opened[path]++
	return build(), nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func solidTexture(c byte) *upk.Texture2D {
	return &upk.Texture2D{Width: 2, Height: 2, Format: upk.PixelRGBA8, Pixels: []byte{
		c, 0, 0, 255, c, 0, 0, 255,
		c, 0, 0, 255, c, 0, 0, 255,
	}}
}

const (
	levelPath   = "/game/BIOA_NOR10.pcc"
	texturePath = "/game/BIOA_NOR10_T.pcc"
)

// texturePackage is the sibling holding imported textures.
func texturePackage() *upk.Package {
	pkg := upk.NewPackage(texturePath, "le1")
	group := pkg.AddExport("Textures", "Package", 0, nil)
	pkg.AddExport("Floor_Diff", upk.ClassTexture2D, group, solidTexture(10))
	pkg.AddExport("Sky_Cube", upk.ClassTextureCube, group, solidTexture(20))
	mats := pkg.AddExport("Materials", "Package", 0, nil)
	floorTex := pkg.AddExport("Floor_Norm", upk.ClassTexture2D, group, solidTexture(30))
	pkg.AddExport("Floor_Mat", upk.ClassMaterial, mats, &upk.Material{
		Expressions: []upk.Expression{
			{Class: "MaterialExpressionScalarParameter", Kind: upk.ExpressionScalarParameter, ParameterName: "Rough", ScalarValue: 0.25},
		},
		UniformTextures: []upk.Index{floorTex},
	})
	return pkg
}

// levelPackage is a level with one textured mesh, actors and animations.
func levelPackage() *upk.Package {
	pkg := upk.NewPackage(levelPath, "le1")
	pkg.AdditionalPackagesToCook = []string{"BIOA_NOR10_T", "BIOA_MISSING"}

	texRoot := pkg.AddImport("BIOA_NOR10_T", "Package", 0)
	texGroup := pkg.AddImport("Textures", "Package", texRoot)
	floorDiff := pkg.AddImport("Floor_Diff", upk.ClassTexture2D, texGroup)
	skyCube := pkg.AddImport("Sky_Cube", upk.ClassTextureCube, texGroup)
	matGroup := pkg.AddImport("Materials", "Package", texRoot)
	floorMat := pkg.AddImport("Floor_Mat", upk.ClassMaterial, matGroup)
	lostMat := pkg.AddImport("Lost_Mat", upk.ClassMaterial, matGroup)
	crate := pkg.AddImport("Crate", upk.ClassStaticMesh, texRoot)

	meshes := pkg.AddExport("Meshes", "Package", 0, nil)
	wallDiff := pkg.AddExport("Wall_Diff", upk.ClassTexture2D, meshes, solidTexture(200))
	localCube := pkg.AddExport("Env_Cube", upk.ClassTextureCube, meshes, solidTexture(40))
	noPixels := pkg.AddExport("Streamed_Diff", upk.ClassTexture2D, meshes, &upk.Texture2D{Width: 4, Height: 4})
	wallMat := pkg.AddExport("Wall_Mat", upk.ClassMaterial, meshes, &upk.Material{
		Expressions: []upk.Expression{
			{Class: "MaterialExpressionScalarParameter", Kind: upk.ExpressionScalarParameter, ParameterName: "Spec", ScalarValue: 0.5},
			{Class: "MaterialExpressionMultiply", Kind: upk.ExpressionUnknown},
			{Class: "MaterialExpressionVectorParameter", Kind: upk.ExpressionVectorParameter, ParameterName: "Tint", VectorValue: vec4.T{0.1, 0.2, 0.3, 1}},
			{Class: "MaterialExpressionTextureSampleParameter2D", Kind: upk.ExpressionTextureParameter, ParameterName: "Diffuse", Texture: wallDiff},
			{Class: "MaterialExpressionTextureSampleParameter2D", Kind: upk.ExpressionTextureParameter, ParameterName: "Env", Texture: localCube},
			{Class: "MaterialExpressionTextureSampleParameter2D", Kind: upk.ExpressionTextureParameter, ParameterName: "Detail", Texture: floorDiff},
			{Class: "MaterialExpressionTextureSampleParameter2D", Kind: upk.ExpressionTextureParameter, ParameterName: "Sky", Texture: skyCube},
			{Class: "MaterialExpressionTextureSampleParameter2D", Kind: upk.ExpressionTextureParameter, ParameterName: "Streamed", Texture: noPixels},
		},
		UniformTextures: []upk.Index{wallDiff, localCube},
	})
	emptyMat := pkg.AddExport("Empty_Mat", upk.ClassMaterial, meshes, &upk.Material{})

	wall := pkg.AddExport("Wall01", upk.ClassStaticMesh, meshes, &upk.StaticMesh{
		Materials: []upk.Index{wallMat, lostMat, floorMat},
		Geometry: &upk.MeshGeometry{
			Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
			TexCoords: []vec2.T{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
			Sections: []upk.MeshSection{
				{MaterialIndex: 0, Indices: []uint32{0, 1, 2}},
				{MaterialIndex: 2, Indices: []uint32{1, 3, 2}},
			},
		},
	})
	pkg.AddExport("Plain", upk.ClassStaticMesh, meshes, &upk.StaticMesh{Materials: []upk.Index{emptyMat}})
	pkg.AddExport("Wall01", "staticmesh", 0, &upk.StaticMesh{})

	rig := pkg.AddExport("Hench_Rig", upk.ClassSkeletalMesh, 0, &upk.SkeletalMesh{
		RefSkeleton: []upk.MeshBone{{Name: "Root", ParentIndex: -1}, {Name: "Pelvis", ParentIndex: 0}, {Name: "Spine", ParentIndex: 1}},
	})
	anims := pkg.AddExport("Anims", "AnimSet", rig, nil)
	pkg.AddExport("Walk", upk.ClassAnimSequence, anims, &upk.AnimSequence{
		Bones: []string{"Root", "Pelvis", "Spine"},
		RawAnimationData: []upk.AnimTrack{
			{
				Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
				Rotations: []quaternion.T{{0, 0, 0, 1}},
			},
			{
				Positions: []vec3.T{{0, 0, 5}},
				Rotations: []quaternion.T{{0, 0, 0, 1}, {0, 0, 0.70710677, 0.70710677}},
			},
		},
	})
	pkg.AddExport("Idle", upk.ClassAnimSequence, anims, nil)

	comp := pkg.AddExport("StaticMeshComponent_0", upk.ClassStaticMeshComponent, 0, &upk.StaticMeshComponent{StaticMesh: wall})
	scale := float32(2)
	actor := pkg.AddExport("StaticMeshActor_0", upk.ClassStaticMeshActor, 0, &upk.StaticMeshActor{
		StaticMeshComponent: comp,
		Location:            vec3.T{100, 200, 300},
		Rotation:            upk.Rotator{Yaw: 16384},
		DrawScale:           &scale,
	})
	emptyComp := pkg.AddExport("StaticMeshComponent_1", upk.ClassStaticMeshComponent, 0, &upk.StaticMeshComponent{})
	noMesh := pkg.AddExport("StaticMeshActor_1", upk.ClassStaticMeshActor, 0, &upk.StaticMeshActor{StaticMeshComponent: emptyComp})
	light := pkg.AddExport("PointLight_0", "PointLight", 0, nil)
	importedComp := pkg.AddExport("StaticMeshComponent_2", upk.ClassStaticMeshComponent, 0, &upk.StaticMeshComponent{StaticMesh: crate})
	importedActor := pkg.AddExport("StaticMeshActor_2", upk.ClassStaticMeshActor, 0, &upk.StaticMeshActor{StaticMeshComponent: importedComp})
	pkg.Level = &upk.Level{Actors: []upk.Index{0, light, actor, noMesh, importedActor}}
	return pkg
}

func testExtractor() (*Extractor, *memOpener) {
	opener := newMemOpener()
	opener.add(levelPath, levelPackage)
	opener.add(texturePath, texturePackage)
	games := GameIndex{"le1": LoadedFiles{
		"bioa_nor10.pcc":   levelPath,
		"bioa_nor10_t.pcc": texturePath,
		"bioa_broken.pcc":  "/game/BIOA_BROKEN.pcc",
	}}
	e := NewExtractor(opener, games, quietLogger())
	e.Launcher = &recordLauncher{}
	return e, opener
}

// recordLauncher records launches instead of running anything.
type recordLauncher struct {
	calls [][]string
}

func (r *recordLauncher) Launch(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}
