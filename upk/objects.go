package upk

import (
	"fmt"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Class names the extraction looks for.
const (
	ClassStaticMesh          = "StaticMesh"
	ClassSkeletalMesh        = "SkeletalMesh"
	ClassAnimSequence        = "AnimSequence"
	ClassMaterial            = "Material"
	ClassMaterialInstance    = "MaterialInstanceConstant"
	ClassStaticMeshActor     = "StaticMeshActor"
	ClassStaticMeshComponent = "StaticMeshComponent"
	ClassTexture2D           = "Texture2D"
	ClassTextureCube         = "TextureCube"
)

// Object is a decoded export payload.
type Object interface {
	isObject()
}

// Decoded returns the export payload or ErrNotDecoded.
func (exp *Export) Decoded() (Object, error) {
	if exp.Object == nil {
		return nil, fmt.Errorf("%s %s: %w", exp.ClassName, exp.ObjectName, ErrNotDecoded)
	}
	return exp.Object, nil
}

// MeshSection is a run of triangles drawn with one material slot.
type MeshSection struct {
	MaterialIndex int      `json:"material"`
	Indices       []uint32 `json:"indices"`
}

// MeshGeometry is the first LOD of a static mesh.
type MeshGeometry struct {
	Positions []vec3.T      `json:"positions"`
	Normals   []vec3.T      `json:"normals,omitempty"`
	TexCoords []vec2.T      `json:"uvs,omitempty"`
	Sections  []MeshSection `json:"sections"`
}

type StaticMesh struct {
	Materials []Index       `json:"materials"`
	Geometry  *MeshGeometry `json:"geometry,omitempty"`
}

type MeshBone struct {
	Name        string `json:"name"`
	ParentIndex int    `json:"parent"`
}

type SkeletalMesh struct {
	Materials   []Index    `json:"materials"`
	RefSkeleton []MeshBone `json:"refSkeleton"`
}

// AnimTrack holds the raw keys of one bone. Positions and Rotations may have
// different lengths.
type AnimTrack struct {
	Positions []vec3.T       `json:"positions"`
	Rotations []quaternion.T `json:"rotations"`
}

type AnimSequence struct {
	SequenceName     string      `json:"sequenceName,omitempty"`
	Bones            []string    `json:"bones"`
	RawAnimationData []AnimTrack `json:"tracks"`
}

// ExpressionKind tags a material expression.
type ExpressionKind int

const (
	ExpressionUnknown ExpressionKind = iota
	ExpressionScalarParameter
	ExpressionVectorParameter
	ExpressionTextureParameter
)

var expressionKindNames = map[string]ExpressionKind{
	"MaterialExpressionScalarParameter":          ExpressionScalarParameter,
	"MaterialExpressionVectorParameter":          ExpressionVectorParameter,
	"MaterialExpressionTextureSampleParameter2D": ExpressionTextureParameter,
	"MaterialExpressionTextureSampleParameter":   ExpressionTextureParameter,
}

// ExpressionKindOf maps an expression class name to its kind.
func ExpressionKindOf(class string) ExpressionKind {
	if k, ok := expressionKindNames[class]; ok {
		return k
	}
	return ExpressionUnknown
}

// Expression is one node of a material's shading graph. Only the field
// matching Kind is meaningful.
type Expression struct {
	Class         string         `json:"class"`
	Kind          ExpressionKind `json:"-"`
	ParameterName string         `json:"parameterName"`
	ScalarValue   float32        `json:"scalar,omitempty"`
	VectorValue   vec4.T         `json:"vector,omitempty"`
	Texture       Index          `json:"texture,omitempty"`
}

type Material struct {
	Expressions     []Expression `json:"expressions"`
	UniformTextures []Index      `json:"uniformTextures"`
}

// Rotator is an unreal rotation, 65536 units per turn.
type Rotator struct {
	Pitch int32 `json:"pitch"`
	Yaw   int32 `json:"yaw"`
	Roll  int32 `json:"roll"`
}

type StaticMeshActor struct {
	StaticMeshComponent Index    `json:"staticMeshComponent"`
	Location            vec3.T   `json:"location"`
	Rotation            Rotator  `json:"rotation"`
	DrawScale           *float32 `json:"drawScale,omitempty"`
	DrawScale3D         *vec3.T  `json:"drawScale3D,omitempty"`
}

// Scale3D folds DrawScale into DrawScale3D, both defaulting to one.
func (a *StaticMeshActor) Scale3D() vec3.T {
	s := vec3.T{1, 1, 1}
	if a.DrawScale3D != nil {
		s = *a.DrawScale3D
	}
	if a.DrawScale != nil {
		d := *a.DrawScale
		s = vec3.T{s[0] * d, s[1] * d, s[2] * d}
	}
	return s
}

type StaticMeshComponent struct {
	StaticMesh Index `json:"staticMesh"`
}

// PixelFormat names the layout of Texture2D.Pixels.
type PixelFormat string

const (
	PixelRGBA8 PixelFormat = "RGBA8"
	PixelBGRA8 PixelFormat = "BGRA8"
	PixelG8    PixelFormat = "G8"
)

// Texture2D carries the top mip, already decompressed by the decoder.
// Pixels is empty when the texture has no local payload.
type Texture2D struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Format PixelFormat `json:"format"`
	Pixels []byte      `json:"pixels,omitempty"`
}

func (*StaticMesh) isObject() {}
func (*SkeletalMesh) isObject() {}
func (*AnimSequence) isObject() {}
func (*Material) isObject() {}
func (*StaticMeshActor) isObject() {}
func (*StaticMeshComponent) isObject() {}
func (*Texture2D) isObject() {}
