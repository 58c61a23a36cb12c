package pccasset

import (
	"errors"
	"strings"

	"github.com/flywave/go3d/vec4"

	"github.com/flywave/go-pccasset/upk"
)

// Parameter is one named value pulled out of a material's expression graph:
// *ScalarParameter, *VectorParameter or *TextureParameter.
type Parameter interface {
	ParameterName() string
	isParameter()
}

type ScalarParameter struct {
	Name  string
	Value float32
}

// VectorParameter keeps Value in X,Y,Z,W layout; the wire form puts W first.
type VectorParameter struct {
	Name  string
	Value vec4.T
}

type TextureParameter struct {
	Name    string
	Texture TextureRef
}

func (p *ScalarParameter) ParameterName() string { return p.Name }
func (p *VectorParameter) ParameterName() string { return p.Name }
func (p *TextureParameter) ParameterName() string { return p.Name }

func (*ScalarParameter) isParameter() {}
func (*VectorParameter) isParameter() {}
func (*TextureParameter) isParameter() {}

// TextureRef is a resolved, exportable texture.
type TextureRef struct {
	Name  string
	Image *upk.Texture2D
}

// MaterialRecord is the extraction result of one material slot. An
// unresolved slot keeps its Index and nothing else.
type MaterialRecord struct {
	Index      int
	Resolved   bool
	Name       string
	Textures   []TextureRef
	Parameters []Parameter
}

// isCubeTexture reports environment map classes, which are never exported.
func isCubeTexture(class string) bool {
	return strings.EqualFold(class, upk.ClassTextureCube) ||
		strings.EqualFold(class, "TextureRenderTargetCube")
}

// ExtractMaterials resolves every material slot of a mesh and flattens its
// expression graph. Textures are written through tw as they are found; a nil
// tw only collects them.
func (s *Session) ExtractMaterials(pkg *upk.Package, refs []upk.Index, tw *TextureWriter) []MaterialRecord {
	out := make([]MaterialRecord, 0, len(refs))
	for i, ref := range refs {
		rec := MaterialRecord{Index: i}
		exp, ok := s.Resolve(pkg, ref)
		if !ok {
			out = append(out, rec)
			continue
		}
		rec.Resolved = true
		rec.Name = exp.ObjectName
		obj, err := exp.Decoded()
		if err != nil {
			s.logger.Debug("material has no decoded graph", "material", exp.InstancedFullPath(), "err", err)
			out = append(out, rec)
			continue
		}
		mat, ok := obj.(*upk.Material)
		if !ok {
			s.logger.Debug("material slot is not a material", "material", exp.InstancedFullPath(), "class", exp.ClassName)
			out = append(out, rec)
			continue
		}
		owner := exp.FileRef()
		for _, tref := range mat.UniformTextures {
			if tex, ok := s.texture(owner, tref, tw); ok {
				rec.Textures = append(rec.Textures, tex)
			}
		}
		for _, expr := range mat.Expressions {
			if p := s.parameter(owner, &expr, tw); p != nil {
				rec.Parameters = append(rec.Parameters, p)
			}
		}
		out = append(out, rec)
	}
	return out
}

func (s *Session) parameter(owner *upk.Package, expr *upk.Expression, tw *TextureWriter) Parameter {
	switch expr.Kind {
	case upk.ExpressionScalarParameter:
		return &ScalarParameter{Name: expr.ParameterName, Value: expr.ScalarValue}
	case upk.ExpressionVectorParameter:
		return &VectorParameter{Name: expr.ParameterName, Value: expr.VectorValue}
	case upk.ExpressionTextureParameter:
		tex, ok := s.texture(owner, expr.Texture, tw)
		if !ok {
			return nil
		}
		return &TextureParameter{Name: expr.ParameterName, Texture: tex}
	default:
		return nil
	}
}

// texture resolves ref to an exportable texture and writes its image.
// Cube maps and textures without pixels are skipped. A failed write is
// logged and the texture is still reported.
func (s *Session) texture(owner *upk.Package, ref upk.Index, tw *TextureWriter) (TextureRef, bool) {
	exp, ok := s.Resolve(owner, ref)
	if !ok {
		return TextureRef{}, false
	}
	if isCubeTexture(exp.ClassName) {
		return TextureRef{}, false
	}
	obj, err := exp.Decoded()
	if err != nil {
		s.logger.Debug("texture not decoded", "texture", exp.InstancedFullPath(), "err", err)
		return TextureRef{}, false
	}
	img, ok := obj.(*upk.Texture2D)
	if !ok || len(img.Pixels) == 0 {
		s.logger.Debug("texture has no payload", "texture", exp.InstancedFullPath())
		return TextureRef{}, false
	}
	tr := TextureRef{Name: exp.ObjectName, Image: img}
	if tw != nil {
		if err := tw.Write(tr.Name, img); err != nil {
			if errors.Is(err, ErrIOFailure) {
				s.logger.Warn("texture export failed", "texture", tr.Name, "err", err)
			} else {
				s.logger.Debug("texture not exportable", "texture", tr.Name, "err", err)
			}
		}
	}
	return tr, true
}
