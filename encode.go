package pccasset

import (
	"strconv"

	"github.com/flywave/go-pccasset/flattext"
)

// EncodeNames joins names with '#': the location, static mesh and bone
// payloads.
func EncodeNames(names []string) string {
	return flattext.Join(names)
}

// EncodeMaterials writes one "%index<N>" section per slot.
func EncodeMaterials(recs []MaterialRecord) string {
	var b flattext.Builder
	for i := range recs {
		rec := &recs[i]
		b.Field("%index" + strconv.Itoa(rec.Index))
		if !rec.Resolved {
			continue
		}
		b.Fields("export", rec.Name, "textures")
		for _, tex := range rec.Textures {
			b.Field(tex.Name)
		}
		b.Field("expressions")
		for _, p := range rec.Parameters {
			encodeParameter(&b, p)
		}
	}
	return b.String()
}

func encodeParameter(b *flattext.Builder, p Parameter) {
	switch p := p.(type) {
	case *ScalarParameter:
		b.Fields(p.Name, "scalar").Float(p.Value)
	case *VectorParameter:
		v := p.Value
		b.Fields(p.Name, "vector")
		b.Raw(flattext.FormatFloat(v[3])).EndSubGroup().
			Raw(flattext.FormatFloat(v[0])).EndSubGroup().
			Raw(flattext.FormatFloat(v[1])).EndSubGroup().
			Field(flattext.FormatFloat(v[2]))
	case *TextureParameter:
		b.Fields(p.Name, "texture", p.Texture.Name)
	}
}

// EncodeActors writes "<mesh>#<matrix>" pairs, the matrix joined by '%'.
func EncodeActors(placements []ActorPlacement) string {
	var b flattext.Builder
	for i := range placements {
		b.Field(placements[i].Mesh)
		b.Field(flattext.FormatMatrix(&placements[i].Transform, flattext.SubFieldSep))
	}
	return b.String()
}

// EncodeAnimations writes each sequence as "<name>$" followed by one
// '%'-terminated record per bone and a closing '$'.
func EncodeAnimations(anims []Animation) string {
	var b flattext.Builder
	for _, anim := range anims {
		b.Raw(anim.Name).EndGroup()
		for _, track := range anim.Tracks {
			b.Field(track.Bone)
			for _, f := range track.Frames {
				b.Int(f.Index).
					Float(f.Position[0]).Float(f.Position[1]).Float(f.Position[2]).
					Float(f.Rotation[3]).Float(f.Rotation[0]).Float(f.Rotation[1]).Float(f.Rotation[2])
			}
			b.EndSubGroup()
		}
		b.EndGroup()
	}
	return b.String()
}
