package flattext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flywave/go3d/mat4"
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// ParseMatrix reads sixteen sep-joined components written by FormatMatrix.
func ParseMatrix(s string, sep byte) (mat4.T, error) {
	var m mat4.T
	parts := strings.Split(s, string(sep))
	if len(parts) != 16 {
		return m, fmt.Errorf("matrix: want 16 components, got %d", len(parts))
	}
	for i, p := range parts {
		f, err := ParseFloat(p)
		if err != nil {
			return m, fmt.Errorf("matrix component %d: %w", i, err)
		}
		m[i/4][i%4] = f
	}
	return m, nil
}

// Placement is one decoded actor record.
type Placement struct {
	Mesh      string
	Transform mat4.T
}

// ParseActors reads "<mesh>#<matrix>#..." payloads.
func ParseActors(s string) ([]Placement, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, string(FieldSep))
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("actors: odd field count %d", len(parts))
	}
	out := make([]Placement, 0, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		m, err := ParseMatrix(parts[i+1], SubFieldSep)
		if err != nil {
			return nil, fmt.Errorf("actor %s: %w", parts[i], err)
		}
		out = append(out, Placement{Mesh: parts[i], Transform: m})
	}
	return out, nil
}

// MaterialParam is one parsed expression entry. Value holds a float32,
// a vec4.T in W,X,Y,Z order, or a texture name.
type MaterialParam struct {
	Name  string
	Type  string
	Value any
}

// MaterialSection is one "%index<N>" block of a mesh export payload.
type MaterialSection struct {
	Index      int
	Resolved   bool
	Name       string
	Textures   []string
	Parameters []MaterialParam
}

const indexPrefix = "%index"

// ParseMaterials walks a mesh export payload the same way the importer
// does: a state machine over '#' fields.
func ParseMaterials(s string) ([]MaterialSection, error) {
	if s == "" {
		return nil, nil
	}
	const (
		modeHeader = iota
		modeTextures
		modeExpressions
	)
	var (
		out  []MaterialSection
		cur  *MaterialSection
		mode int
	)
	parts := strings.Split(s, string(FieldSep))
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		if strings.HasPrefix(part, indexPrefix) {
			n, err := strconv.Atoi(part[len(indexPrefix):])
			if err != nil {
				return nil, fmt.Errorf("material index %q: %w", part, err)
			}
			out = append(out, MaterialSection{Index: n})
			cur = &out[len(out)-1]
			mode = modeHeader
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("field %q before first material index", part)
		}
		switch mode {
		case modeHeader:
			switch part {
			case "export":
				if i+1 >= len(parts) {
					return nil, fmt.Errorf("material %d: missing name", cur.Index)
				}
				cur.Resolved = true
				cur.Name = parts[i+1]
				i++
			case "textures":
				mode = modeTextures
			}
		case modeTextures:
			if part == "expressions" {
				mode = modeExpressions
				continue
			}
			cur.Textures = append(cur.Textures, part)
		case modeExpressions:
			if i+2 >= len(parts) {
				return nil, fmt.Errorf("material %d: truncated expression %q", cur.Index, part)
			}
			p := MaterialParam{Name: part, Type: parts[i+1]}
			raw := parts[i+2]
			i += 2
			switch p.Type {
			case "scalar":
				f, err := ParseFloat(raw)
				if err != nil {
					return nil, fmt.Errorf("scalar %s: %w", p.Name, err)
				}
				p.Value = f
			case "vector":
				v, err := parseWXYZ(raw)
				if err != nil {
					return nil, fmt.Errorf("vector %s: %w", p.Name, err)
				}
				p.Value = v
			default:
				p.Value = raw
			}
			cur.Parameters = append(cur.Parameters, p)
		}
	}
	return out, nil
}

// parseWXYZ reads "w%x%y%z" into a vec4.T laid out X,Y,Z,W.
func parseWXYZ(s string) (vec4.T, error) {
	var v vec4.T
	parts := strings.Split(s, string(SubFieldSep))
	if len(parts) != 4 {
		return v, fmt.Errorf("want 4 components, got %d", len(parts))
	}
	var c [4]float32
	for i, p := range parts {
		f, err := ParseFloat(p)
		if err != nil {
			return v, err
		}
		c[i] = f
	}
	return vec4.T{c[1], c[2], c[3], c[0]}, nil
}

// Frame is one parsed keyframe.
type Frame struct {
	Index    int
	Position vec3.T
	Rotation quaternion.T
}

// Track is the parsed frames of one bone.
type Track struct {
	Bone   string
	Frames []Frame
}

// Animation is one parsed sequence.
type Animation struct {
	Name   string
	Tracks []Track
}

const fieldsPerFrame = 8

// ParseAnimations reads "<name>$<bone>#<frames...>#%...$..." payloads.
func ParseAnimations(s string) ([]Animation, error) {
	if s == "" {
		return nil, nil
	}
	groups := strings.Split(s, string(GroupSep))
	var out []Animation
	for g := 0; g+1 < len(groups); g += 2 {
		anim := Animation{Name: groups[g]}
		bones := strings.Split(groups[g+1], string(SubFieldSep))
		// the bone section ends with '%', leaving an empty tail
		for _, bone := range bones[:len(bones)-1] {
			t, err := parseTrack(bone)
			if err != nil {
				return nil, fmt.Errorf("animation %s: %w", anim.Name, err)
			}
			anim.Tracks = append(anim.Tracks, t)
		}
		out = append(out, anim)
	}
	return out, nil
}

func parseTrack(s string) (Track, error) {
	fields := strings.Split(s, string(FieldSep))
	// trailing '#' after the last number
	fields = fields[:len(fields)-1]
	if len(fields) == 0 {
		return Track{}, fmt.Errorf("empty bone record")
	}
	t := Track{Bone: fields[0]}
	nums := fields[1:]
	if len(nums)%fieldsPerFrame != 0 {
		return t, fmt.Errorf("bone %s: %d values is not a whole number of frames", t.Bone, len(nums))
	}
	for i := 0; i < len(nums); i += fieldsPerFrame {
		idx, err := strconv.Atoi(nums[i])
		if err != nil {
			return t, fmt.Errorf("bone %s: frame index: %w", t.Bone, err)
		}
		var c [7]float32
		for j := range c {
			if c[j], err = ParseFloat(nums[i+1+j]); err != nil {
				return t, fmt.Errorf("bone %s frame %d: %w", t.Bone, idx, err)
			}
		}
		t.Frames = append(t.Frames, Frame{
			Index:    idx,
			Position: vec3.T{c[0], c[1], c[2]},
			Rotation: quaternion.T{c[4], c[5], c[6], c[3]},
		})
	}
	return t, nil
}
