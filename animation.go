package pccasset

import (
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"

	"github.com/flywave/go-pccasset/upk"
)

var identityRotation = quaternion.T{0, 0, 0, 1}

// Keyframe is one synchronized sample of a bone track.
type Keyframe struct {
	Index    int
	Position vec3.T
	Rotation quaternion.T
}

type BoneTrack struct {
	Bone   string
	Frames []Keyframe
}

// Animation is the merged tracks of one sequence, in decoded bone order.
type Animation struct {
	Name   string
	Tracks []BoneTrack
}

// MergeTrack pairs position and rotation keys frame by frame. The result is
// as long as the longer channel; past the end of the shorter one its last key
// is repeated unchanged. An empty channel contributes the zero position or
// the identity rotation.
func MergeTrack(positions []vec3.T, rotations []quaternion.T) []Keyframe {
	n := max(len(positions), len(rotations))
	frames := make([]Keyframe, n)
	for i := range frames {
		frames[i] = Keyframe{Index: i, Rotation: identityRotation}
		if len(positions) > 0 {
			frames[i].Position = positions[min(i, len(positions)-1)]
		}
		if len(rotations) > 0 {
			frames[i].Rotation = rotations[min(i, len(rotations)-1)]
		}
	}
	return frames
}

// SequenceTracks merges every bone of seq. Bones without a decoded track
// are left out.
func SequenceTracks(seq *upk.AnimSequence) []BoneTrack {
	tracks := make([]BoneTrack, 0, len(seq.Bones))
	for i, bone := range seq.Bones {
		if i >= len(seq.RawAnimationData) {
			break
		}
		raw := &seq.RawAnimationData[i]
		tracks = append(tracks, BoneTrack{Bone: bone, Frames: MergeTrack(raw.Positions, raw.Rotations)})
	}
	return tracks
}
