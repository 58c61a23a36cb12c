package pccasset

import (
	"math"
	"strings"

	"github.com/flywave/go3d/mat4"

	"github.com/flywave/go-pccasset/upk"
)

// unrealToRadians converts rotator units, 65536 per turn.
const unrealToRadians = 2 * math.Pi / 65536

// ActorPlacement is a static mesh placed in a level.
type ActorPlacement struct {
	Mesh      string
	Transform mat4.T
}

// LocalToWorld builds scale * rotation * translation for a row-vector
// convention: row i of the result is m[i] and the translation is m[3].
func LocalToWorld(a *upk.StaticMeshActor) mat4.T {
	sp, cp := math.Sincos(float64(a.Rotation.Pitch) * unrealToRadians)
	sy, cy := math.Sincos(float64(a.Rotation.Yaw) * unrealToRadians)
	sr, cr := math.Sincos(float64(a.Rotation.Roll) * unrealToRadians)
	s := a.Scale3D()
	sx, sy3, sz := float64(s[0]), float64(s[1]), float64(s[2])

	var m mat4.T
	m[0] = row(cp*cy*sx, cp*sy*sx, sp*sx, 0)
	m[1] = row((sr*sp*cy-cr*sy)*sy3, (sr*sp*sy+cr*cy)*sy3, -sr*cp*sy3, 0)
	m[2] = row(-(cr*sp*cy+sr*sy)*sz, (cy*sr-cr*sp*sy)*sz, cr*cp*sz, 0)
	m[3] = row(float64(a.Location[0]), float64(a.Location[1]), float64(a.Location[2]), 1)
	return m
}

func row(a, b, c, d float64) [4]float32 {
	return [4]float32{float32(a), float32(b), float32(c), float32(d)}
}

// Placements lists the static mesh actors of the package's level whose
// component points at a mesh. Anything else on the level is skipped.
func (s *Session) Placements() []ActorPlacement {
	pkg := s.root
	if pkg == nil || pkg.Level == nil {
		return nil
	}
	var out []ActorPlacement
	for _, idx := range pkg.Level.Actors {
		exp, ok := pkg.Export(idx)
		if !ok || !strings.EqualFold(exp.ClassName, upk.ClassStaticMeshActor) {
			continue
		}
		actor, ok := exp.Object.(*upk.StaticMeshActor)
		if !ok || actor.StaticMeshComponent.IsNull() {
			continue
		}
		compExp, ok := pkg.Export(actor.StaticMeshComponent)
		if !ok {
			continue
		}
		comp, ok := compExp.Object.(*upk.StaticMeshComponent)
		if !ok || comp.StaticMesh.IsNull() {
			continue
		}
		mesh := leafName(pkg.InstancedFullPath(comp.StaticMesh))
		if mesh == "" {
			s.logger.Debug("actor mesh out of range", "actor", exp.ObjectName, "ref", comp.StaticMesh)
			continue
		}
		out = append(out, ActorPlacement{Mesh: mesh, Transform: LocalToWorld(actor)})
	}
	return out
}
