package skinning

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
)

// MaxInfluences is the number of bones that may deform one vertex.
const MaxInfluences = 4

// Influence is the read-only skin binding of one vertex. Rest holds one
// candidate rest position per influencing bone, relative to that bone's
// bind joint.
type Influence struct {
	Bones   [MaxInfluences]int
	Weights [MaxInfluences]float64
	Rest    [MaxInfluences]mgl64.Vec3
}

// BonePoses converts the skeleton's current pose to one dual quaternion per
// bone: rotation = bone.Rotation, translation = current joint position.
func BonePoses(s *skeleton.Skeleton) []mathutil.DualQuat {
	bones := s.Bones()
	poses := make([]mathutil.DualQuat, len(bones))
	for i := range bones {
		poses[i] = mathutil.FromRigid(bones[i].Rotation, bones[i].Position)
	}
	return poses
}

// BlendVertex blends the influencing poses by weight and applies the single
// resulting rigid transform to the weight-blended rest position.
//
// Contributing rotations are summed as stored. No hemisphere alignment is
// done between them, so two influences on opposite sides of the double cover
// partially cancel.
func BlendVertex(poses []mathutil.DualQuat, inf Influence) mgl64.Vec3 {
	var blend mathutil.DualQuat
	var rest mgl64.Vec3
	for k := 0; k < MaxInfluences; k++ {
		w := inf.Weights[k]
		if w == 0 {
			continue
		}
		rest = rest.Add(inf.Rest[k].Mul(w))
		idx := inf.Bones[k]
		if idx < 0 || idx >= len(poses) {
			continue
		}
		blend = blend.Add(poses[idx].Scale(w))
	}

	if blend.Real.Len() < mathutil.Epsilon {
		return rest
	}
	return blend.Normalized().TransformPoint(rest)
}

// Deform writes the skinned position of every vertex into dst (grown as
// needed) and returns it. An empty pose set leaves vertices at their blended
// rest positions.
func Deform(poses []mathutil.DualQuat, influences []Influence, dst []mgl64.Vec3) []mgl64.Vec3 {
	if cap(dst) < len(influences) {
		dst = make([]mgl64.Vec3, len(influences))
	}
	dst = dst[:len(influences)]
	for i := range influences {
		dst[i] = BlendVertex(poses, influences[i])
	}
	return dst
}

// Bind computes the bind-relative rest candidates for a world-space vertex.
// Loaders use this when they only carry absolute bind positions.
func Bind(s *skeleton.Skeleton, vertex mgl64.Vec3, bones [MaxInfluences]int, weights [MaxInfluences]float64) Influence {
	inf := Influence{Bones: bones, Weights: weights}
	for k := 0; k < MaxInfluences; k++ {
		b := s.Bone(bones[k])
		if b == nil || weights[k] == 0 {
			continue
		}
		inf.Rest[k] = vertex.Sub(b.InitialPosition)
	}
	return inf
}
