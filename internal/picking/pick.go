package picking

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/skeleton"
)

// DefaultRadius is the picking radius of a bone.
const DefaultRadius = 0.07

// Hit is a bone picked by a ray.
type Hit struct {
	Bone  int
	T     float64
	Point mgl64.Vec3
}

// Pick returns the bone nearest along ray. Equal distances go to the lowest
// bone id.
func Pick(s *skeleton.Skeleton, ray Ray, radius float64) (Hit, bool) {
	hit := Hit{Bone: -1}
	bones := s.Bones()
	for i := range bones {
		t, ok := IntersectBone(&bones[i], ray, radius)
		if !ok {
			continue
		}
		if hit.Bone < 0 || t < hit.T {
			hit = Hit{Bone: i, T: t}
		}
	}
	if hit.Bone < 0 {
		return Hit{Bone: -1}, false
	}
	hit.Point = ray.At(hit.T)
	return hit, true
}
