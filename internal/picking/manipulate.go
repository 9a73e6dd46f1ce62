package picking

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
)

// Manipulator turns mouse drags on a picked bone into pose edits. The depth
// along the ray at which the bone was grabbed stays fixed for the drag.
type Manipulator struct {
	Translate bool

	bone   int
	depth  float64 // ray parameter of the grab point
	along  float64 // grab point distance from the joint, in bone lengths
	active bool
}

// Begin starts a drag from hit, which was picked with ray.
func (m *Manipulator) Begin(s *skeleton.Skeleton, hit Hit, ray Ray) bool {
	b := s.Bone(hit.Bone)
	if b == nil || b.Length() < mathutil.Epsilon {
		return false
	}
	m.bone = hit.Bone
	m.depth = hit.T
	m.along = ray.At(hit.T).Sub(b.Position).Len() / b.Length()
	m.active = true
	return true
}

// Active reports whether a drag is in progress.
func (m *Manipulator) Active() bool { return m.active }

// Bone returns the dragged bone, or -1.
func (m *Manipulator) Bone() int {
	if !m.active {
		return -1
	}
	return m.bone
}

// End finishes the drag.
func (m *Manipulator) End() {
	m.active = false
	m.bone = -1
}

// Drag moves the grabbed bone toward ray. In rotate mode the bone turns in
// the screen plane toward the grab point under the cursor, keeping its
// length and its depth along forward. In translate mode the grab point
// follows the cursor and the subtree moves with it.
func (m *Manipulator) Drag(s *skeleton.Skeleton, ray Ray, forward mgl64.Vec3) bool {
	if !m.active {
		return false
	}
	b := s.Bone(m.bone)
	if b == nil {
		m.End()
		return false
	}
	end := ray.At(m.depth)

	if m.Translate {
		grab := b.Position.Add(b.Vector().Mul(m.along))
		s.TranslateBone(m.bone, b.Position.Add(end.Sub(grab)))
		return true
	}

	v := b.Vector()
	look := mathutil.SafeNormalize(forward)
	target := mathutil.SafeNormalize(end.Sub(b.Position))
	target = target.Sub(look.Mul(look.Dot(target)))
	target = mathutil.SafeNormalize(target).Mul(look.Cross(v).Len())
	target = target.Add(look.Mul(look.Dot(v)))
	if target.Len() < mathutil.Epsilon {
		return false
	}
	s.RotateBone(m.bone, mathutil.RotationBetween(v, target))
	return true
}

// Roll twists the bone about its own axis.
func Roll(s *skeleton.Skeleton, bone int, rad float64) {
	s.RollBone(bone, rad)
}
