package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
)

// BindBone is one bone as delivered by the scene loader: parent link and the
// bind-pose joint/tip in world space.
type BindBone struct {
	Parent   int
	Position mgl64.Vec3
	Endpoint mgl64.Vec3
}

// Bone holds the bind pose and current pose of one bone in the arena.
// Parent and Children are indices into the owning Skeleton.
type Bone struct {
	ID       int
	Parent   int // -1 for roots
	Children []int

	Position mgl64.Vec3 // current joint
	Endpoint mgl64.Vec3 // current tip
	Rotation mgl64.Quat // relative to bind, unit, W >= 0

	InitialPosition mgl64.Vec3
	InitialEndpoint mgl64.Vec3
}

// BindVector is the bone's rest direction scaled to its rest length.
func (b *Bone) BindVector() mgl64.Vec3 {
	return b.InitialEndpoint.Sub(b.InitialPosition)
}

// Vector is the current joint-to-tip vector.
func (b *Bone) Vector() mgl64.Vec3 {
	return b.Endpoint.Sub(b.Position)
}

// Length is the current (and, by construction, rest) bone length.
func (b *Bone) Length() float64 {
	return b.Vector().Len()
}

// Direction is the unit joint-to-tip direction, zero for degenerate bones.
func (b *Bone) Direction() mgl64.Vec3 {
	return mathutil.SafeNormalize(b.Vector())
}

// IsRoot reports whether the bone has no parent.
func (b *Bone) IsRoot() bool {
	return b.Parent < 0
}

// syncEndpoint re-establishes endpoint = position + rotate(bind vector, rotation).
func (b *Bone) syncEndpoint() {
	b.Endpoint = b.Position.Add(b.Rotation.Rotate(b.BindVector()))
}
