package skeleton

import "github.com/go-gl/mathgl/mgl64"

// Pose is a per-bone snapshot of joint positions and rotations, indexed by
// bone id.
type Pose struct {
	Orientations []mgl64.Quat
	Positions    []mgl64.Vec3
}

// Pose snapshots the current state. The returned slices are owned by the caller.
func (s *Skeleton) Pose() Pose {
	n := s.Len()
	p := Pose{
		Orientations: make([]mgl64.Quat, n),
		Positions:    make([]mgl64.Vec3, n),
	}
	for i := 0; i < n; i++ {
		p.Orientations[i] = s.bones[i].Rotation
		p.Positions[i] = s.bones[i].Position
	}
	return p
}

// SetPose installs a snapshot taken from a skeleton with the same bone count.
// Mismatched snapshots are ignored.
func (s *Skeleton) SetPose(p Pose) bool {
	n := s.Len()
	if n == 0 || len(p.Orientations) != n || len(p.Positions) != n {
		return false
	}
	for i := 0; i < n; i++ {
		b := &s.bones[i]
		b.Rotation = p.Orientations[i]
		b.Position = p.Positions[i]
		b.syncEndpoint()
	}
	return true
}

// SetBone overwrites one bone's joint and rotation, re-deriving its endpoint.
// Used by the interpolator, which visits parents before children.
func (s *Skeleton) SetBone(id int, position mgl64.Vec3, rotation mgl64.Quat) {
	b := s.Bone(id)
	if b == nil {
		return
	}
	b.Position = position
	b.Rotation = rotation
	b.syncEndpoint()
}
