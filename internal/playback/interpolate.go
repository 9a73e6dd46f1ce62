package playback

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/camera"
	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
	"skin-animator/internal/timeline"
)

// Interpolate poses s between keyframes a and b at local factor u and returns
// the interpolated camera. Bones are visited parent first: roots lerp their
// joint, children carry their keyframe-time offset from the parent tip over
// to the parent's freshly interpolated tip. Keyframes captured from a
// different bone count leave the skeleton untouched.
func Interpolate(s *skeleton.Skeleton, a, b timeline.Keyframe, u float64) (camera.Snapshot, bool) {
	n := s.Len()
	if n == 0 || a.Bones() != n || b.Bones() != n || len(a.Positions) != n || len(b.Positions) != n {
		return camera.Snapshot{}, false
	}

	s.WalkAll(func(bone *skeleton.Bone) {
		id := bone.ID
		rot := mathutil.SlerpShort(a.Orientations[id], b.Orientations[id], u)
		pos := mathutil.Lerp(a.Positions[id], b.Positions[id], u)

		if !bone.IsRoot() {
			parent := s.Bone(bone.Parent)
			bind := parent.BindVector()
			tipA := keyframeTip(a, bone.Parent, bind)
			tipB := keyframeTip(b, bone.Parent, bind)
			// lerp(posA - tipA, posB - tipB) + current tip, grouped so that
			// u = 0 or 1 reproduces the stored joint bit for bit.
			pos = pos.Add(parent.Endpoint.Sub(mathutil.Lerp(tipA, tipB, u)))
		}
		s.SetBone(id, pos, rot)
	})

	return camera.Interpolate(a.Camera, b.Camera, u), true
}

// keyframeTip rebuilds a parent's tip as it was when kf was captured.
func keyframeTip(kf timeline.Keyframe, parent int, bind mgl64.Vec3) mgl64.Vec3 {
	return kf.Positions[parent].Add(kf.Orientations[parent].Rotate(bind))
}

// SetFrame poses s at playback time t in [0, store.MaxTime()].
func SetFrame(s *skeleton.Skeleton, store *timeline.Store, t float64) (camera.Snapshot, bool) {
	end := store.MaxTime()
	if end == 0 {
		return SetNormalized(s, store, 0)
	}
	return SetNormalized(s, store, t/end)
}

// SetNormalized poses s at timeline position x in [0,1]. Before the first
// tick the first keyframe is held; at or after the last tick the last
// keyframe is held. A tick value reproduces its keyframe exactly.
func SetNormalized(s *skeleton.Skeleton, store *timeline.Store, x float64) (camera.Snapshot, bool) {
	n := store.Len()
	if n == 0 || s.Empty() {
		return camera.Snapshot{}, false
	}
	if n == 1 {
		kf, _ := store.Keyframe(0)
		return Apply(s, kf)
	}

	i, u, ok := store.Ticks().Interval(x)
	if !ok {
		return camera.Snapshot{}, false
	}
	a, _ := store.Keyframe(i)
	b, _ := store.Keyframe(i + 1)
	return Interpolate(s, a, b, u)
}

// Apply poses s exactly as keyframe kf.
func Apply(s *skeleton.Skeleton, kf timeline.Keyframe) (camera.Snapshot, bool) {
	return Interpolate(s, kf, kf, 0)
}
