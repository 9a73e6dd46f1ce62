package playback

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skin-animator/internal/camera"
	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
	"skin-animator/internal/timeline"
)

const tol = 1e-9

func vecNear(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, msgAndArgs...)
	}
}

func twoBones(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s, err := skeleton.New([]skeleton.BindBone{
		{Parent: -1, Position: mgl64.Vec3{0, 0, 0}, Endpoint: mgl64.Vec3{0, 1, 0}},
		{Parent: 0, Position: mgl64.Vec3{0, 1, 0}, Endpoint: mgl64.Vec3{0, 2, 0}},
	})
	require.NoError(t, err)
	return s
}

func capture(t *testing.T, s *skeleton.Skeleton, store *timeline.Store, cam camera.Snapshot) {
	t.Helper()
	_, err := store.Capture(timeline.NewKeyframe(s, cam, nil), 1)
	require.NoError(t, err)
}

func TestSetFrameMidpointOfTwoKeyframes(t *testing.T) {
	s := twoBones(t)
	store := timeline.NewStore(0)
	capture(t, s, store, camera.Snapshot{})

	q := mathutil.AxisAngle(mgl64.Vec3{1, 0, 0}, math.Pi/2)
	s.RotateBone(1, q)
	capture(t, s, store, camera.Snapshot{})

	s.ResetPose()
	_, ok := SetFrame(s, store, store.MaxTime()/2)
	require.True(t, ok)

	want := mathutil.SlerpShort(mgl64.QuatIdent(), q, 0.5)
	c := s.Bone(1)
	assert.InDelta(t, want.W, c.Rotation.W, tol)
	vecNear(t, c.Rotation.V, want.V)

	tip := mgl64.Vec3{0, 1 + math.Cos(math.Pi/4), math.Sin(math.Pi/4)}
	vecNear(t, c.Endpoint, tip, "endpoint %v", c.Endpoint)
	vecNear(t, mgl64.Vec3{0, 1, 0}, c.Position)
}

func TestSetFrameReproducesKeyframesExactly(t *testing.T) {
	s := twoBones(t)
	store := timeline.NewStore(0)

	poses := []func(){
		func() {},
		func() { s.RotateBone(0, mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, 0.7)) },
		func() { s.TranslateBone(0, mgl64.Vec3{0.3, -0.2, 0.1}) },
		func() { s.RotateBone(1, mathutil.AxisAngle(mgl64.Vec3{1, 1, 0}, -1.1)) },
	}
	var want []skeleton.Pose
	for i, pose := range poses {
		pose()
		want = append(want, s.Pose())
		capture(t, s, store, camera.Snapshot{Position: mgl64.Vec3{float64(i), 0, -6}})
	}

	times := store.Times()
	for i := range poses {
		s.ResetPose()
		cam, ok := SetNormalized(s, store, times[i])
		require.True(t, ok)
		assert.Equal(t, want[i], s.Pose(), "keyframe %d", i)
		assert.Equal(t, float64(i), cam.Position.X())
	}
}

func TestSetFrameHoldsOutsideTicks(t *testing.T) {
	s := twoBones(t)
	store := timeline.NewStore(0)
	capture(t, s, store, camera.Snapshot{})
	s.RotateBone(0, mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, 1))
	last := s.Pose()
	capture(t, s, store, camera.Snapshot{})

	s.ResetPose()
	_, ok := SetFrame(s, store, 5)
	require.True(t, ok)
	assert.Equal(t, last, s.Pose())
}

func TestSetFrameSingleKeyframe(t *testing.T) {
	s := twoBones(t)
	store := timeline.NewStore(0)
	s.RotateBone(1, mathutil.AxisAngle(mgl64.Vec3{1, 0, 0}, 0.3))
	want := s.Pose()
	capture(t, s, store, camera.Snapshot{})

	s.ResetPose()
	_, ok := SetFrame(s, store, 0)
	require.True(t, ok)
	assert.Equal(t, want, s.Pose())
}

func TestSetFrameEmpty(t *testing.T) {
	s := twoBones(t)
	_, ok := SetFrame(s, timeline.NewStore(0), 0)
	assert.False(t, ok)

	empty, err := skeleton.New(nil)
	require.NoError(t, err)
	store := timeline.NewStore(0)
	capture(t, s, store, camera.Snapshot{})
	_, ok = SetFrame(empty, store, 0)
	assert.False(t, ok)
}

func TestInterpolateAntipodalKeyframes(t *testing.T) {
	s := twoBones(t)
	q := mathutil.AxisAngle(mgl64.Vec3{0, 1, 0}, 2.5)
	negQ := mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	id := mgl64.QuatIdent()

	kf := func(rot mgl64.Quat) timeline.Keyframe {
		return timeline.Keyframe{
			Orientations: []mgl64.Quat{id, rot},
			Positions:    []mgl64.Vec3{{0, 0, 0}, {0, 1, 0}},
		}
	}

	_, ok := Interpolate(s, kf(id), kf(q), 0.5)
	require.True(t, ok)
	plain := s.Bone(1).Rotation

	_, ok = Interpolate(s, kf(id), kf(negQ), 0.5)
	require.True(t, ok)
	flipped := s.Bone(1).Rotation

	assert.InDelta(t, plain.W, flipped.W, tol)
	vecNear(t, flipped.V, plain.V)
	assert.GreaterOrEqual(t, flipped.W, 0.0)
}

func TestInterpolateChildFollowsParentTip(t *testing.T) {
	s := twoBones(t)
	id := mgl64.QuatIdent()
	a := timeline.Keyframe{
		Orientations: []mgl64.Quat{id, id},
		Positions:    []mgl64.Vec3{{0, 0, 0}, {0, 1, 0}},
	}
	// Root swung 90° about Z: its tip, and the child's joint, move to (-1,0,0).
	rz := mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	b := timeline.Keyframe{
		Orientations: []mgl64.Quat{rz, rz},
		Positions:    []mgl64.Vec3{{0, 0, 0}, {-1, 0, 0}},
	}

	_, ok := Interpolate(s, a, b, 0.5)
	require.True(t, ok)

	// The child stays attached to the slerped root tip instead of cutting the
	// chord between the two stored joints.
	root := s.Bone(0)
	child := s.Bone(1)
	vecNear(t, root.Endpoint, child.Position)
	assert.InDelta(t, 1, root.Endpoint.Len(), tol)
	for _, bone := range s.Bones() {
		want := bone.Position.Add(bone.Rotation.Rotate(bone.BindVector()))
		vecNear(t, bone.Endpoint, want)
		assert.True(t, mathutil.IsUnit(bone.Rotation, tol))
	}
}

func TestInterpolateRejectsMismatchedKeyframe(t *testing.T) {
	s := twoBones(t)
	kf := timeline.Keyframe{
		Orientations: []mgl64.Quat{mgl64.QuatIdent()},
		Positions:    []mgl64.Vec3{{}},
	}
	_, ok := Interpolate(s, kf, kf, 0.5)
	assert.False(t, ok)
}
