package skinning

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
)

const tol = 1e-9

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func single(bone int, rest mgl64.Vec3) Influence {
	return Influence{
		Bones:   [4]int{bone, 0, 0, 0},
		Weights: [4]float64{1, 0, 0, 0},
		Rest:    [4]mgl64.Vec3{rest},
	}
}

func TestSingleBoneZeroTranslationIsPureRotation(t *testing.T) {
	q := mathutil.AxisAngle(mgl64.Vec3{0.3, 1, -0.2}, 1.7)
	poses := []mathutil.DualQuat{mathutil.FromRigid(q, mgl64.Vec3{})}
	v := mgl64.Vec3{0.5, -1, 2}

	vecNear(t, q.Rotate(v), BlendVertex(poses, single(0, v)))
}

func TestSingleBoneRigid(t *testing.T) {
	q := mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	joint := mgl64.Vec3{1, 2, 3}
	poses := []mathutil.DualQuat{mathutil.FromRigid(q, joint)}
	v := mgl64.Vec3{1, 0, 0}

	vecNear(t, mgl64.Vec3{1, 3, 3}, BlendVertex(poses, single(0, v)))
}

func TestEqualPosesBlendToSameTransform(t *testing.T) {
	q := mathutil.AxisAngle(mgl64.Vec3{1, 0, 0}, 0.6)
	pose := mathutil.FromRigid(q, mgl64.Vec3{0, 1, 0})
	poses := []mathutil.DualQuat{pose, pose}
	v := mgl64.Vec3{0, 0.5, 0.2}
	inf := Influence{
		Bones:   [4]int{0, 1},
		Weights: [4]float64{0.25, 0.75},
		Rest:    [4]mgl64.Vec3{v, v},
	}
	vecNear(t, q.Rotate(v).Add(mgl64.Vec3{0, 1, 0}), BlendVertex(poses, inf))
}

func TestBlendHalfwayRotation(t *testing.T) {
	q := mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	poses := []mathutil.DualQuat{
		mathutil.FromRigid(mgl64.QuatIdent(), mgl64.Vec3{}),
		mathutil.FromRigid(q, mgl64.Vec3{}),
	}
	v := mgl64.Vec3{1, 0, 0}
	inf := Influence{
		Bones:   [4]int{0, 1},
		Weights: [4]float64{0.5, 0.5},
		Rest:    [4]mgl64.Vec3{v, v},
	}
	// Normalized blend of identity and 90° is the 45° rotation; length is kept.
	got := BlendVertex(poses, inf)
	vecNear(t, mgl64.Vec3{math.Sqrt2 / 2, math.Sqrt2 / 2, 0}, got)
}

func TestAntipodalInfluencesAreNotAligned(t *testing.T) {
	q := mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, 0.4)
	neg := mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	poses := []mathutil.DualQuat{
		mathutil.FromRigid(q, mgl64.Vec3{}),
		mathutil.FromRigid(neg, mgl64.Vec3{}),
	}
	v := mgl64.Vec3{1, 0, 0}
	inf := Influence{
		Bones:   [4]int{0, 1},
		Weights: [4]float64{0.5, 0.5},
		Rest:    [4]mgl64.Vec3{v, v},
	}
	// The sum cancels to zero; the vertex falls back to its rest position
	// instead of being rotated.
	assert.Equal(t, v, BlendVertex(poses, inf))
}

func TestDeformFollowsSkeleton(t *testing.T) {
	s, err := skeleton.New([]skeleton.BindBone{
		{Parent: -1, Position: mgl64.Vec3{0, 0, 0}, Endpoint: mgl64.Vec3{0, 1, 0}},
		{Parent: 0, Position: mgl64.Vec3{0, 1, 0}, Endpoint: mgl64.Vec3{0, 2, 0}},
	})
	require.NoError(t, err)

	top := mgl64.Vec3{0.1, 1.5, 0}
	bottom := mgl64.Vec3{0.1, 0.5, 0}
	infl := []Influence{
		Bind(s, bottom, [4]int{0}, [4]float64{1}),
		Bind(s, top, [4]int{1}, [4]float64{1}),
	}

	// Bind pose reproduces the input vertices.
	out := Deform(BonePoses(s), infl, nil)
	vecNear(t, bottom, out[0])
	vecNear(t, top, out[1])

	q := mathutil.AxisAngle(mgl64.Vec3{1, 0, 0}, math.Pi/2)
	s.RotateBone(1, q)
	out = Deform(BonePoses(s), infl, out)
	require.Len(t, out, 2)
	vecNear(t, bottom, out[0])
	vecNear(t, mgl64.Vec3{0.1, 1, 0.5}, out[1])
}

func TestBadBoneIndexKeepsRest(t *testing.T) {
	v := mgl64.Vec3{1, 2, 3}
	assert.Equal(t, v, BlendVertex(nil, single(5, v)))
}
