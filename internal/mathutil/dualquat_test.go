package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDualQuatRigidTransform(t *testing.T) {
	rot := AxisAngle(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	trans := mgl64.Vec3{1, 2, 3}
	dq := FromRigid(rot, trans)

	v := mgl64.Vec3{1, 0, 0}
	vecNear(t, rot.Rotate(v).Add(trans), dq.TransformPoint(v))
	vecNear(t, trans, dq.Translation())
}

func TestDualQuatPureRotation(t *testing.T) {
	rot := AxisAngle(mgl64.Vec3{1, 1, 1}, 1.1)
	dq := FromRigid(rot, mgl64.Vec3{})

	v := mgl64.Vec3{0.3, -2, 4}
	vecNear(t, rot.Rotate(v), dq.TransformPoint(v))
	assert.Equal(t, mgl64.Quat{}, dq.Dual)
}

func TestDualQuatNormalized(t *testing.T) {
	dq := FromRigid(AxisAngle(mgl64.Vec3{0, 1, 0}, 0.7), mgl64.Vec3{0, 5, 0}).Scale(3)
	n := dq.Normalized()
	assert.InDelta(t, 1.0, n.Real.Len(), tol)
	vecNear(t, mgl64.Vec3{0, 5, 0}, n.Translation())

	zero := DualQuat{}
	assert.Equal(t, zero, zero.Normalized())
}
