package mathutil

import "github.com/go-gl/mathgl/mgl64"

// DualQuat is a rigid transform packed as a rotation (Real) and a
// translation-carrying part (Dual = ½·t·Real).
type DualQuat struct {
	Real mgl64.Quat
	Dual mgl64.Quat
}

// FromRigid builds the dual quaternion for "rotate by rot, then translate by t".
func FromRigid(rot mgl64.Quat, t mgl64.Vec3) DualQuat {
	pure := mgl64.Quat{W: 0, V: t}
	return DualQuat{
		Real: rot,
		Dual: pure.Mul(rot).Scale(0.5),
	}
}

// Scale multiplies both parts by s.
func (dq DualQuat) Scale(s float64) DualQuat {
	return DualQuat{Real: dq.Real.Scale(s), Dual: dq.Dual.Scale(s)}
}

// Add sums two dual quaternions component-wise.
func (dq DualQuat) Add(o DualQuat) DualQuat {
	return DualQuat{Real: dq.Real.Add(o.Real), Dual: dq.Dual.Add(o.Dual)}
}

// Normalized divides both parts by |Real|. A zero real part is returned as is.
func (dq DualQuat) Normalized() DualQuat {
	l := dq.Real.Len()
	if l < Epsilon {
		return dq
	}
	return dq.Scale(1 / l)
}

// TransformPoint applies the (unit) dual quaternion to v:
//
//	v' = v + 2·r×(r×v + w·v) + 2·(w·t − d·r + r×t)
//
// with r, w the real part and t, d the dual part.
func (dq DualQuat) TransformPoint(v mgl64.Vec3) mgl64.Vec3 {
	r, w := dq.Real.V, dq.Real.W
	t, d := dq.Dual.V, dq.Dual.W

	rot := r.Cross(r.Cross(v).Add(v.Mul(w))).Mul(2)
	trans := t.Mul(w).Sub(r.Mul(d)).Add(r.Cross(t)).Mul(2)
	return v.Add(rot).Add(trans)
}

// Translation recovers t from a unit dual quaternion (t = 2·Dual·Real*).
func (dq DualQuat) Translation() mgl64.Vec3 {
	return dq.Dual.Mul(dq.Real.Conjugate()).Scale(2).V
}
