package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Canonical flips q to the hemisphere with a non-negative scalar part.
// q and −q encode the same rotation; keeping W ≥ 0 stops sign flips from
// accumulating across repeated compositions.
func Canonical(q mgl64.Quat) mgl64.Quat {
	if q.W < 0 {
		return mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	}
	return q
}

// Compose applies delta after q and returns the normalized, canonical product.
func Compose(delta, q mgl64.Quat) mgl64.Quat {
	return Canonical(delta.Mul(q).Normalize())
}

// AxisAngle returns the rotation of rad radians about axis (need not be unit).
func AxisAngle(axis mgl64.Vec3, rad float64) mgl64.Quat {
	a := SafeNormalize(axis)
	if a == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(rad, a)
}

// RotationBetween returns the shortest rotation taking direction from onto
// direction to. Inputs need not be unit length. Antiparallel inputs rotate
// 180° about an arbitrary perpendicular axis.
func RotationBetween(from, to mgl64.Vec3) mgl64.Quat {
	f := SafeNormalize(from)
	t := SafeNormalize(to)
	if f == (mgl64.Vec3{}) || t == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	w := f.Dot(t) + 1
	if w < 1e-9 {
		return mgl64.Quat{W: 0, V: Orthogonal(f)}
	}
	return mgl64.Quat{W: w, V: f.Cross(t)}.Normalize()
}

// SlerpShort interpolates along the shorter arc between a and b. The result
// is normalized and canonical. u ≤ 0 and u ≥ 1 return the endpoints without
// any arithmetic so keyframe boundaries are reproduced exactly.
func SlerpShort(a, b mgl64.Quat, u float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = mgl64.Quat{W: -b.W, V: b.V.Mul(-1)}
	}
	if u <= 0 {
		return Canonical(a)
	}
	if u >= 1 {
		return Canonical(b)
	}

	dot := a.Dot(b)
	if dot > 0.9995 {
		q := a.Scale(1 - u).Add(b.Scale(u))
		return Canonical(q.Normalize())
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-u)*theta) / sinTheta
	wb := math.Sin(u*theta) / sinTheta
	return Canonical(a.Scale(wa).Add(b.Scale(wb)).Normalize())
}

// IsUnit reports whether |q| is within tol of 1.
func IsUnit(q mgl64.Quat, tol float64) bool {
	return math.Abs(q.Len()-1) <= tol
}
