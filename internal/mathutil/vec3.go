package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Lerp returns a·(1−u) + b·u. Written in this form so u=0 and u=1 reproduce
// the endpoints bit-for-bit.
func Lerp(a, b mgl64.Vec3, u float64) mgl64.Vec3 {
	s := 1 - u
	return mgl64.Vec3{
		a[0]*s + b[0]*u,
		a[1]*s + b[1]*u,
		a[2]*s + b[2]*u,
	}
}

// SafeNormalize returns v/|v|, or the zero vector when |v| is degenerate.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Orthogonal returns some unit vector perpendicular to v.
func Orthogonal(v mgl64.Vec3) mgl64.Vec3 {
	axis := mgl64.Vec3{1, 0, 0}
	if abs(v[0]) > abs(v[1]) {
		axis = mgl64.Vec3{0, 1, 0}
	}
	return SafeNormalize(v.Cross(axis))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
