package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func quatNear(t *testing.T, want, got mgl64.Quat) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, tol)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.V[i], got.V[i], tol)
	}
}

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestCanonical(t *testing.T) {
	q := mgl64.Quat{W: -0.5, V: mgl64.Vec3{0.5, -0.5, 0.5}}
	c := Canonical(q)
	assert.Equal(t, 0.5, c.W)
	assert.Equal(t, mgl64.Vec3{-0.5, 0.5, -0.5}, c.V)

	pos := mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})
	assert.Equal(t, pos, Canonical(pos))
}

func TestComposeStaysCanonical(t *testing.T) {
	q := mgl64.QuatIdent()
	step := AxisAngle(mgl64.Vec3{1, 1, 0}, 0.9)
	for i := 0; i < 20; i++ {
		q = Compose(step, q)
		require.GreaterOrEqual(t, q.W, 0.0)
		require.True(t, IsUnit(q, 1e-12))
	}
}

func TestRotationBetween(t *testing.T) {
	cases := []struct {
		name     string
		from, to mgl64.Vec3
	}{
		{"x to y", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"unnormalized", mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0, -0.5}},
		{"same", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 2, 0}},
		{"antiparallel", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}},
		{"oblique", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{-2, 0.5, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := RotationBetween(tc.from, tc.to)
			require.True(t, IsUnit(q, 1e-9))
			vecNear(t, tc.to.Normalize(), q.Rotate(tc.from.Normalize()))
		})
	}
}

func TestSlerpShortEndpointsExact(t *testing.T) {
	a := AxisAngle(mgl64.Vec3{0, 1, 0}, 0.4)
	b := AxisAngle(mgl64.Vec3{1, 0, 0}, 1.2)
	assert.Equal(t, a, SlerpShort(a, b, 0))
	assert.Equal(t, b, SlerpShort(a, b, 1))
}

func TestSlerpShortMidpoint(t *testing.T) {
	a := mgl64.QuatIdent()
	b := AxisAngle(mgl64.Vec3{1, 0, 0}, math.Pi/2)
	quatNear(t, AxisAngle(mgl64.Vec3{1, 0, 0}, math.Pi/4), SlerpShort(a, b, 0.5))
}

func TestSlerpShortAntipodal(t *testing.T) {
	a := AxisAngle(mgl64.Vec3{0, 0, 1}, 0.3)
	b := AxisAngle(mgl64.Vec3{1, 1, 0}, 2.1)
	negB := mgl64.Quat{W: -b.W, V: b.V.Mul(-1)}

	want := SlerpShort(a, b, 0.5)
	got := SlerpShort(a, negB, 0.5)
	quatNear(t, want, got)
	assert.GreaterOrEqual(t, got.W, 0.0)
}

func TestSlerpShortNearlyEqual(t *testing.T) {
	a := AxisAngle(mgl64.Vec3{0, 1, 0}, 0.1)
	b := AxisAngle(mgl64.Vec3{0, 1, 0}, 0.1001)
	q := SlerpShort(a, b, 0.5)
	assert.True(t, IsUnit(q, 1e-12))
	quatNear(t, AxisAngle(mgl64.Vec3{0, 1, 0}, 0.10005), q)
}

func TestLerpEndpoints(t *testing.T) {
	a := mgl64.Vec3{0.1, -3.7, 1e-3}
	b := mgl64.Vec3{7.3, 0.2, -2.2}
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	vecNear(t, mgl64.Vec3{3.7, -1.75, -1.0995}, Lerp(a, b, 0.5))
}
