package picking

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/camera"
	"skin-animator/internal/mathutil"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// ScreenRay unprojects pixel (x, y) of a width×height viewport through the
// camera. The origin is the eye; the direction passes through the pixel on
// the near plane.
func ScreenRay(cam *camera.Camera, x, y float64, width, height int) Ray {
	ndc := mgl64.Vec4{
		2*x/float64(width) - 1,
		1 - 2*y/float64(height),
		-1,
		1,
	}
	eye := cam.Projection().Inv().Mul4x1(ndc)
	eye = mgl64.Vec4{eye.X(), eye.Y(), -1, 0}
	world := cam.View().Inv().Mul4x1(eye)

	return Ray{
		Origin: cam.Position,
		Dir:    mathutil.SafeNormalize(world.Vec3()),
	}
}
