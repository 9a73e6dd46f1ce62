package picking

import (
	"math"

	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
)

// IntersectBone hits ray against the bone modelled as a capped cylinder of
// the given radius from its joint to its tip. The lateral surface wins when
// either of its candidates lies on the bone's length; the end caps are only
// tried otherwise.
func IntersectBone(b *skeleton.Bone, ray Ray, radius float64) (float64, bool) {
	length := b.Length()
	if length < mathutil.Epsilon || radius <= 0 {
		return 0, false
	}

	// Local frame: bone axis along +Y, joint at the origin.
	toLocal := mathutil.RotationBetween(b.Direction(), mathutil.WorldUp)
	p := toLocal.Rotate(ray.Origin.Sub(b.Position))
	d := toLocal.Rotate(ray.Dir)

	best := math.Inf(1)
	consider := func(t float64) {
		if t > 0 && t < best {
			best = t
		}
	}

	// Lateral surface: circle test in the XZ plane. The 2D parameter is
	// measured along the normalized projected direction, so divide by its
	// length to get back to the ray parameter.
	lateral := false
	if m := math.Hypot(d.X(), d.Z()); m > mathutil.Epsilon {
		dx, dz := d.X()/m, d.Z()/m
		bq := p.X()*dx + p.Z()*dz
		c := p.X()*p.X() + p.Z()*p.Z() - radius*radius
		// A projected direction pointing away from the axis never hits.
		if disc := bq*bq - c; bq <= 0 && disc >= 0 {
			sq := math.Sqrt(disc)
			for _, s := range [2]float64{-bq - sq, -bq + sq} {
				t := s / m
				if y := p.Y() + d.Y()*t; y >= 0 && y <= length {
					lateral = true
					consider(t)
				}
			}
		}
	}

	// End caps.
	if !lateral && math.Abs(d.Y()) > mathutil.Epsilon {
		for _, plane := range [2]float64{0, length} {
			t := (plane - p.Y()) / d.Y()
			x, z := p.X()+d.X()*t, p.Z()+d.Z()*t
			if x*x+z*z <= radius*radius {
				consider(t)
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
