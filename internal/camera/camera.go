package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
)

// Defaults for a freshly loaded scene.
const (
	DefaultFovY   = 45.0
	DefaultAspect = 800.0 / 600.0
	DefaultNear   = 0.1
	DefaultFar    = 1000.0
)

// Snapshot is the camera pose stored with a keyframe. Up is a point
// (Position + up direction) so it can be interpolated as an offset.
type Snapshot struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
}

// Camera is a look-at perspective camera. FovY is in degrees.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3 // direction

	FovY   float64
	Aspect float64
	Near   float64
	Far    float64
}

// New returns the default camera looking at the origin from -Z.
func New(aspect float64) *Camera {
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	return &Camera{
		Position: mgl64.Vec3{0, 0, -6},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mathutil.WorldUp,
		FovY:     DefaultFovY,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Forward is the unit look direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return mathutil.SafeNormalize(c.Target.Sub(c.Position))
}

// Right is the unit screen-right direction.
func (c *Camera) Right() mgl64.Vec3 {
	return mathutil.SafeNormalize(c.Forward().Cross(c.Up))
}

// UpDir is the unit screen-up direction, orthogonal to Forward.
func (c *Camera) UpDir() mgl64.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Snapshot captures the pose for a keyframe.
func (c *Camera) Snapshot() Snapshot {
	return Snapshot{
		Position: c.Position,
		Target:   c.Target,
		Up:       c.Position.Add(c.Up),
	}
}

// Restore applies a keyframe pose. A degenerate up offset keeps the current up.
func (c *Camera) Restore(s Snapshot) {
	c.Position = s.Position
	c.Target = s.Target
	if up := s.Up.Sub(s.Position); up.Len() > mathutil.Epsilon {
		c.Up = up
	}
}

// Interpolate blends two snapshots. Position and target are lerped; up is
// lerped as an offset from position.
func Interpolate(a, b Snapshot, u float64) Snapshot {
	pos := mathutil.Lerp(a.Position, b.Position, u)
	up := mathutil.Lerp(a.Up.Sub(a.Position), b.Up.Sub(b.Position), u)
	return Snapshot{
		Position: pos,
		Target:   mathutil.Lerp(a.Target, b.Target, u),
		Up:       pos.Add(up),
	}
}
