package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Epsilon is the tolerance used for degenerate lengths and near-parallel checks.
const Epsilon = 1e-12

// WorldUp is the axis a bone's local frame is aligned to for picking (+Y).
var WorldUp = mgl64.Vec3{0, 1, 0}
