package timeline

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"skin-animator/internal/camera"
	"skin-animator/internal/skeleton"
)

// Keyframe is a captured pose: one orientation and joint position per bone,
// a thumbnail and the camera at capture time. Keyframes are replaced, never
// edited in place.
type Keyframe struct {
	ID           string
	Orientations []mgl64.Quat
	Positions    []mgl64.Vec3
	Thumbnail    *image.NRGBA
	Camera       camera.Snapshot
}

// NewKeyframe snapshots the skeleton's current pose.
func NewKeyframe(s *skeleton.Skeleton, cam camera.Snapshot, thumb *image.NRGBA) Keyframe {
	p := s.Pose()
	return Keyframe{
		ID:           newID(),
		Orientations: p.Orientations,
		Positions:    p.Positions,
		Thumbnail:    thumb,
		Camera:       cam,
	}
}

// Pose returns the keyframe's bone state as a skeleton pose.
func (k Keyframe) Pose() skeleton.Pose {
	return skeleton.Pose{Orientations: k.Orientations, Positions: k.Positions}
}

// Bones returns the number of bones captured.
func (k Keyframe) Bones() int {
	return len(k.Orientations)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
