package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/camera"
	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
)

// PoseSpec is one scripted pose. Operations apply in the order rotate,
// translate, roll, on top of the current pose unless Reset is set.
//
// At is the scrubber position used when capturing the pose; nil captures at
// the end of the timeline. Lock toggles the new keyframe's lock.
type PoseSpec struct {
	Reset     bool          `yaml:"reset"`
	Rotate    []RotateOp    `yaml:"rotate"`
	Translate []TranslateOp `yaml:"translate"`
	Roll      []RollOp      `yaml:"roll"`
	Camera    *CameraSpec   `yaml:"camera"`
	At        *float64      `yaml:"at"`
	Lock      bool          `yaml:"lock"`
}

// RotateOp rotates a bone's subtree about its joint.
type RotateOp struct {
	Bone    int        `yaml:"bone"`
	Axis    [3]float64 `yaml:"axis"`
	Degrees float64    `yaml:"degrees"`
}

// TranslateOp moves a bone's joint (and subtree) by an offset.
type TranslateOp struct {
	Bone int        `yaml:"bone"`
	By   [3]float64 `yaml:"by"`
}

// RollOp twists a bone about its own axis.
type RollOp struct {
	Bone    int     `yaml:"bone"`
	Degrees float64 `yaml:"degrees"`
}

// CameraSpec places the camera. Up defaults to world up.
type CameraSpec struct {
	Position [3]float64  `yaml:"position"`
	Target   [3]float64  `yaml:"target"`
	Up       *[3]float64 `yaml:"up"`
}

// Scrubber returns the capture position, 1 when unset.
func (p PoseSpec) Scrubber() float64 {
	if p.At == nil {
		return 1
	}
	return *p.At
}

// Apply poses s and moves cam as described.
func (p PoseSpec) Apply(s *skeleton.Skeleton, cam *camera.Camera) error {
	if err := p.validate(s.Len()); err != nil {
		return err
	}
	if p.Reset {
		s.ResetPose()
	}
	for _, op := range p.Rotate {
		s.RotateBone(op.Bone, mathutil.AxisAngle(mgl64.Vec3(op.Axis), mgl64.DegToRad(op.Degrees)))
	}
	for _, op := range p.Translate {
		b := s.Bone(op.Bone)
		s.TranslateBone(op.Bone, b.Position.Add(mgl64.Vec3(op.By)))
	}
	for _, op := range p.Roll {
		s.RollBone(op.Bone, mgl64.DegToRad(op.Degrees))
	}
	if p.Camera != nil && cam != nil {
		cam.Position = mgl64.Vec3(p.Camera.Position)
		cam.Target = mgl64.Vec3(p.Camera.Target)
		cam.Up = mathutil.WorldUp
		if p.Camera.Up != nil {
			cam.Up = mathutil.SafeNormalize(mgl64.Vec3(*p.Camera.Up))
		}
	}
	return nil
}

func (p PoseSpec) validate(bones int) error {
	check := func(op string, id int) error {
		if id < 0 || id >= bones {
			return fmt.Errorf("%w: %s bone %d of %d", ErrBadPose, op, id, bones)
		}
		return nil
	}
	for _, op := range p.Rotate {
		if err := check("rotate", op.Bone); err != nil {
			return err
		}
		if mgl64.Vec3(op.Axis).Len() < mathutil.Epsilon {
			return fmt.Errorf("%w: rotate bone %d has zero axis", ErrBadPose, op.Bone)
		}
	}
	for _, op := range p.Translate {
		if err := check("translate", op.Bone); err != nil {
			return err
		}
	}
	for _, op := range p.Roll {
		if err := check("roll", op.Bone); err != nil {
			return err
		}
	}
	if p.At != nil && (*p.At < 0 || *p.At > 1) {
		return fmt.Errorf("%w: at %.3f outside [0, 1]", ErrBadPose, *p.At)
	}
	return nil
}
