package skeleton

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
)

var (
	// ErrBadParent is returned for parent indices outside the arena or self-links.
	ErrBadParent = errors.New("skeleton: bad parent index")
	// ErrCycle is returned when parent links do not form a forest.
	ErrCycle = errors.New("skeleton: parent links form a cycle")
)

// Skeleton is an arena of bones indexed by id. It is the shared mutable pose
// state; it is not safe for concurrent use.
type Skeleton struct {
	bones []Bone
	roots []int
}

// New builds a skeleton in bind pose from loader data.
func New(binds []BindBone) (*Skeleton, error) {
	s := &Skeleton{bones: make([]Bone, len(binds))}

	for i, bb := range binds {
		if bb.Parent < -1 || bb.Parent >= len(binds) || bb.Parent == i {
			return nil, fmt.Errorf("%w: bone %d has parent %d", ErrBadParent, i, bb.Parent)
		}
		s.bones[i] = Bone{
			ID:              i,
			Parent:          bb.Parent,
			Position:        bb.Position,
			Endpoint:        bb.Endpoint,
			Rotation:        mgl64.QuatIdent(),
			InitialPosition: bb.Position,
			InitialEndpoint: bb.Endpoint,
		}
	}

	for i := range s.bones {
		p := s.bones[i].Parent
		if p < 0 {
			s.roots = append(s.roots, i)
			continue
		}
		s.bones[p].Children = append(s.bones[p].Children, i)
	}

	// Every bone must be reachable from a root exactly once.
	seen := 0
	for _, r := range s.roots {
		s.Walk(r, func(*Bone) { seen++ })
	}
	if seen != len(s.bones) {
		return nil, fmt.Errorf("%w: %d of %d bones reachable from roots", ErrCycle, seen, len(s.bones))
	}

	return s, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Empty reports whether there is nothing to pose.
func (s *Skeleton) Empty() bool {
	return s.Len() == 0
}

// Bone returns the bone with the given id, or nil when out of range.
func (s *Skeleton) Bone(id int) *Bone {
	if id < 0 || id >= s.Len() {
		return nil
	}
	return &s.bones[id]
}

// Bones exposes the arena for read access by renderers.
func (s *Skeleton) Bones() []Bone {
	if s == nil {
		return nil
	}
	return s.bones
}

// Roots returns the ids of parentless bones in id order.
func (s *Skeleton) Roots() []int {
	if s == nil {
		return nil
	}
	return s.roots
}

// Walk visits the subtree rooted at id in pre-order (parent before children,
// children in id order) using an explicit stack.
func (s *Skeleton) Walk(id int, fn func(*Bone)) {
	if s.Bone(id) == nil {
		return
	}
	stack := []int{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := &s.bones[cur]
		fn(b)
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, b.Children[i])
		}
	}
}

// WalkAll visits every bone, root by root, in pre-order.
func (s *Skeleton) WalkAll(fn func(*Bone)) {
	for _, r := range s.Roots() {
		s.Walk(r, fn)
	}
}

// RotateBone applies delta to the bone and rigidly carries its whole subtree
// about the bone's joint. Each descendant is composed with the same delta, so
// its own bend relative to its parent is preserved.
func (s *Skeleton) RotateBone(id int, delta mgl64.Quat) {
	root := s.Bone(id)
	if root == nil {
		return
	}

	type frame struct {
		id         int
		oldParentE mgl64.Vec3 // parent endpoint before this call
		parentE    mgl64.Vec3 // parent endpoint after this call
		isRoot     bool
	}
	stack := []frame{{id: id, isRoot: true}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b := &s.bones[f.id]
		if !f.isRoot {
			offset := delta.Rotate(b.Position.Sub(f.oldParentE))
			b.Position = f.parentE.Add(offset)
		}
		oldEndpoint := b.Endpoint
		b.Rotation = mathutil.Compose(delta, b.Rotation)
		b.syncEndpoint()

		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: b.Children[i], oldParentE: oldEndpoint, parentE: b.Endpoint})
		}
	}
}

// TranslateBone moves the bone's joint to newPosition and shifts its subtree
// by the same offset. Rotations are untouched.
func (s *Skeleton) TranslateBone(id int, newPosition mgl64.Vec3) {
	b := s.Bone(id)
	if b == nil {
		return
	}
	offset := newPosition.Sub(b.Position)
	s.Walk(id, func(d *Bone) {
		d.Position = d.Position.Add(offset)
		d.syncEndpoint()
	})
}

// RollBone twists the bone (and its subtree) about its own current axis.
func (s *Skeleton) RollBone(id int, rad float64) {
	b := s.Bone(id)
	if b == nil {
		return
	}
	axis := b.Direction()
	if axis == (mgl64.Vec3{}) {
		return
	}
	s.RotateBone(id, mathutil.AxisAngle(axis, rad))
}

// ResetPose returns every bone to its bind pose.
func (s *Skeleton) ResetPose() {
	for i := range s.Bones() {
		b := &s.bones[i]
		b.Position = b.InitialPosition
		b.Endpoint = b.InitialEndpoint
		b.Rotation = mgl64.QuatIdent()
	}
}
