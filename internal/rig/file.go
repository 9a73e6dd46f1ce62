package rig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"skin-animator/internal/skinning"
)

var (
	ErrNoBones   = errors.New("rig: no bones")
	ErrBadMesh   = errors.New("rig: invalid mesh")
	ErrBadPose   = errors.New("rig: invalid pose")
	ErrNoBuiltin = errors.New("rig: unknown builtin")
)

// File is the YAML description of a rig: bind skeleton, skinned mesh and an
// optional script of poses to capture as keyframes.
type File struct {
	Name  string     `yaml:"name"`
	Bones []BoneSpec `yaml:"bones"`
	Mesh  *MeshSpec  `yaml:"mesh"`
	Poses []PoseSpec `yaml:"poses"`

	// dir resolves relative texture paths.
	dir string
}

// BoneSpec is one bind bone. A missing parent makes the bone a root.
type BoneSpec struct {
	Name     string     `yaml:"name"`
	Parent   *int       `yaml:"parent"`
	Position [3]float64 `yaml:"position"`
	Endpoint [3]float64 `yaml:"endpoint"`
}

// MeshSpec describes the skinned mesh. Either explicit vertices or a tube
// generated around the bones must be given. Vertices without skin entries
// are bound to their two nearest bones.
type MeshSpec struct {
	Vertices  [][3]float64 `yaml:"vertices"`
	Triangles [][3]int     `yaml:"triangles"`
	UVs       [][2]float64 `yaml:"uvs"`
	Skin      []SkinSpec   `yaml:"skin"`
	Tube      *TubeSpec    `yaml:"tube"`
	Texture   string       `yaml:"texture"`
	Color     *[3]uint8    `yaml:"color"`
}

// SkinSpec lists up to four bone influences of one vertex.
type SkinSpec struct {
	Bones   []int     `yaml:"bones"`
	Weights []float64 `yaml:"weights"`
}

// TubeSpec generates a cylinder around every bone.
type TubeSpec struct {
	Radius float64 `yaml:"radius"`
	Sides  int     `yaml:"sides"`
	Rings  int     `yaml:"rings"`
}

// Load reads and validates a rig file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rig: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a rig description. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("rig: parse: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Bones) == 0 {
		return ErrNoBones
	}
	for i, p := range f.Poses {
		if err := p.validate(len(f.Bones)); err != nil {
			return fmt.Errorf("pose %d: %w", i, err)
		}
	}
	if f.Mesh == nil {
		return nil
	}
	return f.Mesh.validate(len(f.Bones))
}

func (m *MeshSpec) validate(bones int) error {
	if m.Tube != nil {
		if len(m.Vertices) > 0 {
			return fmt.Errorf("%w: tube and vertices are exclusive", ErrBadMesh)
		}
		if m.Tube.Radius <= 0 || m.Tube.Sides < 3 || m.Tube.Rings < 1 {
			return fmt.Errorf("%w: tube needs radius > 0, sides >= 3, rings >= 1", ErrBadMesh)
		}
		return nil
	}

	n := len(m.Vertices)
	for i, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrBadMesh, i, v, n)
			}
		}
	}
	if len(m.UVs) > 0 && len(m.UVs) != n {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrBadMesh, len(m.UVs), n)
	}
	if len(m.Skin) > 0 && len(m.Skin) != n {
		return fmt.Errorf("%w: %d skin entries for %d vertices", ErrBadMesh, len(m.Skin), n)
	}
	for i, sk := range m.Skin {
		if len(sk.Bones) != len(sk.Weights) || len(sk.Bones) == 0 || len(sk.Bones) > skinning.MaxInfluences {
			return fmt.Errorf("%w: vertex %d needs 1 to 4 bone/weight pairs", ErrBadMesh, i)
		}
		for _, b := range sk.Bones {
			if b < 0 || b >= bones {
				return fmt.Errorf("%w: vertex %d references bone %d", ErrBadMesh, i, b)
			}
		}
	}
	return nil
}
