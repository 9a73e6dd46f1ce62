package rig

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/mathutil"
	"skin-animator/internal/skeleton"
	"skin-animator/internal/skinning"
	"skin-animator/internal/texture"
)

// DefaultColor is the mesh color when neither texture nor color is set.
var DefaultColor = color.NRGBA{R: 196, G: 178, B: 160, A: 255}

// Mesh is a skinned triangle mesh in bind pose.
type Mesh struct {
	Positions  []mgl64.Vec3
	Triangles  [][3]int
	UVs        [][2]float64
	Influences []skinning.Influence
	Texture    *image.NRGBA
	Color      color.NRGBA
}

// Scene is a loaded rig ready to be installed into an editor.
type Scene struct {
	Name     string
	Skeleton *skeleton.Skeleton
	Mesh     *Mesh // nil for a bare skeleton
	Poses    []PoseSpec
}

// Build constructs the skeleton and skinned mesh. textures may be nil when
// the rig has no texture.
func (f *File) Build(textures texture.Resolver) (*Scene, error) {
	binds := make([]skeleton.BindBone, len(f.Bones))
	for i, b := range f.Bones {
		parent := -1
		if b.Parent != nil {
			parent = *b.Parent
		}
		binds[i] = skeleton.BindBone{
			Parent:   parent,
			Position: mgl64.Vec3(b.Position),
			Endpoint: mgl64.Vec3(b.Endpoint),
		}
	}
	s, err := skeleton.New(binds)
	if err != nil {
		return nil, fmt.Errorf("rig %q: %w", f.Name, err)
	}

	scene := &Scene{Name: f.Name, Skeleton: s, Poses: f.Poses}
	if f.Mesh == nil {
		return scene, nil
	}

	m, err := f.buildMesh(s, textures)
	if err != nil {
		return nil, fmt.Errorf("rig %q: %w", f.Name, err)
	}
	scene.Mesh = m
	return scene, nil
}

func (f *File) buildMesh(s *skeleton.Skeleton, textures texture.Resolver) (*Mesh, error) {
	ms := f.Mesh
	m := &Mesh{Color: DefaultColor}
	if ms.Color != nil {
		m.Color = color.NRGBA{R: ms.Color[0], G: ms.Color[1], B: ms.Color[2], A: 255}
	}

	if ms.Tube != nil {
		m.Positions, m.Triangles, m.UVs = Tube(s, ms.Tube.Radius, ms.Tube.Sides, ms.Tube.Rings)
	} else {
		m.Positions = make([]mgl64.Vec3, len(ms.Vertices))
		for i, v := range ms.Vertices {
			m.Positions[i] = mgl64.Vec3(v)
		}
		m.Triangles = ms.Triangles
		m.UVs = ms.UVs
	}

	if len(ms.Skin) > 0 {
		m.Influences = make([]skinning.Influence, len(m.Positions))
		for i, sk := range ms.Skin {
			var bones [skinning.MaxInfluences]int
			var weights [skinning.MaxInfluences]float64
			copy(bones[:], sk.Bones)
			copy(weights[:], sk.Weights)
			m.Influences[i] = skinning.Bind(s, m.Positions[i], bones, weights)
		}
	} else {
		m.Influences = AutoSkin(s, m.Positions)
	}

	if ms.Texture != "" {
		if textures == nil {
			return nil, fmt.Errorf("texture %s: no resolver", ms.Texture)
		}
		path := ms.Texture
		if !filepath.IsAbs(path) && f.dir != "" {
			path = filepath.Join(f.dir, path)
		}
		tex, err := textures.Resolve(path)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", ms.Texture, err)
		}
		m.Texture = tex
	}
	return m, nil
}

// Tube generates a closed-side cylinder of the given radius around every
// bone in bind pose, with rings+1 vertex rings along the bone.
func Tube(s *skeleton.Skeleton, radius float64, sides, rings int) ([]mgl64.Vec3, [][3]int, [][2]float64) {
	var (
		pts  []mgl64.Vec3
		tris [][3]int
		uvs  [][2]float64
	)
	for _, b := range s.Bones() {
		axis := b.BindVector()
		dir := mathutil.SafeNormalize(axis)
		if dir == (mgl64.Vec3{}) {
			continue
		}
		side := mathutil.Orthogonal(dir)
		up := dir.Cross(side)

		base := len(pts)
		for r := 0; r <= rings; r++ {
			v := float64(r) / float64(rings)
			center := b.InitialPosition.Add(axis.Mul(v))
			for k := 0; k < sides; k++ {
				u := float64(k) / float64(sides)
				a := 2 * math.Pi * u
				off := side.Mul(math.Cos(a) * radius).Add(up.Mul(math.Sin(a) * radius))
				pts = append(pts, center.Add(off))
				uvs = append(uvs, [2]float64{u, v})
			}
		}
		for r := 0; r < rings; r++ {
			for k := 0; k < sides; k++ {
				i0 := base + r*sides + k
				i1 := base + r*sides + (k+1)%sides
				i2 := i0 + sides
				i3 := i1 + sides
				tris = append(tris, [3]int{i0, i1, i3}, [3]int{i0, i3, i2})
			}
		}
	}
	return pts, tris, uvs
}

// AutoSkin binds every vertex to its two nearest bones (bind pose segment
// distance) with inverse-square weights.
func AutoSkin(s *skeleton.Skeleton, pts []mgl64.Vec3) []skinning.Influence {
	bones := s.Bones()
	out := make([]skinning.Influence, len(pts))
	for i, p := range pts {
		best := [2]int{-1, -1}
		dist := [2]float64{math.Inf(1), math.Inf(1)}
		for j := range bones {
			d := segmentDistance(p, bones[j].InitialPosition, bones[j].InitialEndpoint)
			switch {
			case d < dist[0]:
				best[1], dist[1] = best[0], dist[0]
				best[0], dist[0] = j, d
			case d < dist[1]:
				best[1], dist[1] = j, d
			}
		}

		var ids [skinning.MaxInfluences]int
		var weights [skinning.MaxInfluences]float64
		ids[0], weights[0] = best[0], 1
		if best[1] >= 0 {
			w0 := 1 / (dist[0]*dist[0] + 1e-9)
			w1 := 1 / (dist[1]*dist[1] + 1e-9)
			ids[1] = best[1]
			weights[0], weights[1] = w0/(w0+w1), w1/(w0+w1)
		}
		out[i] = skinning.Bind(s, p, ids, weights)
	}
	return out
}

func segmentDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < mathutil.Epsilon {
		return p.Sub(a).Len()
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
