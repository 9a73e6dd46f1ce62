package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/skeleton"
)

// Background is the default clear color: opaque dark grey.
var Background = color.NRGBA{R: 38, G: 40, B: 46, A: 255}

// Renderer draws into one active target at a time. Offscreen work swaps the
// target and always puts the previous one back.
type Renderer struct {
	Light      LightConfig
	Background color.NRGBA

	target *FrameBuffer
	verts  []Vertex
	front  []bool
}

// NewRenderer creates a renderer with a w×h on-screen target.
func NewRenderer(w, h int) *Renderer {
	r := &Renderer{
		Light:      DefaultLightConfig(),
		Background: Background,
		target:     NewFrameBuffer(w, h),
	}
	r.target.Clear(r.Background)
	return r
}

// Target returns the active frame buffer.
func (r *Renderer) Target() *FrameBuffer { return r.target }

// Clear resets the active target.
func (r *Renderer) Clear() { r.target.Clear(r.Background) }

// Offscreen renders draw into a fresh w×h target and returns the result.
// The previously active target is restored before returning, even if draw
// panics.
func (r *Renderer) Offscreen(w, h int, draw func()) *image.NRGBA {
	saved := r.target
	defer func() { r.target = saved }()

	r.target = NewFrameBuffer(w, h)
	r.target.Clear(r.Background)
	draw()
	return r.target.Image()
}

// ProjectVertices transforms world points through the view-projection matrix
// into pixel space of a w×h target. front[i] is false for points at or
// behind the eye.
func ProjectVertices(viewProj mgl64.Mat4, w, h int, pts []mgl64.Vec3, uvs [][2]float64, dst []Vertex, front []bool) ([]Vertex, []bool) {
	dst = dst[:0]
	front = front[:0]
	hasUV := len(uvs) == len(pts)
	for i, p := range pts {
		clip := viewProj.Mul4x1(p.Vec4(1))
		cw := clip.W()
		if cw <= 1e-9 {
			dst = append(dst, Vertex{})
			front = append(front, false)
			continue
		}
		ndc := clip.Vec3().Mul(1 / cw)
		v := Vertex{
			X: (ndc.X() + 1) * 0.5 * float64(w),
			Y: (1 - ndc.Y()) * 0.5 * float64(h),
			Z: -ndc.Z(),
		}
		if hasUV {
			v.U, v.V = uvs[i][0], uvs[i][1]
		}
		dst = append(dst, v)
		front = append(front, true)
	}
	return dst, front
}

// DrawMesh rasterizes a triangle mesh given in world space. Shading uses
// the world-space face normal.
func (r *Renderer) DrawMesh(viewProj mgl64.Mat4, pts []mgl64.Vec3, tris [][3]int, uvs [][2]float64, mat Material) {
	fb := r.target
	r.verts, r.front = ProjectVertices(viewProj, fb.Width, fb.Height, pts, uvs, r.verts, r.front)

	if mat.Texture != nil && len(uvs) != len(pts) {
		// No coordinates to sample with: fall back to the texture's mean color.
		mat.Base = averageColor(mat.Texture)
		mat.Texture = nil
	}

	n := len(pts)
	for _, tri := range tris {
		if tri[0] < 0 || tri[0] >= n || tri[1] < 0 || tri[1] >= n || tri[2] < 0 || tri[2] >= n {
			continue
		}
		if !r.front[tri[0]] || !r.front[tri[1]] || !r.front[tri[2]] {
			continue
		}
		e1 := pts[tri[1]].Sub(pts[tri[0]])
		e2 := pts[tri[2]].Sub(pts[tri[0]])
		normal := e1.Cross(e2)
		if normal.Len() < 1e-12 {
			continue
		}
		shade := r.Light.ComputeShade(normal.Normalize())
		RasterizeTriangle(fb, [3]Vertex{r.verts[tri[0]], r.verts[tri[1]], r.verts[tri[2]]}, &mat, shade, &r.Light)
	}
}

// Bone overlay colors.
var (
	BoneColor      = color.NRGBA{R: 90, G: 150, B: 255, A: 200}
	HighlightColor = color.NRGBA{R: 255, G: 200, B: 60, A: 255}
)

// DrawBones overlays every bone as a screen-space quad of the given pixel
// width. The highlighted bone (or -1) is drawn in HighlightColor.
func (r *Renderer) DrawBones(viewProj mgl64.Mat4, s *skeleton.Skeleton, width float64, highlight int) {
	fb := r.target
	bones := s.Bones()
	for i := range bones {
		ends := []mgl64.Vec3{bones[i].Position, bones[i].Endpoint}
		r.verts, r.front = ProjectVertices(viewProj, fb.Width, fb.Height, ends, nil, r.verts, r.front)
		if !r.front[0] || !r.front[1] {
			continue
		}
		a, b := r.verts[0], r.verts[1]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := mgl64.Vec2{dx, dy}.Len()
		if l < 1e-9 {
			continue
		}
		// Perpendicular offset, half the width on each side.
		ox, oy := -dy/l*width/2, dx/l*width/2
		q := [4]Vertex{
			{X: a.X + ox, Y: a.Y + oy},
			{X: b.X + ox, Y: b.Y + oy},
			{X: b.X - ox, Y: b.Y - oy},
			{X: a.X - ox, Y: a.Y - oy},
		}
		c := BoneColor
		if i == highlight {
			c = HighlightColor
		}
		RasterizeTriangleAdditive(fb, [3]Vertex{q[0], q[1], q[2]}, c)
		RasterizeTriangleAdditive(fb, [3]Vertex{q[0], q[2], q[3]}, c)
	}
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{R: 160, G: 160, B: 170, A: 255}
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{R: uint8(sumR/n + 0.5), G: uint8(sumG/n + 0.5), B: uint8(sumB/n + 0.5), A: 255}
}
