package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected vertex: pixel position, depth (larger is nearer)
// and texture coordinates.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Material is the surface of a mesh. Base is used where there is no
// texture.
type Material struct {
	Texture *image.NRGBA
	Base    color.NRGBA
}

// bounds clips the triangle's pixel bounding box to the buffer.
func (fb *FrameBuffer) bounds(v *[3]Vertex) (minX, minY, maxX, maxY int, ok bool) {
	minX = int(math.Floor(math.Min(math.Min(v[0].X, v[1].X), v[2].X)))
	maxX = int(math.Ceil(math.Max(math.Max(v[0].X, v[1].X), v[2].X)))
	minY = int(math.Floor(math.Min(math.Min(v[0].Y, v[1].Y), v[2].Y)))
	maxY = int(math.Ceil(math.Max(math.Max(v[0].Y, v[1].Y), v[2].Y)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

// barycentric holds the precomputed edge terms of a screen triangle.
type barycentric struct {
	x2, y2                 float64
	dy12, dx21, dy20, dx02 float64
	invDet                 float64
}

// newBarycentric reports false for triangles with no area on screen.
func newBarycentric(v *[3]Vertex) (barycentric, bool) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return barycentric{}, false
	}
	return barycentric{
		x2: x2, y2: y2,
		dy12: y1 - y2, dx21: x2 - x1,
		dy20: y2 - y0, dx02: x0 - x2,
		invDet: 1.0 / det,
	}, true
}

func (b *barycentric) at(sx, sy int) (w0, w1, w2 float64, inside bool) {
	// Sample at the pixel center.
	dsx := float64(sx) + 0.5 - b.x2
	dsy := float64(sy) + 0.5 - b.y2
	w0 = (b.dy12*dsx + b.dx21*dsy) * b.invDet
	w1 = (b.dy20*dsx + b.dx02*dsy) * b.invDet
	w2 = 1.0 - w0 - w1
	inside = w0 >= -0.001 && w1 >= -0.001 && w2 >= -0.001
	return
}

// RasterizeTriangle fills one triangle with z-buffering, optional bilinear
// texturing, sRGB-space flat shading and ACES tone mapping. shade is the
// per-face lighting scalar from LightConfig.ComputeShade.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, mat *Material, shade float64, lc *LightConfig) {
	minX, minY, maxX, maxY, ok := fb.bounds(&v)
	if !ok {
		return
	}
	bc, ok := newBarycentric(&v)
	if !ok {
		return
	}
	tex := mat.Texture

	for sy := minY; sy <= maxY; sy++ {
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			w0, w1, w2, inside := bc.at(sx, sy)
			if !inside {
				continue
			}

			z := w0*v[0].Z + w1*v[1].Z + w2*v[2].Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := mat.Base.R, mat.Base.G, mat.Base.B, mat.Base.A
			if tex != nil {
				u := w0*v[0].U + w1*v[1].U + w2*v[2].U
				t := w0*v[0].V + w1*v[1].V + w2*v[2].V
				cr, cg, cb, ca = SampleTexture(tex, u, t)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx], fb.Color[pxIdx+1], fb.Color[pxIdx+2] = lc.shadeTexel(cr, cg, cb, shade)
			fb.Color[pxIdx+3] = ca
		}
	}
}

// RasterizeTriangleAdditive adds c to the pixels under the triangle with no
// depth test. Used for overlays drawn on top of the shaded mesh.
func RasterizeTriangleAdditive(fb *FrameBuffer, v [3]Vertex, c color.NRGBA) {
	minX, minY, maxX, maxY, ok := fb.bounds(&v)
	if !ok {
		return
	}
	bc, ok := newBarycentric(&v)
	if !ok {
		return
	}
	k := float64(c.A) / 255

	for sy := minY; sy <= maxY; sy++ {
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			if _, _, _, inside := bc.at(sx, sy); !inside {
				continue
			}
			pxIdx := (rowOff + sx) * 4
			fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) + float64(c.R)*k)
			fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) + float64(c.G)*k)
			fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) + float64(c.B)*k)
			if c.A > fb.Color[pxIdx+3] {
				fb.Color[pxIdx+3] = c.A
			}
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
