package thumbnail

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"skin-animator/internal/camera"
	"skin-animator/internal/postprocess"
	"skin-animator/internal/raster"
	"skin-animator/internal/rig"
	"skin-animator/internal/skinning"
)

// Default thumbnail size, 4:3 like the viewport.
const (
	DefaultWidth  = 260
	DefaultHeight = 195
)

// Capturer renders posed scenes off screen. It keeps scratch buffers and is
// not safe for concurrent use.
type Capturer struct {
	Renderer    *raster.Renderer
	Width       int
	Height      int
	Supersample int
	BoneWidth   float64 // pixels at final size; 0 hides bones

	deformed []mgl64.Vec3
}

// NewCapturer returns a capturer drawing through r at the default size.
func NewCapturer(r *raster.Renderer, supersample int) *Capturer {
	if supersample < 1 {
		supersample = 1
	}
	return &Capturer{
		Renderer:    r,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Supersample: supersample,
		BoneWidth:   3,
	}
}

// Thumbnail renders the scene's current pose at the capturer's size.
func (c *Capturer) Thumbnail(scene *rig.Scene, cam *camera.Camera) *image.NRGBA {
	return c.Render(scene, cam, c.Width, c.Height)
}

// Render draws the skinned mesh in its current pose and the bone overlay
// into a w×h image, supersampled and filtered down. The renderer's active
// target is left untouched.
func (c *Capturer) Render(scene *rig.Scene, cam *camera.Camera, w, h int) *image.NRGBA {
	ss := max(c.Supersample, 1)
	sw, sh := w*ss, h*ss

	view := *cam
	view.Aspect = float64(w) / float64(h)
	vp := view.ViewProjection()

	img := c.Renderer.Offscreen(sw, sh, func() {
		if scene == nil {
			return
		}
		if m := scene.Mesh; m != nil {
			poses := skinning.BonePoses(scene.Skeleton)
			c.deformed = skinning.Deform(poses, m.Influences, c.deformed)
			c.Renderer.DrawMesh(vp, c.deformed, m.Triangles, m.UVs, raster.Material{Texture: m.Texture, Base: m.Color})
		}
		if c.BoneWidth > 0 {
			c.Renderer.DrawBones(vp, scene.Skeleton, c.BoneWidth*float64(ss), -1)
		}
	})
	if ss > 1 {
		img = postprocess.Downsample(img, w, h)
	}
	return img
}
