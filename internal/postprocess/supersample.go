package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled render to its output size w×h. The
// thumbnail capturer renders keyframe thumbnails and playback frames at a
// multiple of their size and calls this to resolve the extra samples into
// smooth bone and mesh edges.
//
// Filtering runs on premultiplied alpha so transparent background samples
// do not darken silhouette pixels. An image that already fits in w×h, or a
// non-positive target size, is returned as is.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}

	// Scaling an NRGBA source into an RGBA destination premultiplies each
	// tap before the CatmullRom kernel weights are applied.
	resolved := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(resolved, resolved.Bounds(), img, b, draw.Src, nil)

	out := image.NewNRGBA(resolved.Bounds())
	draw.Draw(out, out.Bounds(), resolved, image.Point{}, draw.Src)
	return out
}
