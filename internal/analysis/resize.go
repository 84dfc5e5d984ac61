package analysis

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// scaledSize returns the dimensions after bounding the longer side to
// maxDimension. The shorter side is truncated, never below 1.
func scaledSize(size Size, maxDimension int) Size {
	w, h := size.Width, size.Height
	if w > h {
		if w > maxDimension {
			return Size{Width: maxDimension, Height: max(1, h*maxDimension/w)}
		}
	} else if h > maxDimension {
		return Size{Width: max(1, w*maxDimension/h), Height: maxDimension}
	}
	return size
}

// downscale resizes b so its longer side is at most maxDimension. The filter
// is bilinear; frequency counts depend on it, so it must not change casually.
func downscale(b PixelBuffer, maxDimension int) PixelBuffer {
	target := scaledSize(b.Size(), maxDimension)
	if target == b.Size() {
		return b
	}

	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	src := b.NRGBA()
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return PixelBuffer{Width: target.Width, Height: target.Height, Pix: dst.Pix}
}
