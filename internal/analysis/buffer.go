// Package analysis implements the dominant-colour pipeline: sampling a pixel
// buffer into scored candidates, selecting a distinct set of dominant colours
// and deriving a design palette from them.
//
// Every function in this package is a pure function of its inputs. Nothing is
// cached between calls, so a Result can be reused to re-run selection with a
// different vibrancy threshold without touching the pixels again.
package analysis

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// DecodeError reports pixel data that cannot be interpreted as an RGBA
// raster, or image bytes that could not be decoded into one.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image (%s): %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PixelBuffer is a decoded RGBA raster with straight (non-premultiplied)
// alpha, 4 bytes per pixel, rows packed with no padding.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// Validate checks that the buffer dimensions agree with its pixel data.
func (b PixelBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return &DecodeError{Op: "validate", Err: fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)}
	}
	if b.Width > math.MaxInt/4/b.Height {
		return &DecodeError{Op: "validate", Err: fmt.Errorf("dimensions %dx%d overflow", b.Width, b.Height)}
	}
	if want := 4 * b.Width * b.Height; len(b.Pix) != want {
		return &DecodeError{Op: "validate", Err: fmt.Errorf("pixel data has %d bytes, want %d for %dx%d RGBA", len(b.Pix), want, b.Width, b.Height)}
	}
	return nil
}

// Size returns the buffer dimensions.
func (b PixelBuffer) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// NRGBA wraps the buffer as an *image.NRGBA sharing the same pixel slice.
func (b PixelBuffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Crop returns a copy of the region r (clipped to the buffer). An empty
// intersection is a DecodeError.
func (b PixelBuffer) Crop(r image.Rectangle) (PixelBuffer, error) {
	if err := b.Validate(); err != nil {
		return PixelBuffer{}, err
	}
	r = r.Intersect(image.Rect(0, 0, b.Width, b.Height))
	if r.Empty() {
		return PixelBuffer{}, &DecodeError{Op: "crop", Err: errors.New("crop rectangle does not intersect the image")}
	}
	return FromImage(b.NRGBA().SubImage(r)), nil
}

// FromImage converts any image.Image into a PixelBuffer.
func FromImage(img image.Image) PixelBuffer {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[srcOff:srcOff+dst.Stride])
		}
	} else {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	}
	return PixelBuffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: dst.Pix}
}

// at returns the straight-alpha pixel at index i (row-major).
func (b PixelBuffer) at(i int) color.NRGBA {
	p := b.Pix[4*i : 4*i+4 : 4*i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
