package analysis

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestPixelBufferValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     PixelBuffer
		wantErr bool
	}{
		{"valid", PixelBuffer{Width: 2, Height: 1, Pix: make([]uint8, 8)}, false},
		{"zero width", PixelBuffer{Width: 0, Height: 1}, true},
		{"negative height", PixelBuffer{Width: 1, Height: -1}, true},
		{"short data", PixelBuffer{Width: 2, Height: 2, Pix: make([]uint8, 12)}, true},
		{"long data", PixelBuffer{Width: 1, Height: 1, Pix: make([]uint8, 5)}, true},
		{"overflowing dimensions", PixelBuffer{Width: 1 << 31, Height: 1 << 31}, true},
		{"overflowing width", PixelBuffer{Width: math.MaxInt, Height: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Errorf("Expected *DecodeError, got %T", err)
				}
			}
		})
	}
}

func TestAnalyseRejectsOverflowingBuffer(t *testing.T) {
	_, err := Analyse(PixelBuffer{Width: 1 << 31, Height: 1 << 31}, DefaultOptions())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("Analyse() error = %v, want *DecodeError", err)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 1, color.RGBA{B: 255, A: 255})

	buf := FromImage(src)
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("Size = %dx%d, want 2x2", buf.Width, buf.Height)
	}
	if err := buf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := buf.at(0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := buf.at(3); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel 3 = %v, want blue", got)
	}
	if got := buf.at(1); got.A != 0 {
		t.Errorf("pixel 1 alpha = %d, want 0", got.A)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.NRGBA{G: 200, A: 128})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	buf := FromImage(sub)
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("Size = %dx%d, want 2x2", buf.Width, buf.Height)
	}
	if got := buf.at(0); got != (color.NRGBA{G: 200, A: 128}) {
		t.Errorf("pixel 0 = %v, want straight-alpha green", got)
	}
}

func TestPixelBufferCrop(t *testing.T) {
	buf := stripedBuffer(4, 4, 8, [4]uint8{255, 0, 0, 255}, [4]uint8{0, 0, 255, 255})

	cropped, err := buf.Crop(image.Rect(0, 2, 4, 4))
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}
	if cropped.Width != 4 || cropped.Height != 2 {
		t.Fatalf("Size = %dx%d, want 4x2", cropped.Width, cropped.Height)
	}
	for i := range cropped.Width * cropped.Height {
		if got := cropped.at(i); got.B != 255 || got.R != 0 {
			t.Fatalf("pixel %d = %v, want blue", i, got)
		}
	}

	clipped, err := buf.Crop(image.Rect(2, 2, 100, 100))
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}
	if clipped.Width != 2 || clipped.Height != 2 {
		t.Errorf("Expected clipping to 2x2, got %dx%d", clipped.Width, clipped.Height)
	}

	_, err = buf.Crop(image.Rect(10, 10, 20, 20))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("Expected *DecodeError for empty crop, got %v", err)
	}
}
