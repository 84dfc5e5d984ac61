package colour

import (
	"math"
	"testing"
)

func TestRGBToHSL(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want HSL
	}{
		{name: "red", rgb: RGB{R: 255}, want: HSL{H: 0, S: 100, L: 50}},
		{name: "green", rgb: RGB{G: 255}, want: HSL{H: 120, S: 100, L: 50}},
		{name: "blue", rgb: RGB{B: 255}, want: HSL{H: 240, S: 100, L: 50}},
		{name: "cyan", rgb: RGB{G: 255, B: 255}, want: HSL{H: 180, S: 100, L: 50}},
		{name: "magenta wraps below 360", rgb: RGB{R: 255, B: 128}, want: HSL{H: 329.88, S: 100, L: 50}},
		{name: "black", rgb: Black, want: HSL{}},
		{name: "white", rgb: White, want: HSL{L: 100}},
		{name: "grey", rgb: RGB{R: 128, G: 128, B: 128}, want: HSL{L: 50.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSL(tt.rgb)
			if math.Abs(got.H-tt.want.H) > 0.1 || math.Abs(got.S-tt.want.S) > 0.1 || math.Abs(got.L-tt.want.L) > 0.1 {
				t.Errorf("RGBToHSL(%v) = %+v, want %+v", tt.rgb, got, tt.want)
			}
			if got.H < 0 || got.H >= 360 {
				t.Errorf("hue %v outside [0,360)", got.H)
			}
		})
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    RGB
	}{
		{name: "red", h: 0, s: 1, l: 0.5, want: RGB{R: 255}},
		{name: "cyan", h: 0.5, s: 1, l: 0.5, want: RGB{G: 255, B: 255}},
		{name: "full turn is red", h: 1, s: 1, l: 0.5, want: RGB{R: 255}},
		{name: "achromatic", h: 0.3, s: 0, l: 0.5, want: RGB{R: 128, G: 128, B: 128}},
		{name: "clamps saturation", h: 0, s: 1.5, l: 0.5, want: RGB{R: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLToRGB(tt.h, tt.s, tt.l); got != tt.want {
				t.Errorf("HSLToRGB(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestHSLRoundTrip(t *testing.T) {
	within := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}

	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				c := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				hsl := RGBToHSL(c)
				got := HSLToRGB(hsl.H/360, hsl.S/100, hsl.L/100)
				if !within(got.R, c.R) || !within(got.G, c.G) || !within(got.B, c.B) {
					t.Fatalf("round trip %v -> %+v -> %v", c, hsl, got)
				}
			}
		}
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(Black); got != 0 {
		t.Errorf("Luminance(black) = %v, want 0", got)
	}
	if got := Luminance(White); math.Abs(got-1) > 1e-9 {
		t.Errorf("Luminance(white) = %v, want 1", got)
	}
	if got := Luminance(RGB{R: 255}); math.Abs(got-0.2126) > 1e-9 {
		t.Errorf("Luminance(red) = %v, want 0.2126", got)
	}
}

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio(Black, White); math.Abs(got-21) > 1e-6 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", got)
	}
	if got := ContrastRatio(White, Black); math.Abs(got-21) > 1e-6 {
		t.Errorf("ContrastRatio is not symmetric: %v", got)
	}
}

func TestContrastText(t *testing.T) {
	tests := []struct {
		name   string
		bg     RGB
		policy ContrastPolicy
		want   RGB
	}{
		{name: "wcag black bg", bg: Black, policy: ContrastWCAG, want: White},
		{name: "wcag white bg", bg: White, policy: ContrastWCAG, want: Black},
		{name: "wcag pure red", bg: RGB{R: 255}, policy: ContrastWCAG, want: Black},
		{name: "wcag navy", bg: RGB{B: 128}, policy: ContrastWCAG, want: White},
		// Luminance of mid grey is ~0.216: WCAG prefers black, the simple cutoff white.
		{name: "wcag mid grey", bg: RGB{R: 128, G: 128, B: 128}, policy: ContrastWCAG, want: Black},
		{name: "simple mid grey", bg: RGB{R: 128, G: 128, B: 128}, policy: ContrastSimple, want: White},
		{name: "simple white", bg: White, policy: ContrastSimple, want: Black},
		{name: "unknown policy is wcag", bg: White, policy: "other", want: Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContrastText(tt.bg, tt.policy); got != tt.want {
				t.Errorf("ContrastText(%v, %s) = %v, want %v", tt.bg, tt.policy, got, tt.want)
			}
		})
	}
}

func TestRotateHue(t *testing.T) {
	red := RGBToHSL(RGB{R: 255})
	if got := RotateHue(red, 180, 0); got != (RGB{G: 255, B: 255}) {
		t.Errorf("RotateHue(red, 180) = %v, want cyan", got)
	}
	if got := RotateHue(red, 120, 20); got != (RGB{G: 255}) {
		t.Errorf("RotateHue(red, 120, +20) = %v, want green", got)
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		h1, h2, want float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{0, 180, 180},
		{90, 270, 180},
		{30, 60, 30},
	}
	for _, tt := range tests {
		if got := HueDistance(tt.h1, tt.h2); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HueDistance(%v, %v) = %v, want %v", tt.h1, tt.h2, got, tt.want)
		}
	}
}
