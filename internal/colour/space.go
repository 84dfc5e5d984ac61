package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL is a colour in hue/saturation/lightness form.
// H is in degrees [0,360), S and L are percentages [0,100].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// RGBToHSL converts RGB to HSL. Achromatic colours (max == min channel)
// have H = S = 0.
func RGBToHSL(rgb RGB) HSL {
	h, s, l := rgb.toColorful().Hsl()
	if h >= 360 {
		h -= 360
	}
	return HSL{H: h, S: s * 100, L: l * 100}
}

// HSLToRGB converts HSL to RGB. h, s and l are all normalised to [0,1]
// (h is a fraction of a full turn). Channels are rounded to nearest and
// clamped to [0,255].
func HSLToRGB(h, s, l float64) RGB {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return fromColorful(colorful.Hsl(h*360, clampUnit(s), clampUnit(l)))
}

// RotateHue returns the colour with the same saturation and lightness as
// base, rotated by the given number of degrees. Saturation is scaled by
// satBoost percentage points and capped at 100.
func RotateHue(base HSL, degrees, satBoost float64) RGB {
	hue := math.Mod(base.H+degrees, 360)
	sat := math.Min(base.S+satBoost, 100)
	return HSLToRGB(hue/360, sat/100, base.L/100)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(rgb RGB) float64 {
	rf := gammaCorrect(float64(rgb.R) / 255.0)
	gf := gammaCorrect(float64(rgb.G) / 255.0)
	bf := gammaCorrect(float64(rgb.B) / 255.0)

	return 0.2126*rf + 0.7152*gf + 0.0722*bf
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

// ContrastPolicy selects how a text colour is chosen for a background.
type ContrastPolicy string

const (
	// ContrastWCAG picks whichever of black or white has the higher WCAG
	// contrast ratio against the background.
	ContrastWCAG ContrastPolicy = "wcag"

	// ContrastSimple picks black when luminance exceeds 0.5, white otherwise.
	ContrastSimple ContrastPolicy = "simple"
)

// IsValid reports whether p is a known policy.
func (p ContrastPolicy) IsValid() bool {
	return p == ContrastWCAG || p == ContrastSimple
}

var (
	// Black is pure black.
	Black = RGB{}
	// White is pure white.
	White = RGB{R: 255, G: 255, B: 255}
)

// ContrastText returns black or white, whichever reads better on bg under
// the given policy. Unknown policies fall back to ContrastWCAG.
func ContrastText(bg RGB, policy ContrastPolicy) RGB {
	lum := Luminance(bg)

	if policy == ContrastSimple {
		if lum > 0.5 {
			return Black
		}
		return White
	}

	whiteContrast := 1.05 / (lum + 0.05)
	blackContrast := (lum + 0.05) / 0.05
	if whiteContrast > blackContrast {
		return White
	}
	return Black
}

// HueDistance calculates the angular distance between two hues on the colour wheel.
// Returns a value between 0 and 180 degrees (shortest path around the wheel).
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(h1 - h2)
	if diff > 180 {
		diff = 360 - diff // Handle wraparound
	}
	return diff
}
