package colour

import "math"

const (
	// GrayTolerance is the maximum pairwise channel difference (exclusive)
	// for a colour to count as grayish.
	GrayTolerance = 30

	// GrayPenalty scales the vibrancy of grayish colours.
	GrayPenalty = 0.3

	// DefaultSimilarityThreshold is the perceptual distance below which two
	// colours are considered duplicates.
	DefaultSimilarityThreshold = 0.15
)

// IsGrayish reports whether every pair of channels differs by less than
// GrayTolerance.
func IsGrayish(rgb RGB) bool {
	r, g, b := int(rgb.R), int(rgb.G), int(rgb.B)
	return absInt(r-g) < GrayTolerance &&
		absInt(g-b) < GrayTolerance &&
		absInt(r-b) < GrayTolerance
}

// Vibrancy scores a colour in [0,1]: saturation weighted by closeness of
// lightness to 50%, with a penalty for grayish colours.
func Vibrancy(rgb RGB) float64 {
	return VibrancyHSL(rgb, RGBToHSL(rgb))
}

// VibrancyHSL is Vibrancy for callers that already hold the HSL form.
func VibrancyHSL(rgb RGB, hsl HSL) float64 {
	saturationWeight := hsl.S / 100
	lightnessWeight := 1 - math.Abs(hsl.L-50)/50
	grayWeight := 1.0
	if IsGrayish(rgb) {
		grayWeight = GrayPenalty
	}

	v := saturationWeight * lightnessWeight * grayWeight
	// Float noise at the extremes must not leak outside [0,1].
	return math.Max(0, math.Min(1, v))
}

// PerceptualDistance returns a weighted HSL difference in [0,1]:
// half hue (shortest way round the wheel), a quarter each saturation and
// lightness.
func PerceptualDistance(a, b RGB) float64 {
	return DistanceHSL(RGBToHSL(a), RGBToHSL(b))
}

// DistanceHSL is PerceptualDistance over precomputed HSL values.
func DistanceHSL(a, b HSL) float64 {
	hueDiff := HueDistance(a.H, b.H) / 180
	satDiff := math.Abs(a.S-b.S) / 100
	lightDiff := math.Abs(a.L-b.L) / 100

	return 0.5*hueDiff + 0.25*satDiff + 0.25*lightDiff
}

// FilterDistinct keeps, in input order, each colour whose distance to every
// previously kept colour is at least threshold. Earlier entries win, so
// callers should sort by priority first.
func FilterDistinct(colours []RGB, threshold float64) []RGB {
	kept := make([]RGB, 0, len(colours))
	keptHSL := make([]HSL, 0, len(colours))

	for _, c := range colours {
		hsl := RGBToHSL(c)
		distinct := true
		for _, existing := range keptHSL {
			if DistanceHSL(hsl, existing) < threshold {
				distinct = false
				break
			}
		}
		if distinct {
			kept = append(kept, c)
			keptHSL = append(keptHSL, hsl)
		}
	}

	return kept
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
