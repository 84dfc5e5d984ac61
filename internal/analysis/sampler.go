package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/jmylchreest/prism/internal/colour"
)

// ScoredColour is a candidate colour with its share of the image and its
// vibrancy score.
type ScoredColour struct {
	Colour    colour.RGB `json:"rgb"`
	Hex       string     `json:"hex"`
	Count     int        `json:"count"`
	Frequency float64    `json:"frequency"`
	Vibrancy  float64    `json:"vibrancy"`
}

// Score is the combined ranking key used by the exact policy.
func (s ScoredColour) Score() float64 {
	return s.Frequency * s.Vibrancy
}

// Dimensions records the image size before and after downscaling.
type Dimensions struct {
	Original Size `json:"original"`
	Resized  Size `json:"resized"`
}

// Result is the output of Analyse.
type Result struct {
	Scored     []ScoredColour `json:"colours"`
	Dimensions Dimensions     `json:"dimensions"`

	// SampledPixels counts every pixel of the resized image.
	SampledPixels int `json:"sampledPixels"`
	// TransparentPixels counts pixels skipped because alpha was zero.
	TransparentPixels int `json:"transparentPixels"`
	// GatedColours counts candidates dropped by the brightness gate.
	GatedColours int `json:"gatedColours"`

	Options Options `json:"-"`
}

// Analyse reduces a pixel buffer to a ranked list of candidate colours.
// It returns a *DecodeError when the buffer is malformed. A fully transparent
// image is not an error: the result simply has no candidates.
func Analyse(buf PixelBuffer, opts Options) (*Result, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	resized := downscale(buf, opts.MaxDimension)

	type bucket struct {
		count int
	}
	counts := make(map[colour.RGB]*bucket)
	total := resized.Width * resized.Height
	transparent := 0

	for i := range total {
		px := resized.at(i)
		if px.A == 0 {
			transparent++
			continue
		}
		key := quantize(colour.RGB{R: px.R, G: px.G, B: px.B}, opts.Quantization)
		if b, ok := counts[key]; ok {
			b.count++
		} else {
			counts[key] = &bucket{count: 1}
		}
	}

	denominator := total
	if opts.Quantization == QuantizeExact {
		denominator = total - transparent
	}

	result := &Result{
		Dimensions: Dimensions{
			Original: buf.Size(),
			Resized:  resized.Size(),
		},
		SampledPixels:     total,
		TransparentPixels: transparent,
		Options:           opts,
	}

	scored := make([]ScoredColour, 0, len(counts))
	for key, b := range counts {
		// Vibrancy is evaluated once per key, not per pixel.
		hsl := colour.RGBToHSL(key)
		sc := ScoredColour{
			Colour:    key,
			Hex:       key.Hex(),
			Count:     b.count,
			Frequency: float64(b.count) / float64(denominator),
			Vibrancy:  colour.VibrancyHSL(key, hsl),
		}
		if !passesGate(sc, hsl, opts.Gate) {
			result.GatedColours++
			continue
		}
		scored = append(scored, sc)
	}

	sortScored(scored, opts.Quantization)
	result.Scored = scored

	return result, nil
}

// quantize maps a pixel to its candidate key.
func quantize(c colour.RGB, q Quantization) colour.RGB {
	if q != QuantizeStep16 {
		return c
	}
	return colour.RGB{R: step16(c.R), G: step16(c.G), B: step16(c.B)}
}

// step16 rounds to the nearest multiple of 16, half away from zero.
// 248 and above would round to 256, so the result is clamped to 255.
func step16(v uint8) uint8 {
	q := int(math.Round(float64(v)/16)) * 16
	return uint8(min(q, 255))
}

func passesGate(sc ScoredColour, hsl colour.HSL, gate BrightnessGate) bool {
	switch gate {
	case GateAverage:
		b := sc.Colour.Brightness()
		return b > averageGateLow && b < averageGateHigh
	case GateFrequencyAware:
		if sc.Frequency > frequencyGateDominant {
			return true
		}
		return sc.Frequency > frequencyGateMinimum &&
			hsl.S > frequencyGateMinSat &&
			hsl.L > frequencyGateMinLight &&
			hsl.L < frequencyGateMaxLight
	default:
		return true
	}
}

// sortScored orders candidates by the policy's ranking key, descending.
// Ties fall back to the packed RGB value so output never depends on map order.
func sortScored(scored []ScoredColour, q Quantization) {
	key := func(s ScoredColour) float64 { return s.Frequency }
	if q == QuantizeExact {
		key = ScoredColour.Score
	}
	slices.SortFunc(scored, func(a, b ScoredColour) int {
		if c := cmp.Compare(key(b), key(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.Colour.Packed(), b.Colour.Packed())
	})
}
