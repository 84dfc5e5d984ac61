package analysis

import (
	"math"
	"slices"

	"github.com/jmylchreest/prism/internal/colour"
)

const (
	// DefaultVibrancyThreshold is the starting threshold for the quantized policy.
	DefaultVibrancyThreshold = 0.35

	// ExactVibrancyThreshold is the starting threshold for the exact policy.
	ExactVibrancyThreshold = 0.2

	// MaxCandidates caps how many candidates reach de-duplication.
	MaxCandidates = 20

	// RelaxationStep is how far the threshold drops on each empty pass.
	RelaxationStep = 0.05
)

// DefaultThresholdFor returns the starting vibrancy threshold for a policy.
func DefaultThresholdFor(q Quantization) float64 {
	if q == QuantizeExact {
		return ExactVibrancyThreshold
	}
	return DefaultVibrancyThreshold
}

// SelectOptions configures Select.
type SelectOptions struct {
	// Threshold is the starting minimum vibrancy. Negative and NaN values
	// are treated as 0, values above 1 as 1.
	Threshold float64

	// MaxCandidates caps the candidates passed to de-duplication.
	// Default: 20.
	MaxCandidates int

	// Similarity is the minimum perceptual distance between kept colours.
	// Default: 0.15.
	Similarity float64

	// DisableRelaxation stops after the first pass even if it is empty.
	DisableRelaxation bool
}

// Selection is the outcome of Select.
type Selection struct {
	Colours []colour.RGB `json:"colours"`

	// Threshold is the vibrancy threshold of the final pass.
	Threshold float64 `json:"threshold"`

	// Passes counts how many thresholds were tried.
	Passes int `json:"passes"`
}

// Relaxed reports whether the threshold had to be lowered.
func (s Selection) Relaxed() bool {
	return s.Passes > 1
}

// SelectDistinct returns the distinct dominant colours for a threshold,
// relaxing it as needed. The result may be empty.
func SelectDistinct(scored []ScoredColour, threshold float64) []colour.RGB {
	return Select(scored, SelectOptions{Threshold: threshold}).Colours
}

// Select filters candidates by vibrancy, ranks them by frequency, keeps the
// top MaxCandidates and de-duplicates them. While that yields nothing and
// the threshold is above zero, the threshold is lowered by RelaxationStep
// (floored at zero) and the pass repeats.
func Select(scored []ScoredColour, opts SelectOptions) Selection {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = MaxCandidates
	}
	if opts.Similarity <= 0 {
		opts.Similarity = colour.DefaultSimilarityThreshold
	}
	initial := clampThreshold(opts.Threshold)

	// Thresholds are derived from the pass number rather than by repeated
	// subtraction so float error cannot add an extra pass.
	for pass := 0; ; pass++ {
		threshold := initial - float64(pass)*RelaxationStep
		if threshold < RelaxationStep*1e-6 {
			threshold = 0
		}

		colours := selectPass(scored, threshold, opts)
		if len(colours) > 0 || threshold == 0 || opts.DisableRelaxation {
			return Selection{Colours: colours, Threshold: threshold, Passes: pass + 1}
		}
	}
}

// clampThreshold bounds t to [0, 1], the range of Vibrancy. NaN maps to 0.
func clampThreshold(t float64) float64 {
	switch {
	case math.IsNaN(t) || t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

func selectPass(scored []ScoredColour, threshold float64, opts SelectOptions) []colour.RGB {
	candidates := make([]ScoredColour, 0, len(scored))
	for _, sc := range scored {
		if sc.Vibrancy >= threshold {
			candidates = append(candidates, sc)
		}
	}

	slices.SortStableFunc(candidates, func(a, b ScoredColour) int {
		switch {
		case a.Frequency > b.Frequency:
			return -1
		case a.Frequency < b.Frequency:
			return 1
		default:
			return 0
		}
	})

	if len(candidates) > opts.MaxCandidates {
		candidates = candidates[:opts.MaxCandidates]
	}

	rgb := make([]colour.RGB, len(candidates))
	for i, sc := range candidates {
		rgb[i] = sc.Colour
	}

	return colour.FilterDistinct(rgb, opts.Similarity)
}
