package analysis

import "fmt"

// DefaultMaxDimension bounds the longer side of the sampled image.
const DefaultMaxDimension = 400

// Quantization selects how pixels are keyed into candidate colours.
type Quantization string

const (
	// QuantizeExact keys candidates by the raw RGB triple. Frequencies are
	// relative to non-transparent pixels and candidates are ranked by
	// frequency * vibrancy.
	QuantizeExact Quantization = "exact"

	// QuantizeStep16 rounds each channel to the nearest multiple of 16
	// (clamped to 255). Frequencies are relative to every sampled pixel,
	// transparent ones included, and candidates are ranked by frequency.
	QuantizeStep16 Quantization = "step16"
)

// ValidQuantizations returns the supported quantization policies.
func ValidQuantizations() []Quantization {
	return []Quantization{QuantizeExact, QuantizeStep16}
}

// IsValid reports whether q is a supported policy.
func (q Quantization) IsValid() bool {
	return q == QuantizeExact || q == QuantizeStep16
}

// BrightnessGate selects how near-black and near-white candidates are dropped.
type BrightnessGate string

const (
	// GateAverage drops colours whose channel average is <= 20 or >= 235.
	GateAverage BrightnessGate = "average"

	// GateFrequencyAware keeps colours covering more than 5% of the image,
	// or more than 0.5% when saturation > 5 and 5 < lightness < 95.
	GateFrequencyAware BrightnessGate = "frequency"

	// GateNone keeps every candidate.
	GateNone BrightnessGate = "none"
)

// ValidGates returns the supported brightness gates.
func ValidGates() []BrightnessGate {
	return []BrightnessGate{GateAverage, GateFrequencyAware, GateNone}
}

// IsValid reports whether g is a supported gate.
func (g BrightnessGate) IsValid() bool {
	return g == GateAverage || g == GateFrequencyAware || g == GateNone
}

// Brightness gate cutoffs.
const (
	averageGateLow  = 20
	averageGateHigh = 235

	frequencyGateDominant = 0.05
	frequencyGateMinimum  = 0.005
	frequencyGateMinSat   = 5
	frequencyGateMinLight = 5
	frequencyGateMaxLight = 95
)

// Options configures Analyse.
type Options struct {
	// MaxDimension bounds the longer side; larger images are downscaled.
	// Default: 400.
	MaxDimension int

	// Quantization policy. Default: QuantizeStep16.
	Quantization Quantization

	// Gate is the brightness gate. When empty it follows the quantization
	// policy: GateAverage for exact, GateFrequencyAware for step16.
	Gate BrightnessGate
}

// DefaultOptions returns the default quantized policy.
func DefaultOptions() Options {
	return Options{
		MaxDimension: DefaultMaxDimension,
		Quantization: QuantizeStep16,
		Gate:         GateFrequencyAware,
	}
}

// ExactOptions returns the exact-key policy with the 20/235 brightness gate.
func ExactOptions() Options {
	return Options{
		MaxDimension: DefaultMaxDimension,
		Quantization: QuantizeExact,
		Gate:         GateAverage,
	}
}

// GateFor returns the brightness gate paired with a quantization policy.
func GateFor(q Quantization) BrightnessGate {
	if q == QuantizeExact {
		return GateAverage
	}
	return GateFrequencyAware
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.MaxDimension == 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quantization == "" {
		o.Quantization = QuantizeStep16
	}
	if o.Gate == "" {
		o.Gate = GateFor(o.Quantization)
	}
	return o
}

// Validate validates the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MaxDimension < 1 {
		return fmt.Errorf("max dimension must be at least 1, got %d", o.MaxDimension)
	}
	if !o.Quantization.IsValid() {
		return fmt.Errorf("invalid quantization: %s (valid: %v)", o.Quantization, ValidQuantizations())
	}
	if !o.Gate.IsValid() {
		return fmt.Errorf("invalid brightness gate: %s (valid: %v)", o.Gate, ValidGates())
	}
	return nil
}
