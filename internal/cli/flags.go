package cli

import (
	"errors"
	"image"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/prism/internal/analysis"
	"github.com/jmylchreest/prism/internal/colour"
	"github.com/jmylchreest/prism/internal/config"
	imageutil "github.com/jmylchreest/prism/internal/image"
)

var errThresholdRange = errors.New("threshold must be between 0 and 1")

// pipelineFlags are the input and analysis flags shared by analyse and palette.
type pipelineFlags struct {
	threshold    float64
	maxDimension int
	quantization string
	gate         string
	contrast     string
	crop         string
	noRelax      bool
}

func (f *pipelineFlags) register(flags *pflag.FlagSet) {
	flags.Float64VarP(&f.threshold, "threshold", "t", 0, "starting vibrancy threshold 0-1 (default: 0.35 for step16, 0.2 for exact)")
	flags.IntVarP(&f.maxDimension, "max-dimension", "m", analysis.DefaultMaxDimension, "downscale so the longer side is at most this many pixels")
	flags.StringVar(&f.quantization, "quantization", string(analysis.QuantizeStep16), "colour quantization (exact, step16)")
	flags.StringVar(&f.gate, "gate", "", "brightness gate (average, frequency, none; default follows --quantization)")
	flags.StringVar(&f.contrast, "contrast", string(colour.ContrastWCAG), "text contrast policy (wcag, simple)")
	flags.StringVar(&f.crop, "crop", "", "analyse only the region x,y,w,h")
	flags.BoolVar(&f.noRelax, "no-relax", false, "do not lower the threshold when nothing qualifies")
}

// apply overlays explicitly set flags on cfg and validates the result.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg config.Config) (config.Config, image.Rectangle, error) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("max-dimension") {
		cfg.MaxDimension = f.maxDimension
	}
	if flags.Changed("quantization") {
		cfg.Quantization = analysis.Quantization(strings.ToLower(f.quantization))
		if !flags.Changed("gate") {
			cfg.Gate = ""
		}
	}
	if flags.Changed("gate") {
		cfg.Gate = analysis.BrightnessGate(strings.ToLower(f.gate))
	}
	if flags.Changed("contrast") {
		cfg.Contrast = colour.ContrastPolicy(strings.ToLower(f.contrast))
	}
	if flags.Changed("threshold") && !(f.threshold >= 0 && f.threshold <= 1) {
		return cfg, image.Rectangle{}, errThresholdRange
	}

	crop, err := imageutil.ParseCrop(f.crop)
	if err != nil {
		return cfg, image.Rectangle{}, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, image.Rectangle{}, err
	}
	return cfg, crop, nil
}

func (f *pipelineFlags) selectOptions(cfg config.Config) analysis.SelectOptions {
	opts := cfg.SelectOptions()
	opts.DisableRelaxation = f.noRelax
	return opts
}
