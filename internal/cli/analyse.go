package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/prism/internal/analysis"
	"github.com/jmylchreest/prism/internal/config"
	imageutil "github.com/jmylchreest/prism/internal/image"
)

type analyseOptions struct {
	pipeline pipelineFlags
	format   string
	output   string
	all      bool
	preview  bool
	watch    bool
}

func newAnalyseCmd(a *app) *cobra.Command {
	opts := &analyseOptions{}

	cmd := &cobra.Command{
		Use:     "analyse <image|url|->",
		Aliases: []string{"analyze"},
		Short:   "Find the dominant colours of an image",
		Long: `Find the dominant colours of an image and derive a design palette.

The image is downscaled, its pixels are bucketed into candidate colours and
each candidate is scored by frequency and vibrancy. Candidates above the
vibrancy threshold are de-duplicated by perceptual distance; if none
qualify the threshold is lowered step by step.

Supported image formats: JPEG, PNG, GIF, WebP, AVIF

Examples:
  # Analyse a local image
  prism analyse wallpaper.jpg

  # Exact colours with the 20/235 brightness gate
  prism analyse --quantization exact photo.png

  # Hex codes only, from a URL
  prism analyse -f hex https://example.com/logo.png

  # Read from stdin and write JSON to a file
  cat photo.webp | prism analyse -f json -o report.json -

  # Re-run whenever the file changes
  prism analyse --watch --preview design.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyse(cmd, args[0], opts)
		},
	}

	opts.pipeline.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format (text, hex, rgb, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "list every scored candidate, not just the distinct colours")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour previews in terminal")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-analyse whenever the image file changes")

	return cmd
}

func (a *app) runAnalyse(cmd *cobra.Command, src string, opts *analyseOptions) error {
	switch opts.format {
	case formatText, formatHex, formatRGB, formatJSON:
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, hex, rgb, json)", opts.format)
	}

	cfg, crop, err := opts.pipeline.apply(cmd, a.cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	run := func(ctx context.Context) error {
		buf, err := imageutil.LoadBuffer(ctx, a.loader(cmd, cfg), src, crop)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		a.logger.Debug("image loaded", "source", src, "width", buf.Width, "height", buf.Height)

		result, err := analysis.Analyse(buf, cfg.AnalysisOptions())
		if err != nil {
			return fmt.Errorf("failed to analyse image: %w", err)
		}
		report := result.Report(opts.pipeline.selectOptions(cfg))
		a.logger.Debug("analysis complete",
			"candidates", len(result.Scored),
			"gated", result.GatedColours,
			"distinct", len(report.Selection.Colours),
			"threshold", report.Selection.Threshold,
			"passes", report.Selection.Passes,
		)

		output, err := formatAnalyseOutput(report, opts, cfg)
		if err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), opts.output, output); err != nil {
			return err
		}
		if opts.output != "" {
			a.logger.Info("wrote report", "path", opts.output)
		}
		return nil
	}

	if opts.watch {
		return a.watch(cmd.Context(), src, run)
	}
	return run(cmd.Context())
}

func formatAnalyseOutput(r *analysis.Report, opts *analyseOptions, cfg config.Config) (string, error) {
	switch opts.format {
	case formatJSON:
		var sb strings.Builder
		if err := writeJSON(&sb, r); err != nil {
			return "", err
		}
		return sb.String(), nil
	case formatHex, formatRGB:
		colours := r.Selection.Colours
		if opts.all {
			colours = scoredColours(r.Result.Scored)
		}
		if len(colours) == 0 {
			return noColoursMessage + "\n", nil
		}
		return formatColourList(colours, opts.format, previewEnabled(opts.preview)), nil
	default:
		return formatReportText(r, opts.all, previewEnabled(opts.preview), cfg.Contrast), nil
	}
}

// loader builds an image loader bound to the command's stdin.
func (a *app) loader(cmd *cobra.Command, cfg config.Config) imageutil.Loader {
	return &imageutil.SmartLoader{
		Stdin:       cmd.InOrStdin(),
		HTTPTimeout: cfg.HTTPTimeout,
		MaxBytes:    cfg.MaxUploadBytes,
		MaxPixels:   cfg.MaxPixels,
	}
}
