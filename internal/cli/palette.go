package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/prism/internal/analysis"
	imageutil "github.com/jmylchreest/prism/internal/image"
)

type paletteOptions struct {
	pipeline pipelineFlags
	format   string
	output   string
	preview  bool
}

func newPaletteCmd(a *app) *cobra.Command {
	opts := &paletteOptions{}

	cmd := &cobra.Command{
		Use:   "palette <image|url|->",
		Short: "Derive a four-colour design palette from an image",
		Long: `Derive primary, secondary, complementary and accent colours from an image.

The primary is the most frequent distinct colour that is neither near black
nor near white. Roles that cannot be filled from the image are derived from
the primary hue. Each role is printed with the black or white text colour
that reads best on it.

Examples:
  prism palette wallpaper.jpg
  prism palette --preview --contrast simple logo.png
  prism palette -f json https://example.com/banner.webp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPalette(cmd, args[0], opts)
		},
	}

	opts.pipeline.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format (text, hex, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour previews in terminal")

	return cmd
}

// paletteJSON is the palette with its text colours.
type paletteJSON struct {
	*analysis.Palette
	Text map[analysis.Role]string `json:"text"`
}

func (a *app) runPalette(cmd *cobra.Command, src string, opts *paletteOptions) error {
	switch opts.format {
	case formatText, formatHex, formatJSON:
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, hex, json)", opts.format)
	}

	cfg, crop, err := opts.pipeline.apply(cmd, a.cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	buf, err := imageutil.LoadBuffer(cmd.Context(), a.loader(cmd, cfg), src, crop)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	report, err := analysis.Run(buf, cfg.AnalysisOptions(), opts.pipeline.selectOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to analyse image: %w", err)
	}
	a.logger.Debug("palette built", "distinct", len(report.Selection.Colours), "threshold", report.Selection.Threshold)

	var output string
	switch {
	case opts.format == formatJSON:
		var v any
		if report.Palette != nil {
			text := make(map[analysis.Role]string, 4)
			for role, c := range report.Palette.TextColours(cfg.Contrast) {
				text[role] = c.Hex()
			}
			v = paletteJSON{Palette: report.Palette, Text: text}
		}
		var sb strings.Builder
		if err := writeJSON(&sb, map[string]any{"palette": v}); err != nil {
			return err
		}
		output = sb.String()
	case report.Palette == nil:
		output = noColoursMessage + "\n"
	case opts.format == formatHex:
		output = formatColourList(paletteColours(report.Palette), formatHex, previewEnabled(opts.preview))
	default:
		output = formatPaletteText(report.Palette, previewEnabled(opts.preview), cfg.Contrast)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, output)
}
