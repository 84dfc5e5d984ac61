package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/prism/internal/colour"
)

type convertResult struct {
	Input    string     `json:"input"`
	Hex      string     `json:"hex"`
	RGB      colour.RGB `json:"rgb"`
	HSL      colour.HSL `json:"hsl"`
	Text     string     `json:"text"`
	Contrast float64    `json:"contrast"`
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		format   string
		contrast string
		preview  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <colour>",
		Short: "Convert between hex and rgb() notation",
		Long: `Convert a colour between hex and rgb() notation.

rgb(r, g, b) input prints the hex form first; #rgb or #rrggbb input prints the
rgb() form first. HSL and the best text colour are printed after.

Examples:
  prism convert "rgb(255, 0, 0)"
  prism convert '#ff8000'
  prism convert -f json 0f0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			hexInput := strings.HasPrefix(input, "#") || looksLikeBareHex(input)

			var c colour.RGB
			var err error
			if hexInput {
				c, err = colour.ParseHex(input)
			} else {
				c, err = colour.ParseRGB(input)
			}
			if err != nil {
				return err
			}

			policy := a.cfg.Contrast
			if cmd.Flags().Changed("contrast") {
				policy = colour.ContrastPolicy(strings.ToLower(contrast))
			}
			if !policy.IsValid() {
				return fmt.Errorf("invalid contrast policy: %s (valid: %s, %s)", policy, colour.ContrastWCAG, colour.ContrastSimple)
			}

			text := colour.ContrastText(c, policy)
			res := convertResult{
				Input:    input,
				Hex:      c.Hex(),
				RGB:      c,
				HSL:      colour.RGBToHSL(c),
				Text:     text.Hex(),
				Contrast: colour.ContrastRatio(c, text),
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(out, res)
			case formatText:
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}

			converted, other := res.Hex, c.String()
			if hexInput {
				converted, other = other, converted
			}

			var sb strings.Builder
			if previewEnabled(preview) {
				sb.WriteString(colour.ColourPreviewWithText(c, res.Hex, 12, policy))
				sb.WriteString("\n")
			}
			fmt.Fprintln(&sb, converted)
			fmt.Fprintf(&sb, "  %s\n", other)
			fmt.Fprintf(&sb, "  hsl(%.0f, %.0f%%, %.0f%%)\n", res.HSL.H, res.HSL.S, res.HSL.L)
			fmt.Fprintf(&sb, "  text %s (contrast %.2f:1)\n", res.Text, res.Contrast)
			_, err = fmt.Fprint(out, sb.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().StringVar(&contrast, "contrast", string(colour.ContrastWCAG), "text contrast policy (wcag, simple)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show a colour preview in terminal")

	return cmd
}

// looksLikeBareHex reports whether s is hex digits without a leading '#'.
func looksLikeBareHex(s string) bool {
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
