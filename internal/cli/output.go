package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/prism/internal/analysis"
	"github.com/jmylchreest/prism/internal/colour"
)

const (
	formatText = "text"
	formatHex  = "hex"
	formatRGB  = "rgb"
	formatJSON = "json"

	previewWidth = 8

	noColoursMessage = "no colours found"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to convert to JSON: %w", err)
	}
	return nil
}

// writeOutput writes to path, or to w when path is empty.
func writeOutput(w io.Writer, path, output string) error {
	if path == "" {
		_, err := io.WriteString(w, output)
		return err
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// previewEnabled reports whether swatches should be drawn. They are dropped
// when colour output is disabled or stdout is not a terminal.
func previewEnabled(requested bool) bool {
	return requested && colour.SupportsANSIColours()
}

// formatColourList renders one colour per line.
func formatColourList(colours []colour.RGB, format string, showPreview bool) string {
	var sb strings.Builder
	for _, c := range colours {
		value := c.Hex()
		if format == formatRGB {
			value = c.String()
		}
		if showPreview {
			sb.WriteString(colour.ColourPreview(c, previewWidth))
			sb.WriteString(" ")
		}
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatScoredLine(sc analysis.ScoredColour, showPreview bool) string {
	prefix := ""
	if showPreview {
		prefix = colour.ColourPreview(sc.Colour, previewWidth) + " "
	}
	return fmt.Sprintf("  %s%s  %-18s  freq %5.1f%%  vibrancy %.2f\n",
		prefix, sc.Hex, sc.Colour.String(), sc.Frequency*100, sc.Vibrancy)
}

// formatReportText renders a full analysis report for humans.
func formatReportText(r *analysis.Report, showAll, showPreview bool, policy colour.ContrastPolicy) string {
	var sb strings.Builder
	dims := r.Result.Dimensions
	fmt.Fprintf(&sb, "Image: %dx%d (analysed at %dx%d, %s)\n",
		dims.Original.Width, dims.Original.Height,
		dims.Resized.Width, dims.Resized.Height,
		r.Result.Options.Quantization)

	if showAll {
		fmt.Fprintf(&sb, "\nCandidates (%d):\n", len(r.Result.Scored))
		for _, sc := range r.Result.Scored {
			sb.WriteString(formatScoredLine(sc, showPreview))
		}
	}

	if len(r.Selection.Colours) == 0 {
		sb.WriteString("\n" + noColoursMessage + "\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nDominant colours (%d, threshold %.2f", len(r.Selection.Colours), r.Selection.Threshold)
	if r.Selection.Relaxed() {
		fmt.Fprintf(&sb, ", relaxed after %d passes", r.Selection.Passes)
	}
	sb.WriteString("):\n")
	for _, c := range r.Selection.Colours {
		if showPreview {
			fmt.Fprintf(&sb, "  %s  %s\n", colour.FormatColourWithPreview(c, previewWidth), c.String())
		} else {
			fmt.Fprintf(&sb, "  %s  %s\n", c.Hex(), c.String())
		}
	}

	sb.WriteString("\n")
	sb.WriteString(formatPaletteText(r.Palette, showPreview, policy))
	return sb.String()
}

// formatPaletteText renders the four palette roles with their text colours.
func formatPaletteText(p *analysis.Palette, showPreview bool, policy colour.ContrastPolicy) string {
	if p == nil {
		return "Palette: none (all colours are near black or near white)\n"
	}

	synthesized := map[analysis.Role]bool{
		analysis.RoleSecondary: p.SecondarySynthesized,
		analysis.RoleAccent:    p.AccentSynthesized,
	}
	text := p.TextColours(policy)

	var sb strings.Builder
	sb.WriteString("Palette:\n")
	for _, rc := range p.Roles() {
		note := ""
		if synthesized[rc.Role] {
			note = "  (derived)"
		}
		if showPreview {
			fmt.Fprintf(&sb, "  %s  %-18s%s\n", colour.FormatColourWithLabel(rc.Colour, string(rc.Role), previewWidth), rc.Colour.String(), note)
			continue
		}
		fmt.Fprintf(&sb, "  %-14s %s  %-18s  text %s%s\n",
			rc.Role, rc.Colour.Hex(), rc.Colour.String(), text[rc.Role].Hex(), note)
	}
	return sb.String()
}

// paletteColours lists the palette roles in display order.
func paletteColours(p *analysis.Palette) []colour.RGB {
	if p == nil {
		return nil
	}
	roles := p.Roles()
	out := make([]colour.RGB, len(roles))
	for i, rc := range roles {
		out[i] = rc.Colour
	}
	return out
}

func scoredColours(scored []analysis.ScoredColour) []colour.RGB {
	out := make([]colour.RGB, len(scored))
	for i, sc := range scored {
		out[i] = sc.Colour
	}
	return out
}
