package colour

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 8

// DisableColourOutput can be used to disable colour output.
var DisableColourOutput = false

// SupportsANSIColours reports whether stdout is a terminal that should get
// coloured swatches. NO_COLOR is honoured.
func SupportsANSIColours() bool {
	if DisableColourOutput {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func swatchStyle(c RGB, width int) lipgloss.Style {
	if width <= 0 {
		width = defaultWidth
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Width(width).
		MaxWidth(width)
}

// ColourPreview returns a solid block of the given colour, width cells wide.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return swatchStyle(c, width).Render(strings.Repeat(" ", width))
}

// ColourPreviewWithText returns a swatch with text centred on it. The text
// colour comes from ContrastText under the given policy.
func ColourPreviewWithText(c RGB, text string, width int, policy ContrastPolicy) string {
	fg := ContrastText(c, policy)
	return swatchStyle(c, width).
		Foreground(lipgloss.Color(fg.Hex())).
		Align(lipgloss.Center).
		Render(text)
}

// FormatColourWithPreview formats a colour with its preview and hex code.
func FormatColourWithPreview(rgb RGB, width int) string {
	return fmt.Sprintf("%s %s", ColourPreview(rgb, width), rgb.Hex())
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(rgb RGB, label string, width int) string {
	return fmt.Sprintf("%s  %-14s %s", ColourPreview(rgb, width), label, rgb.Hex())
}
