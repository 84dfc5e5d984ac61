package colour

import (
	"strings"
	"testing"
)

func TestDisableColourOutput(t *testing.T) {
	prev := DisableColourOutput
	t.Cleanup(func() { DisableColourOutput = prev })

	DisableColourOutput = true
	if SupportsANSIColours() {
		t.Error("SupportsANSIColours() = true with colour output disabled")
	}
}

func TestSupportsANSIColoursHonoursNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if SupportsANSIColours() {
		t.Error("SupportsANSIColours() = true with NO_COLOR set")
	}
}

func TestFormatColourWithLabel(t *testing.T) {
	got := FormatColourWithLabel(RGB{R: 255, G: 128}, "accent", 4)
	if !strings.Contains(got, "accent") || !strings.HasSuffix(got, "#ff8000") {
		t.Errorf("FormatColourWithLabel() = %q, want label and hex", got)
	}
}
