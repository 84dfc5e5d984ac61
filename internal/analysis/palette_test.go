package analysis

import (
	"testing"

	"github.com/jmylchreest/prism/internal/colour"
)

func TestBuildPalettePureRed(t *testing.T) {
	red := colour.RGB{R: 255}
	p := BuildPalette([]colour.RGB{red}, []ScoredColour{scoredOf(red, 1)})
	if p == nil {
		t.Fatal("Expected a palette")
	}

	tests := []struct {
		name string
		got  colour.RGB
		want colour.RGB
	}{
		{"primary", p.Primary, red},
		{"secondary", p.Secondary, colour.RGB{R: 255, G: 128}},
		{"complementary", p.Complementary, colour.RGB{G: 255, B: 255}},
		{"accent", p.Accent, colour.RGB{G: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !p.SecondarySynthesized {
		t.Error("Expected a synthesized secondary")
	}
	if !p.AccentSynthesized {
		t.Error("Expected a synthesized accent")
	}
}

func TestBuildPaletteNil(t *testing.T) {
	tests := []struct {
		name     string
		distinct []colour.RGB
	}{
		{"empty", nil},
		{"near black and white", []colour.RGB{{R: 10, G: 10, B: 10}, {R: 250, G: 250, B: 250}}},
		{"brightness 30 excluded", []colour.RGB{{R: 30, G: 30, B: 30}}},
		{"brightness 225 excluded", []colour.RGB{{R: 225, G: 225, B: 225}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := BuildPalette(tt.distinct, nil); p != nil {
				t.Errorf("BuildPalette() = %+v, want nil", p)
			}
		})
	}
}

func TestBuildPaletteSkipsOutOfRangePrimary(t *testing.T) {
	dark := colour.RGB{R: 5, G: 5, B: 20}
	blue := colour.RGB{R: 30, G: 30, B: 220}
	p := BuildPalette([]colour.RGB{dark, blue}, nil)
	if p == nil || p.Primary != blue {
		t.Fatalf("Expected blue primary, got %+v", p)
	}
}

func TestBuildPaletteSecondary(t *testing.T) {
	red := colour.RGB{R: 220, G: 30, B: 30}
	orange := colour.RGB{R: 220, G: 120, B: 30}
	blue := colour.RGB{R: 30, G: 30, B: 220}

	t.Run("first candidate beyond distance", func(t *testing.T) {
		p := BuildPalette([]colour.RGB{red, orange, blue}, nil)
		if p.Secondary != blue {
			t.Errorf("Secondary = %v, want %v", p.Secondary, blue)
		}
		if p.SecondarySynthesized {
			t.Error("Secondary should not be synthesized")
		}
	})

	t.Run("falls back to second colour", func(t *testing.T) {
		p := BuildPalette([]colour.RGB{red, orange}, nil)
		if p.Secondary != orange {
			t.Errorf("Secondary = %v, want %v", p.Secondary, orange)
		}
		if p.SecondarySynthesized {
			t.Error("Secondary should not be synthesized")
		}
	})
}

func TestBuildPaletteAccentFromScored(t *testing.T) {
	red := colour.RGB{R: 220, G: 30, B: 30}
	blue := colour.RGB{R: 30, G: 30, B: 220}
	green := colour.RGB{R: 30, G: 200, B: 40}
	nearRed := colour.RGB{R: 215, G: 35, B: 30}
	white := colour.RGB{R: 240, G: 240, B: 250}

	scored := []ScoredColour{
		scoredOf(red, 0.4),
		scoredOf(nearRed, 0.2),
		scoredOf(blue, 0.2),
		scoredOf(white, 0.1),
		scoredOf(green, 0.1),
	}

	p := BuildPalette([]colour.RGB{red, blue}, scored)
	if p.Accent != green {
		t.Errorf("Accent = %v, want %v", p.Accent, green)
	}
	if p.AccentSynthesized {
		t.Error("Accent should not be synthesized")
	}
}

func TestBuildPaletteAccentIgnoresSynthesizedSecondary(t *testing.T) {
	red := colour.RGB{R: 255}
	// Close to the synthesized orange secondary but far enough from red.
	lime := colour.RGB{R: 200, G: 255}

	p := BuildPalette([]colour.RGB{red}, []ScoredColour{scoredOf(red, 0.9), scoredOf(lime, 0.1)})
	if !p.SecondarySynthesized {
		t.Fatal("Expected a synthesized secondary")
	}
	if p.Accent != lime {
		t.Errorf("Accent = %v, want %v", p.Accent, lime)
	}
}

func TestPaletteTextColours(t *testing.T) {
	red := colour.RGB{R: 255}
	p := BuildPalette([]colour.RGB{red}, nil)

	wcag := p.TextColours(colour.ContrastWCAG)
	if wcag[RolePrimary] != colour.Black {
		t.Errorf("WCAG text on red = %v, want black", wcag[RolePrimary])
	}
	if wcag[RoleComplementary] != colour.Black {
		t.Errorf("WCAG text on cyan = %v, want black", wcag[RoleComplementary])
	}

	simple := p.TextColours(colour.ContrastSimple)
	if simple[RolePrimary] != colour.White {
		t.Errorf("simple text on red = %v, want white", simple[RolePrimary])
	}
}

func TestPaletteRoles(t *testing.T) {
	p := BuildPalette([]colour.RGB{{R: 255}}, nil)
	roles := p.Roles()
	want := []Role{RolePrimary, RoleSecondary, RoleComplementary, RoleAccent}
	if len(roles) != len(want) {
		t.Fatalf("Roles() returned %d entries, want %d", len(roles), len(want))
	}
	for i, r := range want {
		if roles[i].Role != r {
			t.Errorf("Roles()[%d] = %s, want %s", i, roles[i].Role, r)
		}
	}
}
