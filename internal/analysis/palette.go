package analysis

import (
	"github.com/jmylchreest/prism/internal/colour"
)

// Palette role selection constants.
const (
	paletteBrightnessLow  = 30
	paletteBrightnessHigh = 225

	// secondaryMinDistance is exclusive: the secondary must be further than this.
	secondaryMinDistance = 0.25
	// accentMinDistance is inclusive.
	accentMinDistance = 0.2

	secondaryHueShift     = 30
	complementaryHueShift = 180
	accentHueShift        = 120
	accentSaturationBoost = 20
)

// Role names a palette slot.
type Role string

const (
	RolePrimary       Role = "primary"
	RoleSecondary     Role = "secondary"
	RoleComplementary Role = "complementary"
	RoleAccent        Role = "accent"
)

// Palette is the four-colour design palette derived from dominant colours.
type Palette struct {
	Primary       colour.RGB `json:"primary"`
	Secondary     colour.RGB `json:"secondary"`
	Complementary colour.RGB `json:"complementary"`
	Accent        colour.RGB `json:"accent"`

	// SecondarySynthesized is set when no candidate could serve as secondary
	// and it was generated from the primary hue.
	SecondarySynthesized bool `json:"secondarySynthesized"`
	// AccentSynthesized is set when no scored colour qualified as accent.
	AccentSynthesized bool `json:"accentSynthesized"`
}

// RoleColour pairs a role with its colour.
type RoleColour struct {
	Role   Role       `json:"role"`
	Colour colour.RGB `json:"rgb"`
}

// Roles returns the palette slots in display order.
func (p *Palette) Roles() []RoleColour {
	return []RoleColour{
		{Role: RolePrimary, Colour: p.Primary},
		{Role: RoleSecondary, Colour: p.Secondary},
		{Role: RoleComplementary, Colour: p.Complementary},
		{Role: RoleAccent, Colour: p.Accent},
	}
}

// TextColours returns the readable text colour for each role.
func (p *Palette) TextColours(policy colour.ContrastPolicy) map[Role]colour.RGB {
	out := make(map[Role]colour.RGB, 4)
	for _, rc := range p.Roles() {
		out[rc.Role] = colour.ContrastText(rc.Colour, policy)
	}
	return out
}

func inPaletteRange(c colour.RGB) bool {
	b := c.Brightness()
	return b > paletteBrightnessLow && b < paletteBrightnessHigh
}

// BuildPalette derives primary, secondary, complementary and accent colours.
// distinct must already be de-duplicated and priority-ordered; scored is the
// full candidate list the accent is drawn from. It returns nil when no
// distinct colour survives the near-black/near-white filter.
func BuildPalette(distinct []colour.RGB, scored []ScoredColour) *Palette {
	filtered := make([]colour.RGB, 0, len(distinct))
	for _, c := range distinct {
		if inPaletteRange(c) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	primary := filtered[0]
	primaryHSL := colour.RGBToHSL(primary)

	var secondary *colour.RGB
	for i := 1; i < len(filtered); i++ {
		if colour.PerceptualDistance(primary, filtered[i]) > secondaryMinDistance {
			secondary = &filtered[i]
			break
		}
	}
	if secondary == nil && len(filtered) > 1 {
		secondary = &filtered[1]
	}

	p := &Palette{
		Primary:       primary,
		Complementary: colour.RotateHue(primaryHSL, complementaryHueShift, 0),
	}

	if secondary != nil {
		p.Secondary = *secondary
	} else {
		p.Secondary = colour.RotateHue(primaryHSL, secondaryHueShift, 0)
		p.SecondarySynthesized = true
	}

	if accent, ok := pickAccent(scored, primary, secondary); ok {
		p.Accent = accent
	} else {
		p.Accent = colour.RotateHue(primaryHSL, accentHueShift, accentSaturationBoost)
		p.AccentSynthesized = true
	}

	return p
}

// pickAccent returns the most vibrant scored colour far enough from the
// primary and (when present) the chosen secondary. The first candidate wins
// ties.
func pickAccent(scored []ScoredColour, primary colour.RGB, secondary *colour.RGB) (colour.RGB, bool) {
	var accent colour.RGB
	found := false
	highest := -1.0

	for _, sc := range scored {
		if colour.PerceptualDistance(sc.Colour, primary) < accentMinDistance {
			continue
		}
		if secondary != nil && colour.PerceptualDistance(sc.Colour, *secondary) < accentMinDistance {
			continue
		}
		if sc.Vibrancy > highest && inPaletteRange(sc.Colour) {
			accent = sc.Colour
			highest = sc.Vibrancy
			found = true
		}
	}

	return accent, found
}
