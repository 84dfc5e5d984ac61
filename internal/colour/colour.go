// Package colour provides colour representations, colour-space conversions and
// the perceptual metrics used by the analysis pipeline.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidFormat is matched by every InvalidFormatError via errors.Is.
var ErrInvalidFormat = errors.New("invalid colour format")

// InvalidFormatError reports a colour string that could not be parsed into
// three channels.
type InvalidFormatError struct {
	Input  string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid colour format %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrInvalidFormat.
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// RGB represents a colour as three 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Brightness returns the plain channel average (r+g+b)/3 on the 0-255 scale.
func (rgb RGB) Brightness() float64 {
	return (float64(rgb.R) + float64(rgb.G) + float64(rgb.B)) / 3
}

// Packed returns the colour as a single 0xRRGGBB integer.
func (rgb RGB) Packed() uint32 {
	return uint32(rgb.R)<<16 | uint32(rgb.G)<<8 | uint32(rgb.B)
}

// ToRGB converts a color.Color to RGB, dropping alpha.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// fromColorful converts a go-colorful colour to RGB, clamping out-of-gamut
// values before rounding.
func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// toColorful converts RGB to a go-colorful colour with channels in [0,1].
func (rgb RGB) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

var (
	rgbFuncPattern = regexp.MustCompile(`^rgba?\s*\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	rgbBarePattern = regexp.MustCompile(`^(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})$`)
)

// ParseRGB parses strings such as "rgb(255,0,0)", "rgb(255, 0, 0)" or
// "255,0,0".
func ParseRGB(s string) (RGB, error) {
	trimmed := strings.TrimSpace(s)
	m := rgbFuncPattern.FindStringSubmatch(trimmed)
	if m == nil {
		m = rgbBarePattern.FindStringSubmatch(trimmed)
	}
	if m == nil {
		return RGB{}, &InvalidFormatError{Input: s, Reason: "expected three numeric channels"}
	}

	var channels [3]uint8
	for i, raw := range m[1:] {
		v, err := strconv.Atoi(raw)
		if err != nil || v > 255 {
			return RGB{}, &InvalidFormatError{Input: s, Reason: fmt.Sprintf("channel %d out of range 0-255", i+1)}
		}
		channels[i] = uint8(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// ParseHex parses "#rrggbb" or "#rgb" (case-insensitive).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, &InvalidFormatError{Input: s, Reason: "expected #rgb or #rrggbb"}
	}
	// colorful.Hex scans with Sscanf, which skips spaces and stops early.
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return RGB{}, &InvalidFormatError{Input: s, Reason: fmt.Sprintf("invalid hex digit %q", r)}
		}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, &InvalidFormatError{Input: s, Reason: err.Error()}
	}
	return fromColorful(c), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Parse accepts either a hex string (leading '#') or an rgb() triple.
func Parse(s string) (RGB, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "#") {
		return ParseHex(s)
	}
	return ParseRGB(s)
}

// RGBToHex converts an rgb() string to its zero-padded "#rrggbb" form.
func RGBToHex(s string) (string, error) {
	rgb, err := ParseRGB(s)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// HexToRGB is the inverse of RGB.Hex.
func HexToRGB(s string) (RGB, error) {
	return ParseHex(s)
}
