package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ErrInvalidStyle is returned for color strings that are neither hex nor a
// known color name.
var ErrInvalidStyle = errors.New("render: invalid style")

// DefaultLineWidth is used when a Style does not name a width.
const DefaultLineWidth = 1.0

// Style is a solid paint. The zero Style means "not set".
type Style struct {
	Color color.NRGBA
	Width float64 // stroke width in pixels, 0 for DefaultLineWidth
}

// IsZero reports whether s is unset.
func (s Style) IsZero() bool {
	return s == Style{}
}

// LineWidth returns the stroke width, falling back to DefaultLineWidth.
func (s Style) LineWidth() float64 {
	if s.Width <= 0 {
		return DefaultLineWidth
	}
	return s.Width
}

// WithWidth returns s with its stroke width replaced.
func (s Style) WithWidth(w float64) Style {
	s.Width = w
	return s
}

// RGBA converts the style's color for gg, without premultiplying.
func (s Style) RGBA() gg.RGBA {
	c := s.Color
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// Hex formats the color as #rrggbb, dropping alpha.
func (s Style) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B)
}

// Opacity is the color's alpha in [0, 1].
func (s Style) Opacity() float64 {
	return float64(s.Color.A) / 255
}

func (s Style) String() string {
	if s.IsZero() {
		return "none"
	}
	if s.Color.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	}
	return s.Hex()
}

// ParseStyle parses a CSS-like color: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa" or a name such as "black" or "steelblue". An empty string
// or "none" gives the zero Style.
func ParseStyle(s string) (Style, error) {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)
	switch low {
	case "", "none":
		return Style{}, nil
	case "transparent":
		return Style{Color: color.NRGBA{0xff, 0xff, 0xff, 0}, Width: DefaultLineWidth}, nil
	}
	if low[0] == '#' {
		if !validHex(low[1:]) {
			return Style{}, fmt.Errorf("%w: %q", ErrInvalidStyle, s)
		}
		return Style{Color: toNRGBA(gg.Hex(low)), Width: DefaultLineWidth}, nil
	}
	c, ok := colornames.Map[low]
	if !ok {
		return Style{}, fmt.Errorf("%w: color name not found %q", ErrInvalidStyle, s)
	}
	return Style{Color: color.NRGBA{c.R, c.G, c.B, c.A}, Width: DefaultLineWidth}, nil
}

// MustStyle is ParseStyle for constants; it panics on a bad string.
func MustStyle(s string) Style {
	st, err := ParseStyle(s)
	if err != nil {
		panic(err)
	}
	return st
}

// gg.Hex falls back to black on malformed input, so check first.
func validHex(h string) bool {
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// gg.RGBA.Color truncates, so round here to keep hex input exact.
func toNRGBA(c gg.RGBA) color.NRGBA {
	ch := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return color.NRGBA{ch(c.R), ch(c.G), ch(c.B), ch(c.A)}
}
