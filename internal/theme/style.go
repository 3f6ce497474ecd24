package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidStyle = errors.New("invalid style")
)

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#RGB" or "#RRGGBB". In the short form each digit is
// doubled, so "#f0a" is "#ff00aa".
func ParseColor(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(s) == 4 {
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return Color{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b}, nil
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseColor is ParseColor for literals; it panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) packed() uint64 {
	return uint64(c.R)<<16 | uint64(c.G)<<8 | uint64(c.B)
}

// Style is the rendering of one token class.
type Style struct {
	FG, BG       Color
	FGSet, BGSet bool
	Bold         bool
	Italic       bool
	Underline    bool
}

// IsZero reports whether the style changes nothing.
func (s Style) IsZero() bool {
	return !s.FGSet && !s.BGSet && !s.Bold && !s.Italic && !s.Underline
}

// Key packs the style into 53 bits; two styles render the same exactly when
// their keys are equal.
func (s Style) Key() uint64 {
	var flags uint64
	for i, set := range []bool{s.FGSet, s.BGSet, s.Bold, s.Italic, s.Underline} {
		if set {
			flags |= 1 << i
		}
	}
	var fg, bg uint64
	if s.FGSet {
		fg = s.FG.packed()
	}
	if s.BGSet {
		bg = s.BG.packed()
	}
	return flags<<48 | bg<<24 | fg
}

// String formats the style in the notation ParseStyle reads.
func (s Style) String() string {
	var parts []string
	if s.Bold {
		parts = append(parts, "bold")
	}
	if s.Italic {
		parts = append(parts, "italic")
	}
	if s.Underline {
		parts = append(parts, "underline")
	}
	if s.FGSet {
		parts = append(parts, s.FG.Hex())
	}
	if s.BGSet {
		parts = append(parts, "bg:"+s.BG.Hex())
	}
	return strings.Join(parts, " ")
}

// ParseStyle reads a space separated list of attributes: "bold", "italic",
// "underline", a foreground color "#RRGGBB" and a background "bg:#RRGGBB".
func ParseStyle(text string) (Style, error) {
	var s Style
	for _, field := range strings.Fields(text) {
		switch {
		case field == "bold":
			s.Bold = true
		case field == "italic":
			s.Italic = true
		case field == "underline":
			s.Underline = true
		case strings.HasPrefix(field, "bg:"):
			c, err := ParseColor(field[3:])
			if err != nil {
				return Style{}, fmt.Errorf("%w: background of %q: %w", ErrInvalidStyle, text, err)
			}
			s.BG, s.BGSet = c, true
		case strings.HasPrefix(field, "#"):
			c, err := ParseColor(field)
			if err != nil {
				return Style{}, fmt.Errorf("%w: %q: %w", ErrInvalidStyle, text, err)
			}
			s.FG, s.FGSet = c, true
		default:
			return Style{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidStyle, field)
		}
	}
	return s, nil
}

// MustParseStyle is ParseStyle for literals; it panics on error.
func MustParseStyle(text string) Style {
	s, err := ParseStyle(text)
	if err != nil {
		panic(err)
	}
	return s
}
