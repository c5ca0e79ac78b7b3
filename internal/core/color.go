package core

import "fmt"

// Color identifies a block color. ColorNone marks the absence of a color
// (empty cells, uncolored strike specs).
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
)

// PlayableColors are the colors pieces are drawn from, in canonical order.
var PlayableColors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

// Rune returns the single-letter code used in ASCII grids and logs.
func (c Color) Rune() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	default:
		return '?'
	}
}

// Valid reports whether c is one of the playable colors.
func (c Color) Valid() bool {
	return c >= ColorRed && c <= ColorYellow
}

// ParseColor converts a name ("red") or letter ("R"/"r") to a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "", "none":
		return ColorNone, nil
	case "red", "R", "r":
		return ColorRed, nil
	case "green", "G", "g":
		return ColorGreen, nil
	case "blue", "B", "b":
		return ColorBlue, nil
	case "yellow", "Y", "y":
		return ColorYellow, nil
	}
	return ColorNone, fmt.Errorf("unknown color %q", s)
}

// ColorFromRune is the inverse of Color.Rune (case-insensitive).
func ColorFromRune(r rune) (Color, bool) {
	switch r {
	case 'R', 'r':
		return ColorRed, true
	case 'G', 'g':
		return ColorGreen, true
	case 'B', 'b':
		return ColorBlue, true
	case 'Y', 'y':
		return ColorYellow, true
	}
	return ColorNone, false
}
