// Package core provides the board simulation for Bust-a-Puzzle.
// It places landed bubbles on a staggered hex grid, analyses connectivity and
// resolves pop/drop cascades. This package is UI-agnostic and deterministic.
package core

import "strings"

// Color is a closed set of bubble kinds: the regular palette plus the
// anchor and free-projectile markers.
type Color uint8

const (
	ColorRed Color = iota
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorAnchor // Ceiling anchor, keeps connected clusters from falling
	ColorFree   // Projectile that has not been loaded with a colour yet
)

// RegularCount is the number of regular palette colours.
const RegularCount = 5

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorOrange:
		return "orange"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorAnchor:
		return "anchor"
	case ColorFree:
		return "free"
	default:
		return "unknown"
	}
}

// Char returns a single character representation for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorOrange:
		return 'O'
	case ColorYellow:
		return 'Y'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorAnchor:
		return '@'
	case ColorFree:
		return '*'
	default:
		return '?'
	}
}

// IsRegular reports whether c belongs to the regular palette.
func (c Color) IsRegular() bool {
	return c < RegularCount
}

// IsAnchor reports whether c is the anchor marker.
func (c Color) IsAnchor() bool {
	return c == ColorAnchor
}

// ParseColor converts a string to a Color.
// Accepts full names and single-letter shorthands; "node" is an alias for anchor.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, true
	case "orange", "o":
		return ColorOrange, true
	case "yellow", "y":
		return ColorYellow, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "anchor", "node", "@":
		return ColorAnchor, true
	default:
		return ColorRed, false
	}
}

// RegularColors returns the regular palette in declaration order.
func RegularColors() []Color {
	return []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue}
}
