package model

import "strings"

// Color is one of the ten named bubble colors.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorTeal   Color = "teal"
	ColorGray   Color = "gray"
	ColorBrown  Color = "brown"
)

// Colors lists the palette in display order.
func Colors() []Color {
	return []Color{
		ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple,
		ColorOrange, ColorPink, ColorTeal, ColorGray, ColorBrown,
	}
}

// ParseColor maps a string to a palette color, defaulting to gray.
func ParseColor(raw string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range Colors() {
		if candidate == c {
			return candidate
		}
	}
	return ColorGray
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	for _, candidate := range Colors() {
		if candidate == c {
			return true
		}
	}
	return false
}

// Next returns the color after c in the palette, wrapping around.
func (c Color) Next() Color {
	palette := Colors()
	for i, candidate := range palette {
		if candidate == c {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
