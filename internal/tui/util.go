package tui

import "math"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// arrowGlyphs run counter-clockwise from east in 45 degree steps.
var arrowGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// arrowGlyph picks the glyph closest to an arrow angle. Angles are clockwise
// degrees from east, so -90 points north.
func arrowGlyph(angle float64) rune {
	ccw := math.Mod(-angle, 360)
	if ccw < 0 {
		ccw += 360
	}
	return arrowGlyphs[int(math.Round(ccw/45))%8]
}
