// Package palette generates line colours.
package palette

import (
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxValue is the brightness ceiling for generated colours, so they stay
// readable on light base maps.
const MaxValue = 0.6

// Dark returns a random dark colour as "#rrggbb".
func Dark(r *rand.Rand) string {
	h := r.Float64() * 360
	s := 0.5 + r.Float64()*0.5
	v := 0.25 + r.Float64()*(MaxValue-0.25)
	return colorful.Hsv(h, s, v).Clamped().Hex()
}

// Sequence returns a generator of dark colours that repeats for equal seeds.
func Sequence(seed uint64) func() string {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() string { return Dark(r) }
}

// IsDark reports whether hex parses and its HSV value is at most MaxValue,
// allowing for the rounding of 8-bit channels.
func IsDark(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	_, _, v := c.Hsv()
	return v <= MaxValue+0.5/255
}
