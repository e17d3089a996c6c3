package curve

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"splinemap/internal/geom"
)

// ErrInsufficientGeometry is returned when a line has fewer than two
// coordinates to take a direction from.
var ErrInsufficientGeometry = errors.New("curve: line needs at least two coordinates")

// Position selects where along a line the arrow sits.
type Position int

const (
	End Position = iota
	Start
	Center
)

func (p Position) String() string {
	switch p {
	case Start:
		return "start"
	case Center:
		return "center"
	default:
		return "end"
	}
}

// ParsePosition accepts start, center (or centre) and end. An empty string
// means End.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end":
		return End, nil
	case "start":
		return Start, nil
	case "center", "centre":
		return Center, nil
	}
	return End, fmt.Errorf("curve: unknown arrow position %q", s)
}

func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ArrowIndex returns the pair of coordinate indexes an arrow is computed from
// on a line of n coordinates. Center uses floor(n/2).
func ArrowIndex(n int, pos Position) (from, to int, err error) {
	if n < 2 {
		return 0, 0, ErrInsufficientGeometry
	}
	switch pos {
	case Start:
		return 0, 1, nil
	case Center:
		return n/2 - 1, n / 2, nil
	default:
		return n - 2, n - 1, nil
	}
}

// Angle returns the marker rotation in degrees for travel from -> to:
// clockwise positive, 0 pointing along +x.
func Angle(from, to geom.Point) float64 {
	dx, dy := to[0]-from[0], to[1]-from[1]
	if dx == 0 && dy == 0 {
		return 0
	}
	angle := -math.Atan(dy/dx) * 180 / math.Pi
	if dx < 0 {
		angle += 180
	}
	return angle
}

// PlaceArrow returns a Point feature at to, rotated to face away from from.
func PlaceArrow(from, to geom.Point) geom.Feature {
	return geom.NewPoint(map[string]any{
		"angle":   Angle(from, to),
		"isArrow": true,
	}, to)
}

// ArrowFor places the arrow for a line's coordinates.
func ArrowFor(coords []geom.Point, pos Position) (geom.Feature, error) {
	i, j, err := ArrowIndex(len(coords), pos)
	if err != nil {
		return geom.Feature{}, err
	}
	return PlaceArrow(coords[i], coords[j]), nil
}
