package geom

import "math"

// Point is a [lon, lat] pair. It encodes to JSON as a two-element array.
type Point [2]float64

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }

func (p Point) Add(q Point) Point { return Point{p[0] + q[0], p[1] + q[1]} }
func (p Point) Sub(q Point) Point { return Point{p[0] - q[0], p[1] - q[1]} }

func (p Point) Scale(f float64) Point { return Point{p[0] * f, p[1] * f} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p[0]-q[0], p[1]-q[1]) }

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to include pt. first reports whether pt is the
// first point seen, in which case the box collapses onto it.
func (b *BBox) Extend(pt Point, first bool) {
	if first {
		*b = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
		return
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
}

// Valid reports whether the box has a non-zero area.
func (b BBox) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

// Data is a minimal geometry container for rendering
type Data struct {
	Points   []Point
	Lines    [][]Point
	Polygons [][][]Point // polygons with rings (first outer, following holes)
	BBox     BBox
}

// Segment is one straight from/to hop with opaque properties that are copied
// onto the curve generated for it.
type Segment struct {
	From       Point
	To         Point
	Properties map[string]any
}

// Waypoint is a named location.
type Waypoint struct {
	Name     string
	Position Point
}
