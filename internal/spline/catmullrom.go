// Package spline implements centripetal Catmull-Rom interpolation over a
// chain of 2D control points.
package spline

import (
	"errors"
	"math"

	"splinemap/internal/geom"
)

// DefaultAlpha gives the centripetal parameterisation.
const DefaultAlpha = 1.0

var ErrTooFewPoints = errors.New("spline: need at least two control points")

// Func maps t in [0, 1] onto the curve. Values outside the range are clamped.
type Func func(t float64) geom.Point

// Interpolate returns a curve passing through every control point. Knot
// spacing is the distance between neighbouring points raised to alpha/2;
// the first and last spans use virtual points reflected through the end
// points.
func Interpolate(points []geom.Point, alpha float64) (Func, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	pts := append([]geom.Point(nil), points...)
	n := len(pts) - 1
	return func(t float64) geom.Point {
		var i int
		switch {
		case t <= 0:
			t = 0
		case t >= 1:
			t, i = 1, n-1
		default:
			i = int(math.Floor(t * float64(n)))
		}
		v1, v2 := pts[i], pts[i+1]
		var v0, v3 geom.Point
		if i > 0 {
			v0 = pts[i-1]
		} else {
			v0 = v1.Scale(2).Sub(v2)
		}
		if i < n-1 {
			v3 = pts[i+2]
		} else {
			v3 = v2.Scale(2).Sub(v1)
		}
		return segment((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3, alpha)
	}, nil
}

// knot returns |u-v|^(alpha/2).
func knot(u, v geom.Point, alpha float64) float64 {
	dx, dy := u[0]-v[0], u[1]-v[1]
	return math.Pow(dx*dx+dy*dy, alpha/4)
}

// blend returns (fu*u + fv*v) / div. A zero div only happens when the two
// operands share a knot, so u is returned as is.
func blend(fu float64, u geom.Point, fv float64, v geom.Point, div float64) geom.Point {
	if div == 0 {
		return u
	}
	return geom.Point{(fu*u[0] + fv*v[0]) / div, (fu*u[1] + fv*v[1]) / div}
}

// segment evaluates the span v1..v2 at local parameter tt in [0, 1].
func segment(tt float64, v0, v1, v2, v3 geom.Point, alpha float64) geom.Point {
	t0 := 0.0
	t1 := knot(v1, v0, alpha) + t0
	t2 := knot(v2, v1, alpha) + t1
	t3 := knot(v3, v2, alpha) + t2
	t := (1-tt)*t1 + tt*t2

	a1 := blend(t1-t, v0, t-t0, v1, t1-t0)
	a2 := blend(t2-t, v1, t-t1, v2, t2-t1)
	a3 := blend(t3-t, v2, t-t2, v3, t3-t2)
	b1 := blend(t2-t, a1, t-t0, a2, t2-t0)
	b2 := blend(t3-t, a2, t-t1, a3, t3-t1)
	return blend(t2-t, b1, t-t1, b2, t2-t1)
}

// Resample evaluates f at count evenly spaced parameters t = i/(count-1).
func Resample(f Func, count int) []geom.Point {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []geom.Point{f(0)}
	}
	out := make([]geom.Point, count)
	for i := range out {
		out[i] = f(float64(i) / float64(count-1))
	}
	return out
}
