// Package curve turns straight segments into smooth LineString features and
// places directional arrow markers on lines.
package curve

import (
	"log/slog"
	"maps"

	"splinemap/internal/geom"
	"splinemap/internal/spline"
)

// DefaultDensity is the number of samples generated per segment.
const DefaultDensity = 100

type options struct {
	density int
	alpha   float64
}

type Option func(*options)

// WithDensity sets the samples per segment. Values below 2 are ignored.
func WithDensity(n int) Option {
	return func(o *options) {
		if n >= 2 {
			o.density = n
		}
	}
}

// WithAlpha sets the Catmull-Rom knot exponent.
func WithAlpha(a float64) Option {
	return func(o *options) { o.alpha = a }
}

// Chain returns the control points of a path through all segments:
// the first segment's From followed by every segment's To.
func Chain(segments []geom.Segment) []geom.Point {
	if len(segments) == 0 {
		return nil
	}
	pts := make([]geom.Point, 0, len(segments)+1)
	pts = append(pts, segments[0].From)
	for _, s := range segments {
		pts = append(pts, s.To)
	}
	return pts
}

// Build interpolates one spline through every segment and slices it back
// into one LineString feature per segment, in input order. Each feature gets
// a copy of its segment's properties.
func Build(segments []geom.Segment, opts ...Option) []geom.Feature {
	if len(segments) == 0 {
		return nil
	}
	o := options{density: DefaultDensity, alpha: spline.DefaultAlpha}
	for _, opt := range opts {
		opt(&o)
	}
	f, err := spline.Interpolate(Chain(segments), o.alpha)
	if err != nil {
		slog.Debug("curve: interpolate", "err", err)
		return nil
	}
	samples := spline.Resample(f, o.density*len(segments))
	out := make([]geom.Feature, 0, len(segments))
	for i, s := range segments {
		props := maps.Clone(s.Properties)
		if props == nil {
			props = map[string]any{}
		}
		chunk := samples[i*o.density : (i+1)*o.density : (i+1)*o.density]
		out = append(out, geom.NewLineString(props, chunk))
	}
	return out
}

// Segments pairs consecutive waypoints into segments. props, when not nil,
// supplies the properties of segment i.
func Segments(wps []geom.Waypoint, props func(i int, from, to geom.Waypoint) map[string]any) []geom.Segment {
	if len(wps) < 2 {
		return nil
	}
	segs := make([]geom.Segment, 0, len(wps)-1)
	for i := 0; i+1 < len(wps); i++ {
		s := geom.Segment{From: wps[i].Position, To: wps[i+1].Position}
		if props != nil {
			s.Properties = props(i, wps[i], wps[i+1])
		}
		segs = append(segs, s)
	}
	return segs
}
