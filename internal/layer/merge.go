// Package layer composes generated curves and arrows with a base feature
// collection and caches the result per input set.
package layer

import (
	"log/slog"

	"splinemap/internal/curve"
	"splinemap/internal/geom"
	"splinemap/internal/spline"
)

// Config is the single set of knobs for curve and arrow generation.
type Config struct {
	ShowArrows      bool
	ArrowPosition   curve.Position
	ArrowIcon       string
	IconSize        float64
	ResampleDensity int
	Alpha           float64
}

// DefaultIconSize matches the usual scale for a 512px arrow icon.
const DefaultIconSize = 0.045

func DefaultConfig() Config {
	return Config{
		ShowArrows:      true,
		ArrowPosition:   curve.End,
		IconSize:        DefaultIconSize,
		ResampleDensity: curve.DefaultDensity,
		Alpha:           spline.DefaultAlpha,
	}
}

// Merge returns a new collection holding base's features followed by each
// generated group in order. base is left untouched; a nil base is treated as
// an empty collection.
func Merge(base *geom.FeatureCollection, generated ...[]geom.Feature) *geom.FeatureCollection {
	out := base.Clone()
	for _, g := range generated {
		out.Features = append(out.Features, g...)
	}
	return out
}

// Arrows places one arrow per LineString in lines. Lines too short to carry
// a direction are skipped.
func Arrows(lines []geom.Feature, pos curve.Position) []geom.Feature {
	var out []geom.Feature
	for i, f := range lines {
		pts, ok := f.Geometry.LineString()
		if !ok {
			continue
		}
		a, err := curve.ArrowFor(pts, pos)
		if err != nil {
			slog.Debug("layer: skipping arrow", "line", i, "err", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Compose builds curves for segments and, when enabled, arrows for every
// line of base and of the new curves. The result lists base features, then
// curves, then arrows.
func Compose(base *geom.FeatureCollection, segments []geom.Segment, cfg Config) *geom.FeatureCollection {
	curves := curve.Build(segments, curve.WithDensity(cfg.ResampleDensity), curve.WithAlpha(cfg.Alpha))
	if !cfg.ShowArrows {
		return Merge(base, curves)
	}
	var lines []geom.Feature
	if base != nil {
		for _, f := range base.Features {
			if f.IsLineString() {
				lines = append(lines, f)
			}
		}
	}
	lines = append(lines, curves...)
	return Merge(base, curves, Arrows(lines, cfg.ArrowPosition))
}

// WaypointSegments pairs consecutive waypoints into segments, each with its
// own colour from next and the names of its end points.
func WaypointSegments(wps []geom.Waypoint, next func() string) []geom.Segment {
	return curve.Segments(wps, func(_ int, from, to geom.Waypoint) map[string]any {
		return map[string]any{"color": next(), "from": from.Name, "to": to.Name}
	})
}
