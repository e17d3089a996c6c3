package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseWKTWaypoints turns the vertices of a WKT geometry into unnamed
// waypoints. Supported: LINESTRING(x y, ...), MULTIPOINT(x y, ...) and
// MULTIPOINT((x y), ...); POINT is accepted but yields a single waypoint.
func ParseWKTWaypoints(wkt string) ([]Waypoint, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	parseTuples := func(block string) []Waypoint {
		var out []Waypoint
		block = strings.NewReplacer("(", " ", ")", " ").Replace(block)
		// split by comma into tuples "x y"
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, Waypoint{Position: Point{x, y}})
		}
		return out
	}
	var kind string
	switch {
	case strings.HasPrefix(up, "LINESTRING"):
		kind = "linestring"
	case strings.HasPrefix(up, "MULTIPOINT"):
		kind = "multipoint"
	case strings.HasPrefix(up, "POINT"):
		kind = "point"
	default:
		return nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return nil, errors.New("wkt " + kind + ": invalid")
	}
	wps := parseTuples(s[i+1 : j])
	if len(wps) == 0 {
		return nil, fmt.Errorf("wkt: %w", ErrNoWaypoints)
	}
	return wps, nil
}
