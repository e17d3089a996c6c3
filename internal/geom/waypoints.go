package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoWaypoints is returned when a waypoint document holds no usable entry.
var ErrNoWaypoints = errors.New("no waypoints found")

// location is the on-disk shape of a waypoint list entry. Position is
// [lat, lon], the order people copy out of map apps.
type location struct {
	Name     string    `json:"name" yaml:"name"`
	Position []float64 `json:"position" yaml:"position"`
}

func fromLocations(locs []location) ([]Waypoint, error) {
	wps := make([]Waypoint, 0, len(locs))
	for i, l := range locs {
		if len(l.Position) < 2 {
			return nil, fmt.Errorf("waypoint %d (%q): position needs [lat, lon]", i, l.Name)
		}
		wps = append(wps, Waypoint{Name: l.Name, Position: Point{l.Position[1], l.Position[0]}})
	}
	if len(wps) == 0 {
		return nil, ErrNoWaypoints
	}
	return wps, nil
}

// DecodeWaypointsJSON parses a JSON array of {name, position: [lat, lon]}.
func DecodeWaypointsJSON(data []byte) ([]Waypoint, error) {
	var locs []location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("waypoints json: %w", err)
	}
	return fromLocations(locs)
}

// DecodeWaypointsYAML parses a YAML sequence of {name, position: [lat, lon]}.
func DecodeWaypointsYAML(data []byte) ([]Waypoint, error) {
	var locs []location
	if err := yaml.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("waypoints yaml: %w", err)
	}
	return fromLocations(locs)
}

// LoadWaypoints reads a waypoint file, picking the format by extension:
// .json, .yaml/.yml, .csv, .kml or .wkt.
func LoadWaypoints(path string) ([]Waypoint, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return LoadWaypointsCSV(path)
	case ".kml":
		return LoadWaypointsKML(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".json":
		return DecodeWaypointsJSON(data)
	case ".yaml", ".yml":
		return DecodeWaypointsYAML(data)
	case ".wkt":
		return ParseWKTWaypoints(string(data))
	}
	return nil, errors.New("unsupported waypoint file: " + ext)
}

// IsWaypointFile reports whether LoadWaypoints understands the extension.
func IsWaypointFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".csv", ".kml", ".wkt":
		return true
	}
	return false
}

// IsCollectionFile reports whether path names a GeoJSON document.
func IsCollectionFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".geojson")
}
