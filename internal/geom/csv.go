package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadWaypointsCSV reads a CSV with latitude/longitude columns and returns
// waypoints in row order.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x, plus an
// optional name|label|id column (case-insensitive).
func LoadWaypointsCSV(path string) ([]Waypoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxName := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "name", "label", "id":
			if idxName == -1 {
				idxName = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var wps []Waypoint
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		wp := Waypoint{Position: Point{lon, lat}}
		if idxName >= 0 && idxName < len(row) {
			wp.Name = strings.TrimSpace(row[idxName])
		}
		wps = append(wps, wp)
	}
	if len(wps) == 0 {
		return nil, fmt.Errorf("csv: %w", ErrNoWaypoints)
	}
	return wps, nil
}
