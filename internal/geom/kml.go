package geom

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadWaypointsKML extracts named Point placemarks from a KML file
// (Placemark > name, Placemark > Point > coordinates).
// KML coordinates are "lon,lat[,alt]"; we ignore altitude.
func LoadWaypointsKML(path string) ([]Waypoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWaypointsKML(f)
}

// ReadWaypointsKML is LoadWaypointsKML over a reader.
func ReadWaypointsKML(r io.Reader) ([]Waypoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	type kmlPoint struct {
		Coordinates string `xml:"coordinates"`
	}
	type kmlPlacemark struct {
		Name  string    `xml:"name"`
		Point *kmlPoint `xml:"Point"`
	}
	type kmlDoc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Document   struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Document"`
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var wps []Waypoint
	for _, pm := range append(doc.Placemarks, doc.Document.Placemarks...) {
		if pm.Point == nil {
			continue
		}
		// coordinates may contain multiple tuples separated by spaces
		for _, tuple := range strings.Fields(pm.Point.Coordinates) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			wps = append(wps, Waypoint{Name: strings.TrimSpace(pm.Name), Position: Point{lon, lat}})
		}
	}
	if len(wps) == 0 {
		return nil, fmt.Errorf("kml: %w", ErrNoWaypoints)
	}
	return wps, nil
}
