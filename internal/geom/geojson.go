package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// GeoJSON type names.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePoint             = "Point"
	TypeMultiPoint        = "MultiPoint"
	TypeLineString        = "LineString"
	TypeMultiLineString   = "MultiLineString"
	TypePolygon           = "Polygon"
	TypeMultiPolygon      = "MultiPolygon"
	TypeGeometryColl      = "GeometryCollection"
)

// FeatureCollection is a GeoJSON feature collection. Members other than
// type, bbox and features are kept in Foreign and written back unchanged.
type FeatureCollection struct {
	Type     string
	BBox     []float64
	Features []Feature
	Foreign  map[string]json.RawMessage
}

// Feature is a GeoJSON feature. Members other than the standard ones are
// kept in Foreign and written back unchanged.
type Feature struct {
	Type       string
	ID         any
	BBox       []float64
	Properties map[string]any
	Geometry   *Geometry
	Foreign    map[string]json.RawMessage
}

// Geometry holds coordinates either as decoded JSON ([]any nesting) or as
// typed values (Point, []Point) for generated features.
type Geometry struct {
	Type        string
	Coordinates any
	Geometries  []Geometry
	BBox        []float64
	Foreign     map[string]json.RawMessage
}

type collectionJSON struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox,omitempty"`
	Features []Feature `json:"features"`
}

type featureJSON struct {
	Type       string         `json:"type"`
	ID         any            `json:"id,omitempty"`
	BBox       []float64      `json:"bbox,omitempty"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

type geometryJSON struct {
	Type        string     `json:"type"`
	Coordinates any        `json:"coordinates,omitempty"`
	Geometries  []Geometry `json:"geometries,omitempty"`
	BBox        []float64  `json:"bbox,omitempty"`
}

// splitForeign returns the members of the object b not named in known.
func splitForeign(b []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// joinForeign adds foreign members to the encoded object b. Standard members
// win over foreign ones of the same name.
func joinForeign(b []byte, foreign map[string]json.RawMessage) ([]byte, error) {
	if len(foreign) == 0 {
		return b, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for k, v := range foreign {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// NewCollection returns an empty FeatureCollection.
func NewCollection() *FeatureCollection {
	return &FeatureCollection{Type: TypeFeatureCollection, Features: []Feature{}}
}

// Clone returns a structural copy: the features slice and the collection
// level members are new, the features themselves are shared values.
func (fc *FeatureCollection) Clone() *FeatureCollection {
	if fc == nil {
		return NewCollection()
	}
	out := &FeatureCollection{
		Type:     fc.Type,
		BBox:     slices.Clone(fc.BBox),
		Features: make([]Feature, len(fc.Features)),
		Foreign:  maps.Clone(fc.Foreign),
	}
	copy(out.Features, fc.Features)
	if out.Type == "" {
		out.Type = TypeFeatureCollection
	}
	return out
}

func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	features := fc.Features
	if features == nil {
		features = []Feature{}
	}
	typ := fc.Type
	if typ == "" {
		typ = TypeFeatureCollection
	}
	b, err := json.Marshal(collectionJSON{Type: typ, BBox: fc.BBox, Features: features})
	if err != nil {
		return nil, err
	}
	return joinForeign(b, fc.Foreign)
}

func (fc *FeatureCollection) UnmarshalJSON(b []byte) error {
	var c collectionJSON
	if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	foreign, err := splitForeign(b, "type", "bbox", "features")
	if err != nil {
		return err
	}
	fc.Type, fc.BBox, fc.Features, fc.Foreign = c.Type, c.BBox, c.Features, foreign
	return nil
}

func (f Feature) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(featureJSON{Type: f.Type, ID: f.ID, BBox: f.BBox, Properties: f.Properties, Geometry: f.Geometry})
	if err != nil {
		return nil, err
	}
	return joinForeign(b, f.Foreign)
}

func (f *Feature) UnmarshalJSON(b []byte) error {
	var v featureJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	foreign, err := splitForeign(b, "type", "id", "bbox", "properties", "geometry")
	if err != nil {
		return err
	}
	*f = Feature{Type: v.Type, ID: v.ID, BBox: v.BBox, Properties: v.Properties, Geometry: v.Geometry, Foreign: foreign}
	return nil
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(geometryJSON{Type: g.Type, Coordinates: g.Coordinates, Geometries: g.Geometries, BBox: g.BBox})
	if err != nil {
		return nil, err
	}
	return joinForeign(b, g.Foreign)
}

func (g *Geometry) UnmarshalJSON(b []byte) error {
	var v geometryJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	foreign, err := splitForeign(b, "type", "coordinates", "geometries", "bbox")
	if err != nil {
		return err
	}
	*g = Geometry{Type: v.Type, Coordinates: v.Coordinates, Geometries: v.Geometries, BBox: v.BBox, Foreign: foreign}
	return nil
}

// NewLineString builds a LineString feature over pts.
func NewLineString(props map[string]any, pts []Point) Feature {
	return Feature{
		Type:       TypeFeature,
		Properties: props,
		Geometry:   &Geometry{Type: TypeLineString, Coordinates: pts},
	}
}

// NewPoint builds a Point feature at pt.
func NewPoint(props map[string]any, pt Point) Feature {
	return Feature{
		Type:       TypeFeature,
		Properties: props,
		Geometry:   &Geometry{Type: TypePoint, Coordinates: pt},
	}
}

// IsLineString reports whether the feature carries LineString geometry.
func (f Feature) IsLineString() bool {
	return f.Geometry != nil && f.Geometry.Type == TypeLineString
}

// LineString returns the coordinates of a LineString geometry.
func (g *Geometry) LineString() ([]Point, bool) {
	if g == nil || g.Type != TypeLineString {
		return nil, false
	}
	return parseArrayPoints(g.Coordinates)
}

// Position returns the coordinates of a Point geometry.
func (g *Geometry) Position() (Point, bool) {
	if g == nil || g.Type != TypePoint {
		return Point{}, false
	}
	return parsePoint(g.Coordinates)
}

func parsePoint(v any) (pt Point, ok bool) {
	switch a := v.(type) {
	case Point:
		return a, true
	case [2]float64:
		return Point(a), true
	case []float64:
		if len(a) >= 2 {
			return Point{a[0], a[1]}, true
		}
	case []any:
		if len(a) >= 2 {
			lon, lok := a[0].(float64)
			lat, aok := a[1].(float64)
			if lok && aok {
				return Point{lon, lat}, true
			}
		}
	}
	return Point{}, false
}

func parseArrayPoints(v any) (pts []Point, ok bool) {
	switch a := v.(type) {
	case []Point:
		return a, true
	case []any:
		for _, el := range a {
			if pt, ok := parsePoint(el); ok {
				pts = append(pts, pt)
			}
		}
		return pts, true
	}
	return nil, false
}

func parseMultiLineString(v any) (m [][]Point, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if ls, ok := parseArrayPoints(el); ok {
			m = append(m, ls)
		}
	}
	return m, true
}

func parsePolygon(v any) (poly [][]Point, ok bool) { return parseMultiLineString(v) }

func parseMultiPolygon(v any) (mp [][][]Point, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if poly, ok := parsePolygon(el); ok {
			mp = append(mp, poly)
		}
	}
	return mp, true
}

// DecodeCollection parses a GeoJSON document. A lone Feature or geometry is
// wrapped into a collection.
func DecodeCollection(data []byte) (*FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	switch head.Type {
	case "":
		return nil, errors.New("invalid geojson: missing type")
	case TypeFeatureCollection:
		var fc FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		if fc.Features == nil {
			fc.Features = []Feature{}
		}
		return &fc, nil
	case TypeFeature:
		var f Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fc := NewCollection()
		fc.Features = append(fc.Features, f)
		return fc, nil
	case TypePoint, TypeMultiPoint, TypeLineString, TypeMultiLineString,
		TypePolygon, TypeMultiPolygon, TypeGeometryColl:
		var g Geometry
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fc := NewCollection()
		fc.Features = append(fc.Features, Feature{Type: TypeFeature, Properties: map[string]any{}, Geometry: &g})
		return fc, nil
	default:
		return nil, errors.New("unsupported geojson type: " + head.Type)
	}
}

// ReadCollection decodes a GeoJSON document from r.
func ReadCollection(r io.Reader) (*FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(data)
}

// LoadCollection reads a GeoJSON file.
func LoadCollection(path string) (*FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCollection(f)
}

// Data flattens the collection into points, lines and polygons for
// rendering. Arrow markers are left out; callers draw them separately.
func (fc *FeatureCollection) Data() Data {
	var d Data
	if fc == nil {
		return d
	}
	n := 0
	addPt := func(pt Point) {
		d.BBox.Extend(pt, n == 0)
		n++
	}
	addLine := func(ls []Point) {
		d.Lines = append(d.Lines, ls)
		for _, p := range ls {
			addPt(p)
		}
	}
	addPoly := func(poly [][]Point) {
		d.Polygons = append(d.Polygons, poly)
		for _, ring := range poly {
			for _, p := range ring {
				addPt(p)
			}
		}
	}
	var walkGeom func(g *Geometry)
	walkGeom = func(g *Geometry) {
		switch g.Type {
		case TypePoint:
			if pt, ok := parsePoint(g.Coordinates); ok {
				d.Points = append(d.Points, pt)
				addPt(pt)
			}
		case TypeMultiPoint:
			if pts, ok := parseArrayPoints(g.Coordinates); ok {
				for _, p := range pts {
					d.Points = append(d.Points, p)
					addPt(p)
				}
			}
		case TypeLineString:
			if ls, ok := parseArrayPoints(g.Coordinates); ok {
				addLine(ls)
			}
		case TypeMultiLineString:
			if mls, ok := parseMultiLineString(g.Coordinates); ok {
				for _, ls := range mls {
					addLine(ls)
				}
			}
		case TypePolygon:
			if poly, ok := parsePolygon(g.Coordinates); ok {
				addPoly(poly)
			}
		case TypeMultiPolygon:
			if mp, ok := parseMultiPolygon(g.Coordinates); ok {
				for _, poly := range mp {
					addPoly(poly)
				}
			}
		case TypeGeometryColl:
			for i := range g.Geometries {
				walkGeom(&g.Geometries[i])
			}
		}
	}
	for _, f := range fc.Features {
		if f.Geometry == nil || IsArrow(f) {
			continue
		}
		walkGeom(f.Geometry)
	}
	return d
}

// IsArrow reports whether f is a generated arrow marker.
func IsArrow(f Feature) bool {
	v, _ := f.Properties["isArrow"].(bool)
	return v
}
