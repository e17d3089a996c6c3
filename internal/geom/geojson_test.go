package geom

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCollectionForeignMembers(t *testing.T) {
	in := `{"type":"FeatureCollection","name":"routes","crs":{"type":"name"},
		"features":[{"type":"Feature","properties":{"a":1},
		"geometry":{"type":"Point","coordinates":[1,2]}}]}`
	fc, err := DecodeCollection([]byte(in))
	require.NoError(t, err)
	assert.Len(t, fc.Foreign, 2)
	assert.JSONEq(t, `"routes"`, string(fc.Foreign["name"]))

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestFeatureAndGeometryMembersRoundTrip(t *testing.T) {
	in := `{"type":"Feature","id":"r1","bbox":[0,0,1,1],"title":"keep me","properties":{"a":1},
		"geometry":{"type":"LineString","bbox":[0,0,1,1],"style":{"w":2},"coordinates":[[0,0],[1,1]]}}`
	fc, err := DecodeCollection([]byte(in))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, []float64{0, 0, 1, 1}, f.BBox)
	assert.JSONEq(t, `"keep me"`, string(f.Foreign["title"]))
	assert.Equal(t, []float64{0, 0, 1, 1}, f.Geometry.BBox)
	assert.JSONEq(t, `{"w":2}`, string(f.Geometry.Foreign["style"]))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	// a foreign member never overrides a standard one
	f.Foreign["type"] = json.RawMessage(`"Bogus"`)
	out, err = json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"Feature"`)
}

func TestGeneratedFeatureHasNoExtraMembers(t *testing.T) {
	out, err := json.Marshal(NewPoint(map[string]any{}, Point{1, 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}`, string(out))
}

func TestDecodeCollectionWrapping(t *testing.T) {
	fc, err := DecodeCollection([]byte(`{"type":"Feature","properties":{"k":"v"},
		"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, TypeFeatureCollection, fc.Type)
	pts, ok := fc.Features[0].Geometry.LineString()
	require.True(t, ok)
	assert.Equal(t, []Point{{0, 0}, {1, 1}}, pts)

	fc, err = DecodeCollection([]byte(`{"type":"Point","coordinates":[3,4]}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	pt, ok := fc.Features[0].Geometry.Position()
	require.True(t, ok)
	assert.Equal(t, Point{3, 4}, pt)
	assert.NotNil(t, fc.Features[0].Properties)
}

func TestDecodeCollectionErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":     `nope`,
		"missing type": `{"features":[]}`,
		"unknown type": `{"type":"Topology"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCollection([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEmptyCollectionMarshalsFeaturesArray(t *testing.T) {
	fc, err := DecodeCollection([]byte(`{"type":"FeatureCollection"}`))
	require.NoError(t, err)
	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(out))
}

func TestCloneIsIndependent(t *testing.T) {
	fc := NewCollection()
	fc.Features = append(fc.Features, NewPoint(map[string]any{}, Point{1, 1}))
	fc.Foreign = map[string]json.RawMessage{"name": json.RawMessage(`"x"`)}

	c := fc.Clone()
	c.Features[0] = NewPoint(nil, Point{9, 9})
	c.Foreign["name"] = json.RawMessage(`"y"`)

	pt, _ := fc.Features[0].Geometry.Position()
	assert.Equal(t, Point{1, 1}, pt)
	assert.Equal(t, `"x"`, string(fc.Foreign["name"]))

	var nilFC *FeatureCollection
	assert.Empty(t, nilFC.Clone().Features)
}

func TestDataSkipsArrows(t *testing.T) {
	fc := NewCollection()
	fc.Features = append(fc.Features,
		NewLineString(map[string]any{}, []Point{{0, 0}, {2, 1}}),
		NewPoint(map[string]any{"isArrow": true, "angle": 0.0}, Point{10, 10}),
		NewPoint(map[string]any{}, Point{-1, 3}),
	)
	d := fc.Data()
	assert.Len(t, d.Lines, 1)
	assert.Equal(t, []Point{{-1, 3}}, d.Points)
	assert.Equal(t, BBox{MinX: -1, MinY: 0, MaxX: 2, MaxY: 3}, d.BBox)
}

func TestDataDecodedGeometries(t *testing.T) {
	fc, err := DecodeCollection([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"MultiLineString","coordinates":[[[0,0],[1,0]],[[0,1],[1,1]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,0]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"GeometryCollection","geometries":[
			{"type":"MultiPoint","coordinates":[[5,5],[6,6]]}]}},
		{"type":"Feature","properties":{},"geometry":null}
	]}`))
	require.NoError(t, err)
	d := fc.Data()
	assert.Len(t, d.Lines, 2)
	assert.Len(t, d.Polygons, 1)
	assert.Len(t, d.Points, 2)
	assert.Equal(t, BBox{MinX: 0, MinY: 0, MaxX: 6, MaxY: 6}, d.BBox)
}

func TestLoadCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))
	fc, err := LoadCollection(path)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)

	_, err = ReadCollection(strings.NewReader(`{}`))
	assert.Error(t, err)
}
