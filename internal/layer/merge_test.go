package layer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splinemap/internal/curve"
	"splinemap/internal/geom"
)

func baseCollection(t *testing.T) *geom.FeatureCollection {
	t.Helper()
	fc, err := geom.DecodeCollection([]byte(`{
		"type": "FeatureCollection",
		"name": "routes",
		"features": [
			{"type": "Feature", "id": 1, "properties": {"color": "#111111"},
			 "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 1], [0, 2]]}},
			{"type": "Feature", "properties": {"kind": "poi"},
			 "geometry": {"type": "Point", "coordinates": [5, 5]}},
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "LineString", "coordinates": [[9, 9]]}}
		]
	}`))
	require.NoError(t, err)
	return fc
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestMergeNilBase(t *testing.T) {
	gen := []geom.Feature{geom.NewPoint(map[string]any{}, geom.Point{1, 2})}
	got := Merge(nil, gen)
	assert.Equal(t, geom.TypeFeatureCollection, got.Type)
	assert.Equal(t, gen, got.Features)

	empty := Merge(nil)
	assert.NotNil(t, empty.Features)
	assert.Empty(t, empty.Features)
}

func TestMergeEmptyIsCopy(t *testing.T) {
	base := baseCollection(t)
	before := mustJSON(t, base)

	got := Merge(base, nil)
	assert.NotSame(t, base, got)
	assert.JSONEq(t, before, mustJSON(t, got))

	// appending to the copy must not reach the base's backing array
	got.Features = append(got.Features, geom.NewPoint(nil, geom.Point{0, 0}))
	got.Features[0] = geom.Feature{}
	assert.JSONEq(t, before, mustJSON(t, base))
}

func TestMergeOrder(t *testing.T) {
	base := baseCollection(t)
	a := []geom.Feature{geom.NewPoint(map[string]any{"g": "a"}, geom.Point{1, 1})}
	b := []geom.Feature{geom.NewPoint(map[string]any{"g": "b"}, geom.Point{2, 2})}
	got := Merge(base, a, b)
	require.Len(t, got.Features, 5)
	assert.Equal(t, base.Features, got.Features[:3])
	assert.Equal(t, "a", got.Features[3].Properties["g"])
	assert.Equal(t, "b", got.Features[4].Properties["g"])
	assert.Equal(t, base.Foreign, got.Foreign)
}

func TestMergeKeepsFeatureMembers(t *testing.T) {
	feature := `{"type":"Feature","bbox":[0,0,1,1],"title":"keep me","properties":{"a":1},
		"geometry":{"type":"LineString","bbox":[0,0,1,1],"coordinates":[[0,0],[1,1]]}}`
	base, err := geom.DecodeCollection([]byte(`{"type":"FeatureCollection","features":[` + feature + `]}`))
	require.NoError(t, err)

	got := Merge(base, []geom.Feature{geom.NewPoint(map[string]any{}, geom.Point{2, 2})})
	require.Len(t, got.Features, 2)
	assert.JSONEq(t, feature, mustJSON(t, got.Features[0]))
}

func TestComposeOrderAndArrows(t *testing.T) {
	base := baseCollection(t)
	before := mustJSON(t, base)
	segs := []geom.Segment{
		{From: geom.Point{0, 0}, To: geom.Point{1, 1}, Properties: map[string]any{"color": "#222222"}},
		{From: geom.Point{1, 1}, To: geom.Point{2, 0}, Properties: map[string]any{"color": "#333333"}},
	}
	cfg := DefaultConfig()
	got := Compose(base, segs, cfg)

	// 3 base + 2 curves + arrows for the base line, both curves; the
	// single-coordinate base line is skipped
	require.Len(t, got.Features, 3+2+3)
	assert.Equal(t, base.Features, got.Features[:3])
	for _, f := range got.Features[3:5] {
		assert.True(t, f.IsLineString())
		assert.False(t, geom.IsArrow(f))
	}
	for _, f := range got.Features[5:] {
		assert.True(t, geom.IsArrow(f))
	}
	assert.Equal(t, "#222222", got.Features[3].Properties["color"])
	assert.Equal(t, "#333333", got.Features[4].Properties["color"])

	// base line goes north: arrow at its end rotated -90
	pt, ok := got.Features[5].Geometry.Position()
	require.True(t, ok)
	assert.Equal(t, geom.Point{0, 2}, pt)
	assert.InDelta(t, -90, got.Features[5].Properties["angle"].(float64), 1e-9)

	assert.JSONEq(t, before, mustJSON(t, base))
}

func TestComposeArrowsDisabled(t *testing.T) {
	segs := []geom.Segment{{From: geom.Point{0, 0}, To: geom.Point{1, 1}}}
	cfg := DefaultConfig()
	cfg.ShowArrows = false
	got := Compose(nil, segs, cfg)
	require.Len(t, got.Features, 1)
	assert.True(t, got.Features[0].IsLineString())
}

func TestComposeWithoutBaseStillPlacesArrows(t *testing.T) {
	segs := []geom.Segment{{From: geom.Point{0, 0}, To: geom.Point{-1, 1}}}
	cfg := DefaultConfig()
	cfg.ArrowPosition = curve.Start
	got := Compose(nil, segs, cfg)
	require.Len(t, got.Features, 2)
	assert.True(t, geom.IsArrow(got.Features[1]))
}

func TestComposeNoSegments(t *testing.T) {
	base := baseCollection(t)
	cfg := DefaultConfig()
	cfg.ShowArrows = false
	got := Compose(base, nil, cfg)
	assert.Equal(t, base.Features, got.Features)
}

func TestComposeOutputIsGeoJSON(t *testing.T) {
	segs := []geom.Segment{{From: geom.Point{0, 0}, To: geom.Point{1, 0}, Properties: map[string]any{"color": "#010101"}}}
	cfg := DefaultConfig()
	cfg.ResampleDensity = 4
	got := Compose(nil, segs, cfg)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
			Geometry   struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, got)), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "LineString", doc.Features[0].Geometry.Type)
	var line [][2]float64
	require.NoError(t, json.Unmarshal(doc.Features[0].Geometry.Coordinates, &line))
	assert.Len(t, line, 4)
	assert.Equal(t, "Point", doc.Features[1].Geometry.Type)
	assert.Equal(t, true, doc.Features[1].Properties["isArrow"])
	assert.Equal(t, "#010101", doc.Features[0].Properties["color"])
}

func TestWaypointSegments(t *testing.T) {
	wps := []geom.Waypoint{
		{Name: "a", Position: geom.Point{0, 0}},
		{Name: "b", Position: geom.Point{1, 0}},
		{Name: "c", Position: geom.Point{1, 1}},
	}
	n := 0
	segs := WaypointSegments(wps, func() string { n++; return fmt.Sprintf("#00000%d", n) })
	require.Len(t, segs, 2)
	assert.Equal(t, geom.Segment{
		From: geom.Point{1, 0}, To: geom.Point{1, 1},
		Properties: map[string]any{"color": "#000002", "from": "b", "to": "c"},
	}, segs[1])
	assert.Nil(t, WaypointSegments(wps[:1], func() string { return "" }))
}
