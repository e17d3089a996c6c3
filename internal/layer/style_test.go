package layer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArrowIcon = "arrow"
	s := StyleFor(cfg)
	require.Len(t, s.Layers, 2)
	assert.Equal(t, "line", s.Layers[0].Type)
	assert.Equal(t, "symbol", s.Layers[1].Type)
	assert.Equal(t, "arrow", s.Layers[1].Layout["icon-image"])
	assert.Equal(t, DefaultIconSize, s.Layers[1].Layout["icon-size"])

	cfg.ShowArrows = false
	assert.Len(t, StyleFor(cfg).Layers, 1)

	cfg.ShowArrows = true
	cfg.ArrowIcon = ""
	assert.Len(t, StyleFor(cfg).Layers, 1)
}

func TestStyleJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArrowIcon = "arrow"
	cfg.IconSize = 0.1
	b, err := json.Marshal(StyleFor(cfg))
	require.NoError(t, err)
	assert.JSONEq(t, `{"layers":[
		{"id":"splinemap-lines","type":"line",
		 "filter":["==",["geometry-type"],"LineString"],
		 "paint":{"line-dasharray":[2,3],"line-color":["get","color"]}},
		{"id":"splinemap-arrows","type":"symbol",
		 "filter":["==",["get","isArrow"],true],
		 "layout":{"icon-image":"arrow","icon-rotate":["get","angle"],"icon-size":0.1,
		           "icon-rotation-alignment":"map","visibility":"visible"}}]}`, string(b))
}
