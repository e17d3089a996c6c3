package layer

// LayerStyle describes one map layer for a GeoJSON-capable renderer, in the
// shape map renderers expect (type, filter, layout, paint).
type LayerStyle struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Filter []any          `json:"filter,omitempty"`
	Layout map[string]any `json:"layout,omitempty"`
	Paint  map[string]any `json:"paint,omitempty"`
}

// Style lists the layers drawing a composed collection.
type Style struct {
	Layers []LayerStyle `json:"layers"`
}

// arrowFilter selects generated arrow markers.
func arrowFilter() []any {
	return []any{"==", []any{"get", "isArrow"}, true}
}

// LineLayer draws every line dashed in its own color property.
func LineLayer() LayerStyle {
	return LayerStyle{
		ID:     "splinemap-lines",
		Type:   "line",
		Filter: []any{"==", []any{"geometry-type"}, "LineString"},
		Paint: map[string]any{
			"line-dasharray": []any{2, 3},
			"line-color":     []any{"get", "color"},
		},
	}
}

// SymbolLayer draws arrow markers with cfg.ArrowIcon rotated by their angle.
func SymbolLayer(cfg Config) LayerStyle {
	size := cfg.IconSize
	if size <= 0 {
		size = DefaultIconSize
	}
	return LayerStyle{
		ID:     "splinemap-arrows",
		Type:   "symbol",
		Filter: arrowFilter(),
		Layout: map[string]any{
			"icon-image":              cfg.ArrowIcon,
			"icon-rotate":             []any{"get", "angle"},
			"icon-size":               size,
			"icon-rotation-alignment": "map",
			"visibility":              "visible",
		},
	}
}

// StyleFor returns the line layer plus, when arrows are shown with an icon,
// the symbol layer.
func StyleFor(cfg Config) Style {
	s := Style{Layers: []LayerStyle{LineLayer()}}
	if cfg.ShowArrows && cfg.ArrowIcon != "" {
		s.Layers = append(s.Layers, SymbolLayer(cfg))
	}
	return s
}
