package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"splinemap/internal/geom"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the merged collection
func (m *Model) refreshAttrsFromCurrent() {
	var features []geom.Feature
	if m.merged != nil {
		features = m.merged.Features
	}
	cols, rows := buildAttributes(features)
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	// map to bubbles table columns/rows
	tcols := make([]table.Column, 0, len(cols)+2)
	tcols = append(tcols, table.Column{Title: "#", Width: 4}, table.Column{Title: "geometry", Width: 10})
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(tcols))
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		// Normalize each row to match the number of table columns
		for len(row) < len(tcols) {
			row = append(row, "")
		}
		trows = append(trows, table.Row(row[:len(tcols)]))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes unions the property keys of features into columns. Each
// row starts with the geometry type.
func buildAttributes(features []geom.Feature) ([]string, [][]string) {
	seen := map[string]bool{}
	var order []string
	for _, f := range features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	sort.Strings(order)
	rows := make([][]string, 0, len(features))
	for _, f := range features {
		vals := make([]string, 0, len(order)+1)
		gt := ""
		if f.Geometry != nil {
			gt = f.Geometry.Type
		}
		vals = append(vals, gt)
		for _, k := range order {
			vals = append(vals, formatValue(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return order, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
