package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"
)

// refreshAttrs rebuilds the table columns/rows from the current dataset.
func (m *Model) refreshAttrs() {
	var fc *geojson.FeatureCollection
	if m.result != nil {
		fc = m.result.Collection
	}
	cols, rows := buildAttributes(fc)
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+2)
	tcols = append(tcols, table.Column{Title: "#", Width: 4}, table.Column{Title: "type", Width: 16})
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes unions property keys across features. Rows carry the
// geometry type first, then one cell per key.
func buildAttributes(fc *geojson.FeatureCollection) ([]string, [][]string) {
	if fc == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	var order []string
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		var keys []string
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		// map order is random; keep first-seen features' keys stable
		sort.Strings(keys)
		order = append(order, keys...)
	}
	rows := make([][]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		typ := "null"
		if f.Geometry != nil {
			typ = f.Geometry.GeoJSONType()
		}
		vals := make([]string, 0, len(order)+1)
		vals = append(vals, typ)
		for _, k := range order {
			vals = append(vals, cellString(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return order, rows
}

func cellString(v any) string {
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
