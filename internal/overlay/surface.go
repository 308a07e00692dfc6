// Package overlay holds the contract between the geometry pipeline and a
// map-rendering surface: fitting the viewport to a dataset and drawing the
// dataset as an outlined overlay.
package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Transparent is the fill color that disables area fill.
const Transparent = "transparent"

// Style is the visual rule a surface applies to one ingested feature.
type Style struct {
	FillColor    string
	StrokeColor  string
	StrokeWeight int
}

// Filled reports whether the style asks for an area fill.
func (s Style) Filled() bool { return s.FillColor != "" && s.FillColor != Transparent }

// StyleRule produces the style for a feature.
type StyleRule func(f *geojson.Feature) Style

// Surface is the narrow capability a map surface exposes to the pipeline.
// Corners and centers are lon/lat points.
type Surface interface {
	AddGeoJSON(fc *geojson.FeatureCollection)
	SetStyle(rule StyleRule)
	FitBounds(northWest, southEast orb.Point, padding int)
	SetCenterZoom(center orb.Point, zoom float64)
}
