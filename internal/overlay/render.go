package overlay

import "github.com/paulmach/orb/geojson"

// Accent stroke defaults.
const (
	DefaultStrokeColor  = "#FFD700"
	DefaultStrokeWeight = 3
)

// DefaultStyle is an unfilled outline in the accent color.
func DefaultStyle() Style {
	return Style{
		FillColor:    Transparent,
		StrokeColor:  DefaultStrokeColor,
		StrokeWeight: DefaultStrokeWeight,
	}
}

// Render hands fc to the surface and applies DefaultStyle to every feature.
//
// Render is not idempotent: a second call on the same surface adds the
// features again. Clear the surface between datasets.
func Render(s Surface, fc *geojson.FeatureCollection) { RenderWithStyle(s, fc, DefaultStyle()) }

// RenderWithStyle is Render with a caller-chosen stroke. The fill stays
// transparent whatever st says.
func RenderWithStyle(s Surface, fc *geojson.FeatureCollection, st Style) {
	if fc != nil {
		s.AddGeoJSON(fc)
	}
	st.FillColor = Transparent
	s.SetStyle(func(*geojson.Feature) Style { return st })
}
