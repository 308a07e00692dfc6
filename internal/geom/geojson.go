package geom

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON writes fc as an indented GeoJSON FeatureCollection followed by a newline.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	if fc == nil {
		return errors.New("geojson: nil feature collection")
	}
	b, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Counts tallies features by GeoJSON geometry type. Features without
// geometry are counted under "null".
func Counts(fc *geojson.FeatureCollection) map[string]int {
	out := map[string]int{}
	if fc == nil {
		return out
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			out["null"]++
			continue
		}
		out[f.Geometry.GeoJSONType()]++
	}
	return out
}
