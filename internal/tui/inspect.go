package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"kmlmap/internal/geom"
)

// featureIndex answers nearest-feature queries for the inspect popup.
type featureIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature for R-tree storage.
type indexedFeature struct {
	feature *geojson.Feature
	bound   orb.Bound
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	// R-tree requires non-zero dimensions; points get a tiny box.
	const epsilon = 1e-9
	lengths := []float64{
		max(f.bound.Max.X()-f.bound.Min.X(), epsilon),
		max(f.bound.Max.Y()-f.bound.Min.Y(), epsilon),
	}
	rect, _ := rtreego.NewRect(rtreego.Point{f.bound.Min.X(), f.bound.Min.Y()}, lengths)
	return rect
}

func newFeatureIndex(fc *geojson.FeatureCollection) *featureIndex {
	idx := &featureIndex{rtree: rtreego.NewTree(2, 25, 50)}
	if fc == nil {
		return idx
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		idx.rtree.Insert(&indexedFeature{feature: f, bound: f.Geometry.Bound()})
	}
	return idx
}

func (idx *featureIndex) Size() int {
	if idx == nil {
		return 0
	}
	return idx.rtree.Size()
}

// Nearest returns the feature whose bounds lie closest to p.
func (idx *featureIndex) Nearest(p orb.Point) (*geojson.Feature, bool) {
	if idx.Size() == 0 {
		return nil, false
	}
	s := idx.rtree.NearestNeighbor(rtreego.Point{p.X(), p.Y()})
	f, ok := s.(*indexedFeature)
	if !ok {
		return nil, false
	}
	return f.feature, true
}

// describeFeature renders the inspect popup body.
func describeFeature(f *geojson.Feature, at orb.Point) string {
	name, _ := f.Properties["name"].(string)
	if name == "" {
		name = "<unnamed>"
	}
	lines := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("type: %s", f.Geometry.GeoJSONType()),
		fmt.Sprintf("bbox: %s", boundString(f.Geometry.Bound())),
		fmt.Sprintf("wkt: %s", geom.WKT(f.Geometry, 40)),
		fmt.Sprintf("near: lon=%.5f lat=%.5f", at.X(), at.Y()),
	}
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		if k != "name" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, f.Properties[k]))
	}
	return strings.Join(lines, "\n")
}

func boundString(b orb.Bound) string {
	return fmt.Sprintf("[%.5f, %.5f, %.5f, %.5f]", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}
