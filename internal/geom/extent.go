package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ComputeExtent returns the bounding rectangle of every coordinate in fc.
// Features without geometry are skipped. The result is nil when no coordinate
// was visited; a single point yields a zero-area extent.
func ComputeExtent(fc *geojson.FeatureCollection) *Extent {
	if fc == nil {
		return nil
	}
	var acc extentAcc
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		acc.geometry(f.Geometry)
	}
	if !acc.seen {
		return nil
	}
	ext := acc.ext
	return &ext
}

// extentAcc folds coordinates into four running extrema. The first visited
// coordinate seeds all four bounds.
type extentAcc struct {
	ext  Extent
	seen bool
}

func (a *extentAcc) point(p orb.Point) {
	lon, lat := p[0], p[1]
	if !a.seen {
		a.ext = Extent{North: lat, South: lat, East: lon, West: lon}
		a.seen = true
		return
	}
	if lat > a.ext.North {
		a.ext.North = lat
	}
	if lat < a.ext.South {
		a.ext.South = lat
	}
	if lon > a.ext.East {
		a.ext.East = lon
	}
	if lon < a.ext.West {
		a.ext.West = lon
	}
}

func (a *extentAcc) points(pts []orb.Point) {
	for _, p := range pts {
		a.point(p)
	}
}

// geometry dispatches on the variant; each case knows its own nesting depth.
func (a *extentAcc) geometry(g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		a.point(g)
	case orb.MultiPoint:
		a.points(g)
	case orb.LineString:
		a.points(g)
	case orb.Ring:
		a.points(g)
	case orb.Polygon:
		for _, r := range g {
			a.points(r)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			a.points(ls)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				a.points(r)
			}
		}
	case orb.Collection:
		for _, child := range g {
			a.geometry(child)
		}
	case orb.Bound:
		a.point(g.Min)
		a.point(g.Max)
	}
}
