package geom

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/net/html/charset"
)

// ParseKML converts KML markup into a GeoJSON feature collection.
// Every Placemark at any depth becomes one feature; placemarks whose geometry
// is missing or unrecognized are dropped. Markup that is not well-formed XML
// yields a *ParseError. Well-formed markup without usable placemarks yields an
// empty collection and a nil error.
func ParseKML(raw string) (*geojson.FeatureCollection, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.CharsetReader = charset.NewReaderLabel

	fc := geojson.NewFeatureCollection()
	var (
		stack []string
		root  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		switch el := tok.(type) {
		case xml.StartElement:
			root = true
			switch {
			case el.Name.Local == "Placemark":
				var pm kmlPlacemark
				if err := dec.DecodeElement(&pm, &el); err != nil {
					return nil, &ParseError{Err: err}
				}
				if f := pm.feature(); f != nil {
					fc.Append(f)
				}
				continue
			case el.Name.Local == "name" && len(stack) > 0 && stack[len(stack)-1] == "Document":
				var name string
				if err := dec.DecodeElement(&name, &el); err != nil {
					return nil, &ParseError{Err: err}
				}
				setDocumentName(fc, name)
				continue
			}
			stack = append(stack, el.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if !root {
		return nil, &ParseError{Err: errNoRoot}
	}
	return fc, nil
}

// setDocumentName keeps the first non-empty Document name as a foreign member.
func setDocumentName(fc *geojson.FeatureCollection, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if fc.ExtraMembers == nil {
		fc.ExtraMembers = geojson.Properties{}
	}
	if _, ok := fc.ExtraMembers["name"]; !ok {
		fc.ExtraMembers["name"] = name
	}
}

type kmlPlacemark struct {
	Name         string           `xml:"name"`
	Description  string           `xml:"description"`
	StyleURL     string           `xml:"styleUrl"`
	ExtendedData *kmlExtendedData `xml:"ExtendedData"`
	kmlGeometries
}

// kmlGeometries holds every geometry tag a Placemark or MultiGeometry may carry.
// Namespaced tags (gx:Track, gx:MultiTrack) match on their local name.
type kmlGeometries struct {
	Points          []kmlCoordinates `xml:"Point"`
	LineStrings     []kmlCoordinates `xml:"LineString"`
	LinearRings     []kmlCoordinates `xml:"LinearRing"`
	Polygons        []kmlPolygon     `xml:"Polygon"`
	Tracks          []kmlTrack       `xml:"Track"`
	MultiTracks     []kmlMultiTrack  `xml:"MultiTrack"`
	MultiGeometries []kmlGeometries  `xml:"MultiGeometry"`
}

type kmlCoordinates struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoordinates   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoordinates `xml:"innerBoundaryIs>LinearRing"`
}

type kmlTrack struct {
	Coords []string `xml:"coord"`
}

type kmlMultiTrack struct {
	Tracks []kmlTrack `xml:"Track"`
}

type kmlExtendedData struct {
	Data       []kmlData       `xml:"Data"`
	SimpleData []kmlSimpleData `xml:"SchemaData>SimpleData"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func (pm *kmlPlacemark) feature() *geojson.Feature {
	g := combine(pm.kmlGeometries.collect())
	if g == nil {
		return nil
	}
	f := geojson.NewFeature(g)
	setProp(f.Properties, "name", pm.Name)
	setProp(f.Properties, "description", pm.Description)
	setProp(f.Properties, "styleUrl", pm.StyleURL)
	if ed := pm.ExtendedData; ed != nil {
		for _, d := range ed.Data {
			setProp(f.Properties, d.Name, d.Value)
		}
		for _, d := range ed.SimpleData {
			setProp(f.Properties, d.Name, d.Value)
		}
	}
	return f
}

func setProp(p geojson.Properties, key, val string) {
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)
	if key == "" || val == "" {
		return
	}
	p[key] = val
}

// collect builds every non-empty geometry found at this level.
func (g *kmlGeometries) collect() []orb.Geometry {
	var out []orb.Geometry
	for _, p := range g.Points {
		if pts := parseCoordinates(p.Coordinates); len(pts) > 0 {
			out = append(out, pts[0])
		}
	}
	for _, ls := range g.LineStrings {
		if pts := parseCoordinates(ls.Coordinates); len(pts) > 0 {
			out = append(out, orb.LineString(pts))
		}
	}
	for _, lr := range g.LinearRings {
		if pts := parseCoordinates(lr.Coordinates); len(pts) > 0 {
			out = append(out, orb.Polygon{orb.Ring(pts)})
		}
	}
	for _, poly := range g.Polygons {
		if p := poly.polygon(); p != nil {
			out = append(out, p)
		}
	}
	for _, t := range g.Tracks {
		if ls := t.lineString(); ls != nil {
			out = append(out, ls)
		}
	}
	for _, mt := range g.MultiTracks {
		var mls orb.MultiLineString
		for _, t := range mt.Tracks {
			if ls := t.lineString(); ls != nil {
				mls = append(mls, ls)
			}
		}
		if len(mls) > 0 {
			out = append(out, mls)
		}
	}
	for i := range g.MultiGeometries {
		if c := combine(g.MultiGeometries[i].collect()); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (p kmlPolygon) polygon() orb.Polygon {
	outer := parseCoordinates(p.Outer.Coordinates)
	if len(outer) == 0 {
		return nil
	}
	poly := orb.Polygon{orb.Ring(outer)}
	for _, in := range p.Inner {
		if pts := parseCoordinates(in.Coordinates); len(pts) > 0 {
			poly = append(poly, orb.Ring(pts))
		}
	}
	return poly
}

func (t kmlTrack) lineString() orb.LineString {
	var ls orb.LineString
	for _, c := range t.Coords {
		if p, ok := parseTuple(strings.Fields(c)); ok {
			ls = append(ls, p)
		}
	}
	return ls
}

// combine folds sibling geometries into one: a lone geometry is returned as-is,
// homogeneous points, lines or polygons become the matching multi variant, and
// anything else becomes a GeometryCollection.
func combine(geoms []orb.Geometry) orb.Geometry {
	switch len(geoms) {
	case 0:
		return nil
	case 1:
		return geoms[0]
	}
	var (
		mp    orb.MultiPoint
		mls   orb.MultiLineString
		mpoly orb.MultiPolygon
	)
	for _, g := range geoms {
		switch g := g.(type) {
		case orb.Point:
			mp = append(mp, g)
		case orb.LineString:
			mls = append(mls, g)
		case orb.Polygon:
			mpoly = append(mpoly, g)
		}
	}
	switch len(geoms) {
	case len(mp):
		return mp
	case len(mls):
		return mls
	case len(mpoly):
		return mpoly
	}
	return orb.Collection(geoms)
}

// parseCoordinates reads whitespace separated "lon,lat[,alt]" tuples.
// Altitude is dropped; tuples without two finite numbers are skipped.
func parseCoordinates(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		if p, ok := parseTuple(strings.Split(tuple, ",")); ok {
			pts = append(pts, p)
		}
	}
	return pts
}

func parseTuple(vals []string) (orb.Point, bool) {
	if len(vals) < 2 {
		return orb.Point{}, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
	if err1 != nil || err2 != nil || !finite(lon) || !finite(lat) {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
