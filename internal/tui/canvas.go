package tui

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"kmlmap/internal/overlay"
)

const (
	MinZoom = 0.0
	MaxZoom = 18.0

	// dotPixels is how many web-map pixels one braille dot stands for.
	dotPixels = 4
	tileSize  = 256
)

// degreesPerDot is the equirectangular scale at zoom z.
func degreesPerDot(z float64) float64 {
	return 360 / (tileSize / dotPixels * math.Exp2(z))
}

// Canvas is a terminal map surface: an equirectangular viewport rasterised
// onto braille cells. It is ready once it has a non-zero size.
type Canvas struct {
	w, h     int // in cells
	features []*geojson.Feature
	rule     overlay.StyleRule
	center   orb.Point
	zoom     float64
}

var _ overlay.Surface = (*Canvas)(nil)

func NewCanvas() *Canvas {
	return &Canvas{center: overlay.FallbackCenter, zoom: overlay.FallbackZoom}
}

// Resize sets the canvas size in cells.
func (c *Canvas) Resize(w, h int) {
	c.w, c.h = max(0, w), max(0, h)
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Ready reports whether viewport commands can be honoured.
func (c *Canvas) Ready() bool { return c.w > 0 && c.h > 0 }

// Reset drops every ingested feature and the style rule. Size and viewport
// are kept.
func (c *Canvas) Reset() {
	c.features = nil
	c.rule = nil
}

func (c *Canvas) Features() []*geojson.Feature { return c.features }
func (c *Canvas) Center() orb.Point           { return c.center }
func (c *Canvas) Zoom() float64               { return c.zoom }

func (c *Canvas) AddGeoJSON(fc *geojson.FeatureCollection) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		if f != nil && f.Geometry != nil {
			c.features = append(c.features, f)
		}
	}
}

func (c *Canvas) SetStyle(rule overlay.StyleRule) { c.rule = rule }

func (c *Canvas) SetCenterZoom(center orb.Point, zoom float64) {
	c.center = center
	c.zoom = clampZoom(zoom)
}

// FitBounds centers the bounds and picks the largest whole zoom at which
// they fit inside the canvas less padding cells on every side. Zero-area
// bounds get MaxZoom.
func (c *Canvas) FitBounds(northWest, southEast orb.Point, padding int) {
	c.center = orb.Point{
		(northWest.X() + southEast.X()) / 2,
		(northWest.Y() + southEast.Y()) / 2,
	}
	spanX := math.Abs(southEast.X() - northWest.X())
	spanY := math.Abs(northWest.Y() - southEast.Y())

	availX := float64(max(1, c.w*2-1-4*padding))
	availY := float64(max(1, c.h*4-1-8*padding))

	zoom := MaxZoom
	for _, fit := range []float64{fitZoom(spanX, availX), fitZoom(spanY, availY)} {
		zoom = math.Min(zoom, fit)
	}
	c.zoom = clampZoom(zoom)
}

// fitZoom is the largest whole zoom at which span degrees cover at most
// avail dots.
func fitZoom(span, avail float64) float64 {
	if span <= 0 {
		return MaxZoom
	}
	return math.Floor(math.Log2(360 * avail / (tileSize / dotPixels * span)))
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return MinZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Pan moves the viewport by whole cells; positive dx pans east, positive
// dy pans south.
func (c *Canvas) Pan(dx, dy int) {
	dpd := degreesPerDot(c.zoom)
	c.center = orb.Point{
		c.center.X() + float64(dx*2)*dpd,
		c.center.Y() - float64(dy*4)*dpd,
	}
}

// ZoomBy changes the zoom level by delta, keeping the center.
func (c *Canvas) ZoomBy(delta float64) { c.zoom = clampZoom(c.zoom + delta) }

// project maps lon/lat into float micro-grid coords.
func (c *Canvas) project(p orb.Point) (float64, float64) {
	dpd := degreesPerDot(c.zoom)
	x := (p.X()-c.center.X())/dpd + float64(c.w*2)/2
	y := (c.center.Y()-p.Y())/dpd + float64(c.h*4)/2
	return x, y
}

// Unproject maps a cell back to the lon/lat at its center.
func (c *Canvas) Unproject(cx, cy int) orb.Point {
	dpd := degreesPerDot(c.zoom)
	mx := float64(cx*2) + 1 - float64(c.w*2)/2
	my := float64(cy*4) + 2 - float64(c.h*4)/2
	return orb.Point{c.center.X() + mx*dpd, c.center.Y() - my*dpd}
}

// Contains reports whether p projects inside the canvas.
func (c *Canvas) Contains(p orb.Point) bool {
	x, y := c.project(p)
	return x >= 0 && y >= 0 && x < float64(c.w*2) && y < float64(c.h*4)
}

// Render rasterises every feature with its style. Fill is drawn before
// stroke so outlines stay visible.
func (c *Canvas) Render() string {
	if !c.Ready() {
		return ""
	}
	br := newBrailleBuf(c.w, c.h)
	for _, f := range c.features {
		st := overlay.DefaultStyle()
		if c.rule != nil {
			st = c.rule(f)
		}
		c.draw(br, f.Geometry, st)
	}
	return strings.Join(br.toLines(), "\n")
}

func (c *Canvas) draw(br *brailleBuf, g orb.Geometry, st overlay.Style) {
	size := brushSize(st.StrokeWeight)
	switch g := g.(type) {
	case orb.Point:
		x, y := c.project(g)
		br.brush(int(math.Floor(x)), int(math.Floor(y)), size, st.StrokeColor)
	case orb.MultiPoint:
		for _, p := range g {
			c.draw(br, p, st)
		}
	case orb.LineString:
		c.polyline(br, g, false, size, st.StrokeColor)
	case orb.MultiLineString:
		for _, ls := range g {
			c.polyline(br, ls, false, size, st.StrokeColor)
		}
	case orb.Ring:
		c.draw(br, orb.Polygon{g}, st)
	case orb.Polygon:
		if st.Filled() {
			br.fillRings(c.projectRings(g), st.FillColor)
		}
		for _, r := range g {
			c.polyline(br, r, true, size, st.StrokeColor)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			c.draw(br, p, st)
		}
	case orb.Collection:
		for _, sub := range g {
			c.draw(br, sub, st)
		}
	case orb.Bound:
		c.draw(br, g.ToPolygon(), st)
	}
}

func (c *Canvas) polyline(br *brailleBuf, pts []orb.Point, closed bool, size int, color string) {
	if len(pts) == 1 {
		x, y := c.project(pts[0])
		br.brush(int(math.Floor(x)), int(math.Floor(y)), size, color)
		return
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := c.project(pts[i-1])
		x1, y1 := c.project(pts[i])
		br.drawLineMicro(x0, y0, x1, y1, size, color)
	}
	if closed && len(pts) > 2 && !pts[0].Equal(pts[len(pts)-1]) {
		x0, y0 := c.project(pts[len(pts)-1])
		x1, y1 := c.project(pts[0])
		br.drawLineMicro(x0, y0, x1, y1, size, color)
	}
}

func (c *Canvas) projectRings(p orb.Polygon) [][][2]float64 {
	rings := make([][][2]float64, 0, len(p))
	for _, r := range p {
		if len(r) < 3 {
			continue
		}
		pr := make([][2]float64, len(r))
		for i, pt := range r {
			x, y := c.project(pt)
			pr[i] = [2]float64{x, y}
		}
		rings = append(rings, pr)
	}
	return rings
}

// brushSize turns a stroke weight into a square brush in dots; weights of
// two and up draw thicker than a single dot.
func brushSize(weight int) int {
	if weight <= 1 {
		return 1
	}
	return weight/2 + 1
}
