package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Extent is the axis-aligned bounding rectangle of a dataset in degrees.
// Longitude wraparound is not handled, so East < West never occurs for data
// that stays on one side of the antimeridian.
type Extent struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// NorthWest returns the (west, north) corner as a lon/lat point.
func (e Extent) NorthWest() orb.Point { return orb.Point{e.West, e.North} }

// SouthEast returns the (east, south) corner as a lon/lat point.
func (e Extent) SouthEast() orb.Point { return orb.Point{e.East, e.South} }

// Center is the midpoint of the rectangle.
func (e Extent) Center() orb.Point {
	return orb.Point{(e.West + e.East) / 2, (e.North + e.South) / 2}
}

// Bound converts the extent into an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.West, e.South}, Max: orb.Point{e.East, e.North}}
}

func (e Extent) String() string {
	return fmt.Sprintf("[%.5f, %.5f, %.5f, %.5f]", e.West, e.South, e.East, e.North)
}
