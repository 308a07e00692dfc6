package overlay

import (
	"github.com/paulmach/orb"

	"kmlmap/internal/geom"
)

// Fallback viewport: continental United States at a wide-area zoom.
var FallbackCenter = orb.Point{-95.7129, 37.0902}

const (
	FallbackZoom = 4.0
	// DefaultPadding is in surface pixels.
	DefaultPadding = 4
)

// Fitter issues the one-shot viewport command for a dataset.
type Fitter struct {
	FallbackCenter orb.Point
	FallbackZoom   float64
	Padding        int
}

// DefaultFitter uses the package fallback and padding.
var DefaultFitter = Fitter{
	FallbackCenter: FallbackCenter,
	FallbackZoom:   FallbackZoom,
	Padding:        DefaultPadding,
}

// Fit fits the surface to ext, or centers it on the fallback location when
// ext is nil. Exactly one surface command is issued. Callers must wait for
// the surface to be ready.
func (f Fitter) Fit(s Surface, ext *geom.Extent) {
	if ext == nil {
		s.SetCenterZoom(f.FallbackCenter, f.FallbackZoom)
		return
	}
	s.FitBounds(ext.NorthWest(), ext.SouthEast(), f.Padding)
}

// Fit runs DefaultFitter.
func Fit(s Surface, ext *geom.Extent) { DefaultFitter.Fit(s, ext) }
