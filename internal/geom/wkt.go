package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// WKT renders g as Well-Known Text, cut to at most limit runes with a trailing
// ellipsis. limit <= 0 disables truncation.
func WKT(g orb.Geometry, limit int) string {
	if g == nil {
		return "EMPTY"
	}
	s := wkt.MarshalString(g)
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}
