package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// dotBits maps a micro-pixel inside a cell (column, row) to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleBuf is a 2x4 micro-grid per terminal cell. Each cell keeps the
// color of the last dot drawn into it.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	color [][]string
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, color: c}
}

func (b *brailleBuf) dotsW() int { return b.w * 2 }
func (b *brailleBuf) dotsH() int { return b.h * 4 }

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	b.color[cy][cx] = color
}

// brush sets a size x size block of dots around (mx, my).
func (b *brailleBuf) brush(mx, my, size int, color string) {
	off := (size - 1) / 2
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			b.setPixel(mx-off+dx, my-off+dy, color)
		}
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham. Endpoints are
// in float micro coords and clipped to the buffer first, so far off-screen
// segments at high zoom cost nothing.
func (b *brailleBuf) drawLineMicro(fx0, fy0, fx1, fy1 float64, size int, color string) {
	margin := float64(size)
	fx0, fy0, fx1, fy1, ok := clipSegment(fx0, fy0, fx1, fy1,
		-margin, -margin, float64(b.dotsW())+margin, float64(b.dotsH())+margin)
	if !ok {
		return
	}
	x0, y0 := int(math.Floor(fx0)), int(math.Floor(fy0))
	x1, y1 := int(math.Floor(fx1)), int(math.Floor(fy1))

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.brush(x0, y0, size, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillRings fills the area enclosed by rings with the even-odd rule, so inner
// rings punch holes. Rings are in float micro coords.
func (b *brailleBuf) fillRings(rings [][][2]float64, color string) {
	hMic, wMic := b.dotsH(), b.dotsW()
	var xs []float64
	for yMic := 0; yMic < hMic; yMic++ {
		y := float64(yMic) + 0.5
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a, c := r[i], r[(i+1)%len(r)]
				if a[1] == c[1] { // horizontal edge: skip
					continue
				}
				if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
					t := (y - a[1]) / (c[1] - a[1])
					xs = append(xs, a[0]+t*(c[0]-a[0]))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Ceil(xs[i]-0.5)))
			end := min(wMic-1, int(math.Floor(xs[i+1]-0.5)))
			for xMic := start; xMic <= end; xMic++ {
				b.setPixel(xMic, yMic, color)
			}
		}
	}
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			r, c := ' ', ""
			if mask != 0 {
				r, c = rune(0x2800+int(mask)), b.color[y][x]
			}
			if c != runColor {
				flush()
				runColor = c
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// clipSegment clips a segment to the rectangle using Liang-Barsky.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
