package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"

	"kmlmap/internal/geom"
	"kmlmap/internal/overlay"
	"kmlmap/internal/pipeline"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 1
)

// openMsg asks the model to load a path, as if picked from the list.
type openMsg struct{ path string }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.Resize(m.width, m.height-headerHeight-footerHeight)
		m.l.SetSize(sidebarWidth-2, m.height-headerHeight-footerHeight-2)
		m.drawPending()
		return m, nil
	case openMsg:
		return m, m.loadPath(msg.path)
	case loadedMsg:
		m.apply(msg)
		return m, nil
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.pasteMode:
			return m.updatePaste(msg)
		case m.mapOpen:
			return m.updateMap(msg)
		}
		return m.updateHome(msg)
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "paste cancelled"
		return m, nil
	case "ctrl+s":
		raw := strings.TrimSpace(m.ta.Value())
		if raw == "" {
			m.status = "paste: empty"
			return m, nil
		}
		m.pasteMode = false
		m.ta.Blur()
		m.loadPasted(raw)
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "x":
		if m.inspectPopup != "" && msg.String() == "esc" {
			m.inspectPopup = ""
			return m, nil
		}
		m.closeMap()
		m.status = "map closed"
	case "+", "=":
		m.canvas.ZoomBy(1)
		m.status = fmt.Sprintf("zoom: %.0f", m.canvas.Zoom())
	case "-", "_":
		m.canvas.ZoomBy(-1)
		m.status = fmt.Sprintf("zoom: %.0f", m.canvas.Zoom())
	case "f":
		m.pending = true
		m.drawPending()
		m.status = "fit to data"
	case "i":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
			return m, nil
		}
		center := m.canvas.Center()
		if f, ok := m.index.Nearest(center); ok {
			m.inspectPopup = describeFeature(f, center)
			m.status = "inspect popup"
		} else {
			m.inspectPopup = "no feature nearby"
			m.status = m.inspectPopup
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "up":
		m.canvas.Pan(0, -1)
	case "down":
		m.canvas.Pan(0, 1)
	case "left":
		m.canvas.Pan(-2, 0)
	case "right":
		m.canvas.Pan(2, 0)
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.errMsg = ""
		m.showAttrs = false
		return m, nil
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		return m, nil
	case "enter":
		if m.showSidebar && !m.showAttrs {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m, m.loadPath(it.path)
			}
		}
		return m, nil
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
		return m, nil
	case "m":
		if m.result == nil {
			m.status = "nothing loaded"
			return m, nil
		}
		m.openMap()
		return m, nil
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
		return m, nil
	case "h":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case m.showAttrs:
		m.tbl, cmd = m.tbl.Update(msg)
	case m.showSidebar:
		m.l, cmd = m.l.Update(msg)
	}
	return m, cmd
}

// apply installs a finished ingest. Completions of superseded requests are
// dropped; any error clears the current dataset.
func (m *Model) apply(msg loadedMsg) {
	if !m.seq.IsCurrent(msg.id) {
		slog.Debug("discarding stale load", "id", msg.id, "current", m.seq.Current(), "source", msg.source)
		return
	}
	m.clearDataset()
	if msg.err != nil {
		m.errMsg = pipeline.Outcome(msg.err)
		m.status = "load failed: " + filepath.Base(msg.source)
		slog.Warn("load failed", "source", msg.source, "error", msg.err)
		return
	}
	res := msg.res
	m.errMsg = ""
	m.result = &res
	m.source = msg.source
	m.index = newFeatureIndex(res.Collection)
	m.status = fmt.Sprintf("loaded %s  %s", filepath.Base(msg.source), countsString(res.Collection))
	m.openMap()
}

func (m *Model) openMap() {
	m.mapOpen = true
	m.pending = true
	m.inspectPopup = ""
	m.drawPending()
}

// closeMap tears the overlay down; reopening fits and renders again.
func (m *Model) closeMap() {
	m.mapOpen = false
	m.pending = false
	m.inspectPopup = ""
	m.hoverHasGeo = false
	m.canvas.Reset()
}

func (m *Model) clearDataset() {
	m.closeMap()
	m.result = nil
	m.source = ""
	m.index = nil
	m.showAttrs = false
}

// drawPending fits and renders the current dataset once the canvas is ready.
func (m *Model) drawPending() {
	if !m.pending || m.result == nil || !m.canvas.Ready() {
		return
	}
	m.canvas.Reset()
	m.opts.Fitter.Fit(m.canvas, m.result.Extent)
	overlay.RenderWithStyle(m.canvas, m.result.Collection, m.opts.Style)
	m.pending = false
}

// hover tracks the lon/lat under the mouse while the map is open.
func (m *Model) hover(x, y int) {
	cw, ch := m.canvas.Size()
	cy := y - headerHeight
	if !m.mapOpen || x < 0 || x >= cw || cy < 0 || cy >= ch {
		m.hoverHasGeo = false
		return
	}
	p := m.canvas.Unproject(x, cy)
	m.hoverHasGeo = true
	m.hoverLon, m.hoverLat = p.X(), p.Y()
}

func countsString(fc *geojson.FeatureCollection) string {
	counts := geom.Counts(fc)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
