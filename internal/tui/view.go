package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.mapOpen {
		return m.mapView()
	}
	return m.homeView()
}

// mapView is the full-screen map modal.
func (m Model) mapView() string {
	title := titleStyle.Render(" kmlmap ") + dimStyle.Render(fmt.Sprintf(" %s  zoom %.0f  esc close", m.sourceName(), m.canvas.Zoom()))
	header := lipgloss.NewStyle().Width(m.width).MaxHeight(headerHeight).Render(title)

	cw, ch := m.canvas.Size()
	body := lipgloss.NewStyle().Width(cw).Height(ch).Render(m.canvas.Render())
	if m.inspectPopup != "" {
		box := boxStyle.MaxWidth(min(56, m.width)).Render(m.inspectPopup)
		body = lipgloss.Place(cw, ch, lipgloss.Left, lipgloss.Center, box)
	}

	keys := []string{"↑↓←→ pan", "+/- zoom", "f fit", "i inspect", "esc close", "q quit"}
	coords := ""
	if m.hoverHasGeo {
		coords = fmt.Sprintf("lon=%.5f lat=%.5f", m.hoverLon, m.hoverLat)
	}
	footer := m.footer(keys, coords)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(m.width).MaxHeight(m.height).Render(ui)
}

func (m Model) homeView() string {
	header := lipgloss.NewStyle().Width(m.width).Render(titleStyle.Render(" kmlmap ─ KML overlay viewer "))

	var banner string
	bannerH := 0
	if m.errMsg != "" {
		banner = bannerStyle.Width(m.width).Render(m.errMsg)
		bannerH = lipgloss.Height(banner)
	}

	contentHeight := max(4, m.height-headerHeight-footerHeight-bannerH)
	contentWidth := max(10, m.width)

	sideW := 0
	var sidebar string
	if m.showSidebar {
		sideW = sidebarWidth
		m.l.SetSize(sidebarWidth-2, contentHeight-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}
	mainW := max(10, contentWidth-sideW-1)

	var main string
	switch {
	case m.pasteMode:
		m.ta.SetWidth(mainW)
		m.ta.SetHeight(min(contentHeight, 16))
		main = m.ta.View()
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mainW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(contentHeight-2, 20))
		main = lipgloss.Place(mainW, contentHeight, lipgloss.Center, lipgloss.Center, boxStyle.Width(maxW).Render(m.tbl.View()))
	default:
		main = lipgloss.NewStyle().Padding(1, 2).Render(m.summary())
	}
	main = lipgloss.NewStyle().Width(mainW).Height(contentHeight).MaxHeight(contentHeight).Render(main)

	body := main
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
	}

	keys := []string{"Tab files", "Enter open", "p paste", "m map", "a attrs", "h help", "q quit"}
	if m.pasteMode {
		keys = []string{"Ctrl+S render", "Esc cancel"}
	}
	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, body, m.footer(keys, ""))
	ui := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return appStyle.Width(contentWidth).MaxHeight(m.height).Render(ui)
}

// summary describes the loaded dataset, or how to load one.
func (m Model) summary() string {
	if m.result == nil {
		return dimStyle.Render("Pick a .kml file from the list and press Enter,\nor press p to paste KML markup.")
	}
	fc := m.result.Collection
	lines := []string{
		titleStyle.Render(m.sourceName()),
		fmt.Sprintf("features: %d", len(fc.Features)),
		fmt.Sprintf("types:    %s", countsString(fc)),
		fmt.Sprintf("extent:   %s", m.result.Extent),
	}
	if name, ok := fc.ExtraMembers["name"].(string); ok {
		lines = append(lines, fmt.Sprintf("document: %s", name))
	}
	lines = append(lines, "", dimStyle.Render("m map  a attributes"))
	return strings.Join(lines, "\n")
}

func (m Model) sourceName() string {
	if m.source == "" {
		return "<none>"
	}
	if strings.HasPrefix(m.source, "<") {
		return m.source
	}
	return filepath.Base(m.source)
}

func (m Model) footer(keys []string, coords string) string {
	left := dimStyle.Render(" " + m.status + " ")
	if m.helpVisible {
		left += dimStyle.Render("  " + strings.Join(keys, "  "))
	}
	right := dimStyle.Render(coords)
	spacerW := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", spacerW) + right)
}
