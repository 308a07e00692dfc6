package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"kmlmap/internal/overlay"
	"kmlmap/internal/pipeline"
)

// Options configure a Model.
type Options struct {
	// Dir is browsed by the file picker; empty means the working directory.
	Dir    string
	Style  overlay.Style
	Fitter overlay.Fitter
	// Preload is read at startup when set.
	Preload string
}

// DefaultOptions browse the working directory with the default overlay.
func DefaultOptions() Options {
	return Options{Style: overlay.DefaultStyle(), Fitter: overlay.DefaultFitter}
}

type Model struct {
	width  int
	height int

	opts Options
	seq  *pipeline.Sequencer

	showSidebar bool
	helpVisible bool

	status string
	// errMsg is the banner text of the last failed ingest.
	errMsg string

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// Data
	result *pipeline.Result
	source string
	index  *featureIndex

	// map modal
	mapOpen bool
	canvas  *Canvas
	// pending is set while a dataset waits for the canvas to become ready.
	pending bool

	// inspect popup
	inspectPopup string

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	if opts.Style == (overlay.Style{}) {
		opts.Style = overlay.DefaultStyle()
	}
	if opts.Fitter == (overlay.Fitter{}) {
		opts.Fitter = overlay.DefaultFitter
	}
	m := Model{
		opts:        opts,
		seq:         &pipeline.Sequencer{},
		showSidebar: true,
		helpVisible: true,
		status:      "kmlmap ready",
		canvas:      NewCanvas(),
	}
	m.cwd = opts.Dir
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste KML markup here. Ctrl+S to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.opts.Preload == "" {
		return nil
	}
	path := m.opts.Preload
	return func() tea.Msg { return openMsg{path: path} }
}
