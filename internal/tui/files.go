package tui

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"kmlmap/internal/pipeline"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists every regular file; the extension gate judges picks.
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		items = append(items, fileItem{
			title: name,
			desc:  strings.ToLower(filepath.Ext(name)),
			path:  filepath.Join(m.cwd, name),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no files in " + m.cwd
	}
}

// loadedMsg carries a finished ingest back to Update, tagged with the
// request id it was issued under.
type loadedMsg struct {
	id     uint64
	source string
	res    pipeline.Result
	err    error
}

// loadPath starts an asynchronous read of p. Non-KML names fail at once,
// without touching the file. Either way the request supersedes any read
// still in flight.
func (m *Model) loadPath(p string) tea.Cmd {
	id := m.seq.Next()
	m.selPath = p
	if err := pipeline.CheckExtension(p); err != nil {
		m.apply(loadedMsg{id: id, source: p, err: err})
		return nil
	}
	m.status = "loading " + filepath.Base(p) + "…"
	return func() tea.Msg {
		res, err := pipeline.Load(context.Background(), p)
		return loadedMsg{id: id, source: p, res: res, err: err}
	}
}

// loadPasted runs pasted markup through the pipeline synchronously.
func (m *Model) loadPasted(raw string) {
	id := m.seq.Next()
	res, err := pipeline.Process(raw)
	m.selPath = ""
	m.apply(loadedMsg{id: id, source: "<pasted>", res: res, err: err})
}
