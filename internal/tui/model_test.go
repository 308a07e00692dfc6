package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmlmap/internal/pipeline"
)

const trailKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document><name>Trails</name>
<Placemark><name>Ridge</name>
<ExtendedData><Data name="grade"><value>hard</value></Data></ExtendedData>
<LineString><coordinates>-71.05,42.35 -71.03,42.37</coordinates></LineString></Placemark>
<Placemark><name>Summit</name><Point><coordinates>-71.04,42.36</coordinates></Point></Placemark>
</Document></kml>`

const lakeKML = `<kml><Placemark><name>Lake</name><Polygon><outerBoundaryIs><LinearRing>
<coordinates>8,47 9,47 9,48 8,48 8,47</coordinates>
</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

type fixture struct {
	dir, trail, lake, notes string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:   dir,
		trail: filepath.Join(dir, "trail.kml"),
		lake:  filepath.Join(dir, "lake.KML"),
		notes: filepath.Join(dir, "notes.txt"),
	}
	require.NoError(t, os.WriteFile(f.trail, []byte(trailKML), 0o644))
	require.NoError(t, os.WriteFile(f.lake, []byte(lakeKML), 0o644))
	require.NoError(t, os.WriteFile(f.notes, []byte(trailKML), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	return f
}

func sizedModel(t *testing.T, dir string) Model {
	t.Helper()
	opts := DefaultOptions()
	opts.Dir = dir
	m, _ := update(t, New(opts), tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestFilePickerListsAllRegularFiles(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)

	var titles []string
	for _, it := range m.l.Items() {
		titles = append(titles, it.(fileItem).Title())
	}
	assert.Equal(t, []string{"lake.KML", "notes.txt", "trail.kml"}, titles)
}

func TestLoadOpensMap(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)

	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)

	require.NotNil(t, m.result)
	assert.True(t, m.mapOpen)
	assert.False(t, m.pending)
	assert.Empty(t, m.errMsg)
	assert.Len(t, m.canvas.Features(), 2)
	assert.True(t, m.canvas.Contains(m.result.Extent.NorthWest()))
	assert.True(t, m.canvas.Contains(m.result.Extent.SouthEast()))
	assert.Equal(t, 2, m.index.Size())
	assert.Contains(t, m.View(), "trail.kml")
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)

	first := m.loadPath(f.trail)
	second := m.loadPath(f.lake)

	// The newer read finishes first; the older one must not override it.
	m = run(t, m, second)
	m = run(t, m, first)

	require.NotNil(t, m.result)
	assert.Equal(t, f.lake, m.source)
	assert.Len(t, m.canvas.Features(), 1)
}

func TestStaleLoadDiscardedInOrder(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)

	first := m.loadPath(f.trail)
	second := m.loadPath(f.lake)
	m = run(t, m, first)
	assert.Nil(t, m.result)
	m = run(t, m, second)
	assert.Equal(t, f.lake, m.source)
}

func TestErrorClearsDataset(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)
	require.NotNil(t, m.result)

	cmd = m.loadPath(f.notes)
	assert.Nil(t, cmd)

	assert.Nil(t, m.result)
	assert.Nil(t, m.index)
	assert.False(t, m.mapOpen)
	assert.Empty(t, m.canvas.Features())
	assert.Equal(t, pipeline.MsgInvalidFileType, m.errMsg)
	assert.Contains(t, m.View(), pipeline.MsgInvalidFileType)
}

func TestErrorMessages(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.dir, "bad.kml")
	empty := filepath.Join(f.dir, "empty.kml")
	require.NoError(t, os.WriteFile(bad, []byte(`<kml><Document><Placemark>`), 0o644))
	require.NoError(t, os.WriteFile(empty, []byte(`<kml><Document><Placemark><name>x</name></Placemark></Document></kml>`), 0o644))

	missing := filepath.Join(f.dir, "missing.kml")

	for path, want := range map[string]string{
		bad:     pipeline.MsgCorruptMarkup,
		empty:   pipeline.MsgNoFeatures,
		missing: pipeline.MsgRead,
	} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m := sizedModel(t, f.dir)
			cmd := m.loadPath(path)
			m = run(t, m, cmd)
			assert.Equal(t, want, m.errMsg)
			assert.Nil(t, m.result)
			assert.False(t, m.mapOpen)
		})
	}
}

func TestSuccessClearsBanner(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	m.loadPath(f.notes)
	require.NotEmpty(t, m.errMsg)

	cmd := m.loadPath(f.lake)
	m = run(t, m, cmd)
	assert.Empty(t, m.errMsg)
	assert.NotNil(t, m.result)
}

func TestRenderWaitsForReadyCanvas(t *testing.T) {
	f := newFixture(t)
	opts := DefaultOptions()
	opts.Dir = f.dir
	m := New(opts)

	cmd := m.loadPath(f.lake)
	m = run(t, m, cmd)
	require.NotNil(t, m.result)
	assert.True(t, m.mapOpen)
	assert.True(t, m.pending)
	assert.Empty(t, m.canvas.Features())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, m.pending)
	assert.Len(t, m.canvas.Features(), 1)
	assert.True(t, m.canvas.Contains(m.result.Extent.NorthWest()))
}

func TestCloseAndReopenMap(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)

	m.canvas.Pan(20, 0)
	m, _ = update(t, m, key("esc"))
	assert.False(t, m.mapOpen)
	assert.Empty(t, m.canvas.Features())
	assert.NotNil(t, m.result)

	m, _ = update(t, m, key("m"))
	assert.True(t, m.mapOpen)
	assert.Len(t, m.canvas.Features(), 2)
	assert.True(t, m.canvas.Contains(m.result.Extent.NorthWest()))
}

func TestMapKeys(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)
	zoom := m.canvas.Zoom()
	center := m.canvas.Center()

	m, _ = update(t, m, key("-"))
	assert.Equal(t, zoom-1, m.canvas.Zoom())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Greater(t, m.canvas.Center().X(), center.X())

	m, _ = update(t, m, key("f"))
	assert.Equal(t, zoom, m.canvas.Zoom())
	assert.Equal(t, center, m.canvas.Center())
	assert.Len(t, m.canvas.Features(), 2)
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	cmd := m.loadPath(f.lake)
	m = run(t, m, cmd)

	m, _ = update(t, m, key("i"))
	assert.Contains(t, m.inspectPopup, "name: Lake")
	assert.Contains(t, m.inspectPopup, "type: Polygon")
	assert.Contains(t, m.View(), "name: Lake")

	m, _ = update(t, m, key("esc"))
	assert.Empty(t, m.inspectPopup)
	assert.True(t, m.mapOpen)
}

func TestPasteMode(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)

	m, _ = update(t, m, key("p"))
	require.True(t, m.pasteMode)
	m.ta.SetValue(lakeKML)
	m, _ = update(t, m, key("ctrl+s"))

	assert.False(t, m.pasteMode)
	require.NotNil(t, m.result)
	assert.Equal(t, "<pasted>", m.source)
	assert.True(t, m.mapOpen)
	assert.Len(t, m.canvas.Features(), 1)
}

func TestPasteSupersedesInFlightRead(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	pending := m.loadPath(f.trail)

	m.loadPasted(lakeKML)
	m = run(t, m, pending)
	assert.Equal(t, "<pasted>", m.source)
}

func TestPasteInvalidMarkup(t *testing.T) {
	m := sizedModel(t, t.TempDir())
	m.loadPasted("<kml><Placemark>")
	assert.Equal(t, pipeline.MsgCorruptMarkup, m.errMsg)
	assert.False(t, m.mapOpen)
}

func TestAttributesTable(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)
	m, _ = update(t, m, key("esc"))

	m, _ = update(t, m, key("a"))
	require.True(t, m.showAttrs)
	var titles []string
	for _, c := range m.tbl.Columns() {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"#", "type", "grade", "name"}, titles)
	require.Len(t, m.tbl.Rows(), 2)
	assert.Equal(t, []string{"1", "LineString", "hard", "Ridge"}, []string(m.tbl.Rows()[0]))
	assert.Equal(t, []string{"2", "Point", "", "Summit"}, []string(m.tbl.Rows()[1]))
}

func TestAttributesWithoutDataset(t *testing.T) {
	m := sizedModel(t, t.TempDir())
	m, _ = update(t, m, key("a"))
	assert.False(t, m.showAttrs)
	assert.Equal(t, "no attributes for current dataset", m.status)
}

func TestInitPreload(t *testing.T) {
	f := newFixture(t)
	opts := DefaultOptions()
	opts.Dir = f.dir
	opts.Preload = f.lake
	m := New(opts)

	cmd := m.Init()
	require.NotNil(t, cmd)
	m, load := update(t, m, cmd())
	m = run(t, m, load)
	assert.Equal(t, f.lake, m.source)

	assert.Nil(t, New(DefaultOptions()).Init())
}

func TestHomeSummary(t *testing.T) {
	f := newFixture(t)
	m := sizedModel(t, f.dir)
	assert.Contains(t, m.View(), "Pick a .kml file")

	cmd := m.loadPath(f.trail)
	m = run(t, m, cmd)
	m, _ = update(t, m, key("x"))
	view := m.View()
	assert.Contains(t, view, "features: 2")
	assert.Contains(t, view, "document: Trails")
	assert.True(t, strings.Contains(view, "LineString=1 Point=1"))
}
