package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	spinner "github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"splinemap/internal/config"
	"splinemap/internal/geom"
	"splinemap/internal/icon"
	"splinemap/internal/layer"
	"splinemap/internal/palette"
)

// colorSeed keeps segment colours stable between runs.
const colorSeed = 1

// coloredLine is a LineString drawn in its own colour.
type coloredLine struct {
	pts   []geom.Point
	color string
}

// arrowMark is a generated arrow marker.
type arrowMark struct {
	pos   geom.Point
	angle float64
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Inputs
	waypoints []geom.Waypoint
	segments  []geom.Segment
	colors    func() string
	base      layer.Base
	cfg       layer.Config
	iconURL   string

	// Composition
	layer   *layer.Layer
	initJob *layer.Job
	pending bool
	spin    spinner.Model
	merged  *geom.FeatureCollection

	// Data
	points   []geom.Point
	bbox     geom.BBox
	lines    [][]geom.Point
	polygons [][][]geom.Point
	curves   []coloredLine
	arrows   []arrowMark

	// arrow icon
	icons   icon.Loader
	icon    *icon.Icon
	iconErr error

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New builds the viewer for cfg. A nil fetcher or loader falls back to the
// HTTP implementations.
func New(cfg config.Config, f layer.Fetcher, icons icon.Loader) Model {
	if icons == nil {
		icons = icon.HTTPLoader{}
	}
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "splinemap ready",
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
		colors:      palette.Sequence(colorSeed),
		base:        layer.RemoteBase(cfg.Base),
		cfg:         cfg.Layer(),
		iconURL:     cfg.IconURL,
		layer:       layer.New(f),
		icons:       icons,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.cwd, _ = os.Getwd()
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
	m.ta.Placeholder = "Paste WKT waypoints (LINESTRING, MULTIPOINT) or a base GeoJSON URL. Enter to apply; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns are inferred from the merged features)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()

	if cfg.Waypoints != "" {
		m.loadPath(cfg.Waypoints)
	}
	m.initJob = m.update()
	return m
}

// Init starts the fetch of a remote base and the icon load, if any.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.initJob != nil {
		cmds = append(cmds, fetchCmd(m.initJob), m.spin.Tick)
	}
	if m.iconURL != "" {
		cmds = append(cmds, loadIconCmd(m.icons, m.cfg.ArrowIcon, m.iconURL))
	}
	return tea.Batch(cmds...)
}

// fetchedMsg carries a finished base fetch back to Update.
type fetchedMsg layer.Fetched

// iconMsg carries the loaded arrow icon.
type iconMsg struct {
	icon *icon.Icon
	err  error
}

func fetchCmd(job *layer.Job) tea.Cmd {
	return func() tea.Msg { return fetchedMsg(job.Run()) }
}

func loadIconCmd(l icon.Loader, name, url string) tea.Cmd {
	return func() tea.Msg {
		ic, err := l.Load(context.Background(), name, url)
		return iconMsg{icon: ic, err: err}
	}
}
