package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"splinemap/internal/geom"
	"splinemap/internal/layer"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		switch {
		case geom.IsCollectionFile(name):
			items = append(items, fileItem{title: name, desc: "base", path: filepath.Join(m.cwd, name)})
		case geom.IsWaypointFile(name):
			items = append(items, fileItem{title: name, desc: "waypoints", path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a base collection or a waypoint file into the model. The
// caller recomputes the layer afterwards.
func (m *Model) loadPath(p string) {
	switch {
	case geom.IsCollectionFile(p):
		fc, err := geom.LoadCollection(p)
		if err != nil {
			m.status = "load error: " + err.Error()
			return
		}
		m.base = layer.InlineBase(fc)
		m.status = "base: " + filepath.Base(p) + fmt.Sprintf("  features=%d", len(fc.Features))
	case geom.IsWaypointFile(p):
		wps, err := geom.LoadWaypoints(p)
		if err != nil {
			m.status = "load error: " + err.Error()
			return
		}
		m.selPath = p
		m.setWaypoints(wps)
		m.status = "loaded: " + filepath.Base(p) +
			fmt.Sprintf("  waypoints=%d segments=%d", len(wps), len(m.segments))
	default:
		m.status = "unsupported file: " + strings.ToLower(filepath.Ext(p))
		return
	}
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}
