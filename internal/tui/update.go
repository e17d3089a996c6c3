package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"splinemap/internal/curve"
	"splinemap/internal/geom"
	"splinemap/internal/layer"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapW, m.mapH = m.mapSize()
		if m.showSidebar {
			m.l.SetSize(28-2, m.height-1-2) // provisional; will be refined in View
		}
	case fetchedMsg:
		res, ok := m.layer.Complete(layer.Fetched(msg))
		if !ok {
			return m, nil
		}
		m.apply(res)
		if res.Err == nil {
			m.status = fmt.Sprintf("base loaded: %s  features=%d", msg.URL, len(msg.Collection.Features))
		}
		return m, nil
	case iconMsg:
		if msg.err != nil {
			m.iconErr = msg.err
			m.status = msg.err.Error()
			return m, nil
		}
		m.icon, m.iconErr = msg.icon, nil
		w, h := msg.icon.Size()
		m.status = fmt.Sprintf("icon %q loaded: %s %dx%d", msg.icon.Name, msg.icon.Format, w, h)
		return m, nil
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				text := strings.TrimSpace(m.ta.Value())
				m.pasteMode = false
				m.ta.Blur()
				return m, m.applyPaste(text)
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "3":
			m.showPolys = !m.showPolys
			m.status = fmt.Sprintf("polys: %v", m.showPolys)
		case "s", "c", "e":
			pos := map[string]curve.Position{"s": curve.Start, "c": curve.Center, "e": curve.End}[msg.String()]
			m.cfg.ArrowPosition = pos
			m.status = "arrows at " + pos.String()
			return m, m.recompute()
		case "A":
			m.cfg.ShowArrows = !m.cfg.ShowArrows
			m.status = fmt.Sprintf("arrows: %v", m.cfg.ShowArrows)
			return m, m.recompute()
		case "r":
			m.layer.Invalidate()
			m.status = "recomputing"
			if m.base.IsRemote() {
				m.status = "refetching " + m.base.URL
			}
			m.pending = false
			return m, m.recompute()
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			m.mapW, m.mapH = m.mapSize()
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(28-2, m.height-1-2)
			}
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			m.inspect()
		case "l":
			// toggle all layers
			all := m.showPoints && m.showLines && m.showPolys
			m.showPoints = !all
			m.showLines = !all
			m.showPolys = !all
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
					return m, m.recompute()
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyPaste treats a URL or .geojson path as a new base and anything else
// as WKT waypoints.
func (m *Model) applyPaste(text string) tea.Cmd {
	if text == "" {
		m.status = "paste: empty"
		return nil
	}
	if layer.IsHTTP(text) || strings.HasPrefix(text, "file://") || geom.IsCollectionFile(text) {
		m.base = layer.RemoteBase(text)
		m.status = "base: " + text
		return m.recompute()
	}
	wps, err := geom.ParseWKTWaypoints(text)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return nil
	}
	m.selPath = ""
	m.setWaypoints(wps)
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.status = fmt.Sprintf("pasted %d waypoints", len(wps))
	return m.recompute()
}

func (m *Model) inspect() {
	lon, lat, ok := m.inspectNearest()
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<pasted>"
	}
	baseRef := "none"
	switch {
	case m.base.IsRemote():
		baseRef = m.base.URL
	case m.base.Collection != nil:
		baseRef = "inline"
	}
	meta := []string{
		fmt.Sprintf("waypoints: %s (%d)", name, len(m.waypoints)),
		fmt.Sprintf("base: %s", baseRef),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", m.bbox.MinX, m.bbox.MinY, m.bbox.MaxX, m.bbox.MaxY),
		fmt.Sprintf("counts: segs=%d curves=%d arrows=%d features=%d", len(m.segments), len(m.curves), len(m.arrows), len(m.merged.Features)),
		fmt.Sprintf("arrows: %v at %s", m.cfg.ShowArrows, m.cfg.ArrowPosition),
		fmt.Sprintf("nearest: lon=%.6f lat=%.6f", lon, lat),
	}
	switch {
	case m.icon != nil:
		meta = append(meta, fmt.Sprintf("icon: %s (size %g)", m.icon.Name, m.cfg.IconSize))
		meta = append(meta, m.icon.Braille(8, 4)...)
	case m.iconErr != nil:
		meta = append(meta, "icon: "+m.iconErr.Error())
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

// hover tracks the mouse over the map area and snaps to the nearest vertex.
func (m *Model) hover(x, y int) {
	mapWidth, mapHeight := m.mapSize()
	// Update list size with accurate content height when sidebar visible
	mapOriginX := 0
	if m.showSidebar {
		m.l.SetSize(28-2, mapHeight-2)
		mapOriginX = 28 + 1
	}
	mapOriginY := 1
	if x < mapOriginX || x >= mapOriginX+mapWidth || y < mapOriginY || y >= mapOriginY+mapHeight {
		m.hovering = false
		return
	}
	m.hovering = true
	m.hoverCellX = x - mapOriginX
	m.hoverCellY = y - mapOriginY
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(m.hoverCellX, m.hoverCellY, mapWidth, mapHeight)

	hxMic := m.hoverCellX * 2
	hyMic := m.hoverCellY * 4
	best := 1<<31 - 1
	bx, by := hxMic, hyMic
	m.forEachVertex(func(p geom.Point) {
		mx, my, ok := m.screenXYMicro(p[0], p[1], mapWidth, mapHeight)
		if !ok {
			return
		}
		dx, dy := mx-hxMic, my-hyMic
		if d := dx*dx + dy*dy; d < best {
			best = d
			bx, by = mx, my
		}
	})
	m.hoverMicX, m.hoverMicY = bx, by
}
