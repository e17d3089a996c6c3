package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"splinemap/internal/geom"
	"splinemap/internal/layer"
)

// setWaypoints replaces the route. Each new segment gets its own colour.
func (m *Model) setWaypoints(wps []geom.Waypoint) {
	m.waypoints = wps
	m.segments = layer.WaypointSegments(wps, m.colors)
}

// update pushes the current inputs through the layer and applies the result.
// The returned job, if any, still has to run.
func (m *Model) update() *layer.Job {
	res, job := m.layer.Update(layer.Inputs{Base: m.base, Segments: m.segments, Config: m.cfg})
	m.apply(res)
	return job
}

// recompute is update for the Update loop: a pending fetch is returned as a
// command, along with a spinner tick when none is running yet.
func (m *Model) recompute() tea.Cmd {
	wasPending := m.pending
	job := m.update()
	if job == nil {
		return nil
	}
	if wasPending {
		return fetchCmd(job)
	}
	return tea.Batch(fetchCmd(job), m.spin.Tick)
}

// apply splits a composed collection into what the renderer draws: arrows,
// lines carrying a colour, and everything else.
func (m *Model) apply(res layer.Result) {
	m.merged = res.Collection
	m.pending = res.Pending
	m.curves, m.arrows = nil, nil
	plain := geom.NewCollection()
	for _, f := range res.Collection.Features {
		if geom.IsArrow(f) {
			if pt, ok := f.Geometry.Position(); ok {
				angle, _ := f.Properties["angle"].(float64)
				m.arrows = append(m.arrows, arrowMark{pos: pt, angle: angle})
			}
			continue
		}
		if c, ok := f.Properties["color"].(string); ok && f.IsLineString() {
			if pts, ok := f.Geometry.LineString(); ok {
				m.curves = append(m.curves, coloredLine{pts: pts, color: c})
				continue
			}
		}
		plain.Features = append(plain.Features, f)
	}
	d := plain.Data()
	m.points, m.lines, m.polygons = d.Points, d.Lines, d.Polygons
	m.bbox = padBBox(res.Collection.Data().BBox)

	if res.Err != nil {
		slog.Warn("tui: base unavailable", "err", res.Err)
		m.status = "base: " + res.Err.Error()
	}
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// padBBox widens a box that is flat in one direction so it can be projected.
func padBBox(b geom.BBox) geom.BBox {
	if b.MaxX <= b.MinX {
		b.MinX -= 0.5
		b.MaxX += 0.5
	}
	if b.MaxY <= b.MinY {
		b.MinY -= 0.5
		b.MaxY += 0.5
	}
	return b
}

// forEachVertex visits every drawable coordinate.
func (m Model) forEachVertex(fn func(p geom.Point)) {
	for _, p := range m.points {
		fn(p)
	}
	for _, ls := range m.lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range m.polygons {
		for _, ring := range poly {
			for _, p := range ring {
				fn(p)
			}
		}
	}
	for _, c := range m.curves {
		for _, p := range c.pts {
			fn(p)
		}
	}
	for _, a := range m.arrows {
		fn(a.pos)
	}
}
