package tui

import (
	"math"
	"sort"

	"splinemap/internal/geom"
)

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	lat := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return lon, lat, true
}

func (m Model) renderMap(w, h int) string {
	// High-resolution braille buffer for crisp lines/edges
	br := newBrailleBuf(w, h)

	if m.showPolys {
		for _, poly := range m.polygons {
			m.drawPolygon(br, poly, w, h)
		}
	}

	// Draw points only when dataset has no lines or polygons
	if m.showPoints && len(m.lines) == 0 && len(m.polygons) == 0 && len(m.curves) == 0 {
		for _, p := range m.points {
			mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
			if !ok {
				continue
			}
			br.setPixel(mx, my)
		}
	}

	if m.showLines {
		for _, ls := range m.lines {
			m.drawPolyline(br, ls, "", w, h)
		}
		for _, c := range m.curves {
			m.drawPolyline(br, c.pts, c.color, w, h)
		}
	}

	cells := br.cells()
	for _, a := range m.arrows {
		mx, my, ok := m.screenXYMicro(a.pos[0], a.pos[1], w, h)
		if !ok {
			continue
		}
		cx, cy := mx/2, my/4
		if cy >= 0 && cy < len(cells) && cx >= 0 && cx < len(cells[cy]) {
			cells[cy][cx] = cell{r: arrowGlyph(a.angle), fg: arrowColor}
		}
	}

	// Hover highlight: draw an orange circle at the hovered vertex cell
	if m.hovering {
		cx, cy := m.hoverMicX/2, m.hoverMicY/4
		if cy >= 0 && cy < len(cells) && cx >= 0 && cx < len(cells[cy]) {
			cells[cy][cx] = cell{r: '◯', fg: hoverColor}
		}
	}
	return renderCells(cells)
}

func (m Model) drawPolyline(br *brailleBuf, ls []geom.Point, color string, w, h int) {
	var prev *[2]int
	for _, p := range ls {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		if !ok {
			continue
		}
		if prev != nil {
			br.drawLineMicro(prev[0], prev[1], mx, my, color)
		}
		prev = &[2]int{mx, my}
	}
}

// drawPolygon fills the outer ring with the even-odd rule per micro scanline
// (holes ignored for now) and strokes every ring.
func (m Model) drawPolygon(br *brailleBuf, poly [][]geom.Point, w, h int) {
	var rings [][][2]int
	for _, ring := range poly {
		var sm [][2]int
		for _, p := range ring {
			mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
			if !ok {
				continue
			}
			sm = append(sm, [2]int{mx, my})
		}
		if len(sm) >= 3 {
			rings = append(rings, sm)
		}
	}
	if len(rings) == 0 {
		return
	}
	outer := rings[0]
	for yMic := 0; yMic < h*4; yMic++ {
		var xs []int
		for i := range outer {
			a := outer[i]
			b := outer[(i+1)%len(outer)]
			if a[1] == b[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := a[1], b[1]
			x0, x1 := a[0], b[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				br.setPixel(xMic, yMic)
			}
		}
	}
	for _, r := range rings {
		for i := range r {
			a := r[i]
			b := r[(i+1)%len(r)]
			br.drawLineMicro(a[0], a[1], b[0], b[1], "")
		}
	}
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps lon/lat to current screen integer coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	// Apply zoom around center (0.5, 0.5)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// inspectNearest finds the vertex closest to the viewport center and returns lon/lat.
func (m Model) inspectNearest() (lon, lat float64, ok bool) {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	cx, cy := w/2, h/2
	bestD := math.MaxInt
	var best geom.Point
	m.forEachVertex(func(p geom.Point) {
		sx, sy, ok := m.screenXY(p[0], p[1], w, h)
		if !ok {
			return
		}
		dx, dy := sx-cx, sy-cy
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = p
		}
	})
	if bestD == math.MaxInt {
		return 0, 0, false
	}
	return best[0], best[1], true
}
