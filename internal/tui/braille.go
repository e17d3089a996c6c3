package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type brailleBuf struct {
	w, h int        // in cells
	m    [][]uint8  // per-cell 8-bit mask
	fg   [][]string // per-cell colour, last writer wins
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	fg := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		fg[i] = make([]string, w)
	}
	return &brailleBuf{w: w, h: h, m: m, fg: fg}
}

var brailleBits = [4][2]uint8{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	b.setPixelColor(mx, my, "")
}

// setPixelColor sets a micro-pixel and, when color is not empty, tints its cell.
func (b *brailleBuf) setPixelColor(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[ry][rx]
	if color != "" {
		b.fg[cy][cx] = color
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixelColor(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// cell is one rendered terminal cell.
type cell struct {
	r  rune
	fg string
}

func (b *brailleBuf) cells() [][]cell {
	out := make([][]cell, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]cell, b.w)
		for x := 0; x < b.w; x++ {
			row[x] = cell{r: ' '}
			if mask := b.m[y][x]; mask != 0 {
				row[x] = cell{r: rune(0x2800 + int(mask)), fg: b.fg[y][x]}
			}
		}
		out[y] = row
	}
	return out
}

// renderCells joins cells into lines, styling each run of equal colour once.
func renderCells(rows [][]cell) string {
	lines := make([]string, len(rows))
	for y, row := range rows {
		var sb strings.Builder
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end].fg == row[x].fg {
				end++
			}
			run := make([]rune, 0, end-x)
			for _, c := range row[x:end] {
				run = append(run, c.r)
			}
			if row[x].fg == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[x].fg)).Render(string(run)))
			}
			x = end
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
