package viz

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/harmonograph/internal/export"
	"github.com/san-kum/harmonograph/internal/sim"
)

const upperHalf = "▀"

// Canvas is a terminal-sized copy of a frame. Each cell shows two stacked
// sub-pixels: the foreground paints the top half, the background the bottom.
type Canvas struct {
	Cols, Rows int
	cells      []sim.RGB565 // Cols × 2*Rows, row-major
}

func NewCanvas(cols, rows int) *Canvas {
	return &Canvas{Cols: cols, Rows: rows, cells: make([]sim.RGB565, cols*rows*2)}
}

// NewCanvasFor picks a row count that keeps a width×height frame's aspect
// with square sub-pixels.
func NewCanvasFor(width, height, cols int) *Canvas {
	rows := (cols*height/width + 1) / 2
	if rows < 1 {
		rows = 1
	}
	return NewCanvas(cols, rows)
}

// Present implements sim.Presenter by downsampling fb into the canvas.
func (c *Canvas) Present(_ context.Context, fb *sim.FrameBuffer) error {
	c.Draw(fb)
	return nil
}

// Draw keeps the brightest source pixel of each block so sparse points
// survive the reduction.
func (c *Canvas) Draw(fb *sim.FrameBuffer) {
	subRows := c.Rows * 2
	for sy := 0; sy < subRows; sy++ {
		y0 := sy * fb.Height / subRows
		y1 := max((sy+1)*fb.Height/subRows, y0+1)
		for sx := 0; sx < c.Cols; sx++ {
			x0 := sx * fb.Width / c.Cols
			x1 := max((sx+1)*fb.Width/c.Cols, x0+1)

			var best sim.RGB565
			bestLum := -1
			for y := y0; y < y1 && y < fb.Height; y++ {
				row := fb.Pix[y*fb.Width : (y+1)*fb.Width]
				for x := x0; x < x1 && x < fb.Width; x++ {
					if l := luminance(row[x]); l > bestLum {
						best, bestLum = row[x], l
					}
				}
			}
			c.cells[sy*c.Cols+sx] = best
		}
	}
}

func luminance(p sim.RGB565) int {
	r, g, b := p.RGB8()
	return int(r) + int(g) + int(b)
}

// At returns sub-pixel (x, y).
func (c *Canvas) At(x, y int) sim.RGB565 {
	return c.cells[y*c.Cols+x]
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		top := c.cells[2*row*c.Cols : (2*row+1)*c.Cols]
		bottom := c.cells[(2*row+1)*c.Cols : (2*row+2)*c.Cols]
		for col := 0; col < c.Cols; col++ {
			t, u := top[col], bottom[col]
			if t == 0 && u == 0 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(export.Hex(t))).
				Background(lipgloss.Color(export.Hex(u)))
			b.WriteString(style.Render(upperHalf))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
