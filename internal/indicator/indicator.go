// Package indicator drives the single status light. Its color swings between
// red and blue with wall-clock time, read from the renderer's sine table.
package indicator

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonograph/internal/dynamo"
)

// DefaultRate is table units per millisecond; with a 2^16 table one
// full swing takes about 6.5 s.
const DefaultRate = 10.0

type Driver struct {
	table *dynamo.SineTable
	rate  float64
}

func New(table *dynamo.SineTable, rate float64) *Driver {
	return &Driver{table: table, rate: rate}
}

// Index returns the table index for elapsed time.
func (d *Driver) Index(elapsed time.Duration) int {
	ms := elapsed.Milliseconds()
	return int(float64(ms)*d.rate) & d.table.Mask()
}

// RGB255 maps s = sin(phase) to red = 64-63s, blue = 128+127s, no green.
func (d *Driver) RGB255(elapsed time.Duration) (r, g, b uint8) {
	s := d.table.Sin(d.Index(elapsed))
	return uint8(-s*63 + 64), 0, uint8(s*127 + 128)
}

func (d *Driver) Color(elapsed time.Duration) colorful.Color {
	r, g, b := d.RGB255(elapsed)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hue returns the HSV hue in degrees.
func (d *Driver) Hue(elapsed time.Duration) float64 {
	h, _, _ := d.Color(elapsed).Hsv()
	return h
}
