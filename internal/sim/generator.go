package sim

import (
	"math"

	"github.com/san-kum/harmonograph/internal/dynamo"
)

// Params shapes the recurrence. Strands are i = 0, Step, 2*Step, ... < Count.
type Params struct {
	CurveCount int
	CurveStep  int
	Iterations int
	// Ang1Inc and Ang2Inc advance the two phase seeds from one strand to the next.
	Ang1Inc float64
	Ang2Inc float64
}

func DefaultParams() Params {
	return NewParams(256, 4, 512, 235)
}

// NewParams derives the phase increments from the stride: the first phase
// moves step*2π/divisor per strand, the second moves step radians.
func NewParams(count, step, iterations int, ang1Divisor float64) Params {
	return Params{
		CurveCount: count,
		CurveStep:  step,
		Iterations: iterations,
		Ang1Inc:    float64(step) * 2 * math.Pi / ang1Divisor,
		Ang2Inc:    float64(step),
	}
}

// Strands returns how many strands a frame renders.
func (p Params) Strands() int {
	if p.CurveStep <= 0 || p.CurveCount <= 0 {
		return 0
	}
	return (p.CurveCount + p.CurveStep - 1) / p.CurveStep
}

// Generator walks the strands of the attractor for a given time and maps
// every point into display pixels. It holds no per-frame state.
type Generator struct {
	table  *dynamo.SineTable
	params Params
	width  int
	height int
	side   float64
	offX   float64
	offY   float64
}

// NewGenerator targets a width×height display. Unit recurrence space maps onto
// the largest centered square.
func NewGenerator(table *dynamo.SineTable, params Params, width, height int) *Generator {
	side := min(width, height)
	return &Generator{
		table:  table,
		params: params,
		width:  width,
		height: height,
		side:   float64(side),
		offX:   float64((width - side) / 2),
		offY:   float64((height - side) / 2),
	}
}

func (g *Generator) Params() Params { return g.params }

func (g *Generator) Size() (width, height int) { return g.width, g.height }

// Walk visits every candidate point of the frame at time t, in strand order.
func (g *Generator) Walk(t float64, c dynamo.Composition, visit func(Point)) {
	p := g.params
	if p.CurveStep <= 0 || p.CurveCount <= 0 {
		return
	}

	scale := g.table.Scale()
	mask := g.table.Mask()
	ang1Start, ang2Start := t, t

	for i := 0; i < p.CurveCount; i += p.CurveStep {
		red := (i << 8) / p.CurveCount

		x, y := 0.0, 0.0
		for j := 0; j < p.Iterations; j++ {
			// the previous point feeds back into the next angle
			k1 := int((ang1Start+x)*scale) & mask
			k2 := int((ang2Start+y)*scale) & mask

			x = g.table.Sin(k1) + g.table.Sin(k2)
			y = g.table.Cos(k1) + g.table.Cos(k2)

			green := (j << 8) / p.Iterations
			blue := 255 - (red+green)/2

			visit(Point{
				Strand: i,
				Step:   j,
				X:      x,
				Y:      y,
				PX:     int((x*c.Scale+c.XOffset)*g.side + g.offX),
				PY:     int((y*c.Scale+c.YOffset)*g.side + g.offY),
				Color:  PackRGB565(red, green, blue),
			})
		}

		ang1Start += p.Ang1Inc
		ang2Start += p.Ang2Inc
	}
}

// Render draws the frame into dst. Points outside the buffer are dropped.
// dst is not cleared.
func (g *Generator) Render(dst *FrameBuffer, t float64, c dynamo.Composition) Stats {
	st := Stats{Strands: g.params.Strands()}
	g.Walk(t, c, func(pt Point) {
		st.Candidates++
		if dst.Set(pt.PX, pt.PY, pt.Color) {
			st.Written++
		} else {
			st.Dropped++
		}
	})
	return st
}
