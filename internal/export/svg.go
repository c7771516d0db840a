package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/sim"
)

// StrandsToSVG draws every strand of the frame at time t as a run of dots,
// colored like the framebuffer. Off-screen points are left out.
func StrandsToSVG(g *sim.Generator, t float64, c dynamo.Composition, dotRadius float64) string {
	width, height := g.Size()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	strand := -1
	g.Walk(t, c, func(p sim.Point) {
		if p.Strand != strand {
			if strand >= 0 {
				sb.WriteString("</g>\n")
			}
			strand = p.Strand
			sb.WriteString(fmt.Sprintf(`<g id="strand-%d">`+"\n", strand))
		}
		if p.PX < 0 || p.PX >= width || p.PY < 0 || p.PY >= height {
			return
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%d.5" cy="%d.5" r="%.2f" fill="%s"/>`+"\n",
			p.PX, p.PY, dotRadius, Hex(p.Color)))
	})
	if strand >= 0 {
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
