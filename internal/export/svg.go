// Package export renders a still frame of the simulation chamber to
// SVG, for embedding a run's final state outside a terminal.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dumbbellgas/internal/viz"
)

// Braille dot-to-bit mapping, matching viz.Canvas's cell layout.
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// ChamberSVG renders the dumbbell chamber from the two layers
// viz.RenderLayers produces: the reservoir arcs and bridge rails as
// small muted outline dots, the particles as larger bright dots on
// top. Layer colors follow the live view's default theme so a still
// frame reads like a frozen frame of the TUI.
func ChamberSVG(walls, particles *viz.Canvas, scale float64) string {
	ref := walls
	if ref == nil {
		ref = particles
	}
	if ref == nil {
		return ""
	}

	width := float64(ref.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(ref.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, viz.ThemeVacuum.Background))

	writeDotLayer(&sb, walls, scale, string(viz.ThemeVacuum.Muted), scale*0.3)
	writeDotLayer(&sb, particles, scale, string(viz.ThemeVacuum.Secondary), scale*0.45)

	sb.WriteString("</svg>")
	return sb.String()
}

// writeDotLayer emits one canvas's set Braille dots as a single SVG
// fill group.
func writeDotLayer(sb *strings.Builder, canvas *viz.Canvas, scale float64, fill string, dotRadius float64) {
	if canvas == nil {
		return
	}

	fmt.Fprintf(sb, "<g fill=\"%s\">\n", fill)
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 { // empty braille cell
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}
	sb.WriteString("</g>\n")
}
