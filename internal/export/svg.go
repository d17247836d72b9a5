package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/oscnet/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%[1]v" height="%[2]v" viewBox="0 0 %[1]v %[2]v">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, math.Round(width), math.Round(height))
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PhaseRingSVG draws every oscillator as a dot on the unit circle, colored
// by its phase.
func PhaseRingSVG(phases []float64, size int) string {
	if size <= 0 {
		return ""
	}
	c := float64(size) / 2
	r := 0.8 * c

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444444"/>`+"\n", c, c, r)
	for _, theta := range phases {
		x := c + r*math.Cos(theta)
		y := c - r*math.Sin(theta)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", x, y, string(viz.PhaseColor(theta)))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline. The vertical axis
// spans [0, 1] so order series from different runs line up.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		v := math.Max(0, math.Min(1, values[i]))
		y := float64(height) - v*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
