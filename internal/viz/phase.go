package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PhaseRing draws the unit circle with one spoke per oscillator pointing at
// its phase. Synchronized oscillators overlap into a single spoke.
func PhaseRing(phases []float64, width, height int) string {
	return PhaseRingCanvas(phases, width, height).String()
}

// PhaseRingCanvas is PhaseRing before rendering to text.
func PhaseRingCanvas(phases []float64, width, height int) *Canvas {
	c := NewCanvas(width, height)

	cx, cy := width, 2*height
	r := cx
	if cy < r {
		r = cy
	}
	r--

	c.DrawCircle(cx, cy, r)
	spoke := 0.85 * float64(r)
	for _, theta := range phases {
		x := cx + int(math.Round(spoke*math.Cos(theta)))
		y := cy - int(math.Round(spoke*math.Sin(theta)))
		c.DrawLine(cx, cy, x, y)
	}
	return c
}

// PhaseColor maps a phase to a hue around the color wheel.
func PhaseColor(theta float64) lipgloss.Color {
	h := math.Mod(theta, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	h = h / (2 * math.Pi) * 6

	sector := int(h)
	f := h - float64(sector)
	q := int(255 * (1 - f))
	t := int(255 * f)

	var r, g, b int
	switch sector % 6 {
	case 0:
		r, g, b = 255, t, 0
	case 1:
		r, g, b = q, 255, 0
	case 2:
		r, g, b = 0, 255, t
	case 3:
		r, g, b = 0, q, 255
	case 4:
		r, g, b = t, 0, 255
	default:
		r, g, b = 255, 0, q
	}
	return lipgloss.Color(hexColor(r, g, b))
}

// PhaseGrid renders a phase matrix, one colored block per oscillator.
func PhaseGrid(matrix [][]float64) string {
	var b strings.Builder
	for _, row := range matrix {
		for _, theta := range row {
			b.WriteString(lipgloss.NewStyle().Foreground(PhaseColor(theta)).Render("██"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
