package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in the
// background, so every terminal cell carries two vertically stacked pixels.
const upperHalf = "▀"

// canvasSize returns the canvas area in cells for a terminal of w×h.
func canvasSize(w, h int) (cols, rows int) {
	cols = w
	rows = h - HeaderRows - FooterRows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// pixelSize returns the raster size backing a canvas of cols×rows cells.
func pixelSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// toPixel maps a terminal cell to the raster point at its centre.
func toPixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y-HeaderRows)*2 + 1
}

// blit renders the top-left cols×rows*2 pixels of img as half-block cells.
// Runs of identical cells share one style.
func blit(img image.Image, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		runStart := 0
		var runTop, runBottom color.RGBA
		for col := 0; col <= cols; col++ {
			var top, bottom color.RGBA
			if col < cols {
				top = pixel(img, col, row*2)
				bottom = pixel(img, col, row*2+1)
				if col > runStart && top == runTop && bottom == runBottom {
					continue
				}
			}
			if col > runStart {
				b.WriteString(cell(runTop, runBottom).Render(strings.Repeat(upperHalf, col-runStart)))
			}
			runStart, runTop, runBottom = col, top, bottom
		}
	}
	return b.String()
}

func cell(top, bottom color.RGBA) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(top))).
		Background(lipgloss.Color(hex(bottom)))
}

func pixel(img image.Image, x, y int) color.RGBA {
	b := img.Bounds()
	x, y = b.Min.X+x, b.Min.Y+y
	if !(image.Point{X: x, Y: y}).In(b) {
		return color.RGBA{A: 0xff}
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba.RGBAAt(x, y)
	}
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseHex reads a #rrggbb theme color. Malformed input yields black.
func parseHex(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
