// Package layout derives page and spread geometry from the viewport size.
package layout

import "github.com/five82/flipbook/internal/book"

const (
	// PageAspect is width over height of an A4 page.
	PageAspect = 210.0 / 297.0

	// VerticalFill is the share of viewport height a page occupies.
	VerticalFill = 0.75
)

// Rect is an axis-aligned rectangle in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (px, py) lies strictly inside r.
func (r Rect) Contains(px, py float64) bool {
	return px > r.X && px < r.X+r.W && py > r.Y && py < r.Y+r.H
}

// Layout is the geometry of one frame. It is never cached across frames.
type Layout struct {
	ViewportWidth  float64
	ViewportHeight float64

	PageWidth   float64
	PageHeight  float64
	SpreadWidth float64
	StartX      float64
	StartY      float64
}

// Compute centres a two-page spread in a w×h viewport.
func Compute(w, h float64) Layout {
	pageHeight := h * VerticalFill
	pageWidth := pageHeight * PageAspect
	spreadWidth := pageWidth * 2
	return Layout{
		ViewportWidth:  w,
		ViewportHeight: h,
		PageWidth:      pageWidth,
		PageHeight:     pageHeight,
		SpreadWidth:    spreadWidth,
		StartX:         (w - spreadWidth) / 2,
		StartY:         (h - pageHeight) / 2,
	}
}

// Spine returns the x coordinate of the gutter.
func (l Layout) Spine() float64 {
	return l.StartX + l.PageWidth
}

// SpreadRect covers both pages.
func (l Layout) SpreadRect() Rect {
	return Rect{X: l.StartX, Y: l.StartY, W: l.SpreadWidth, H: l.PageHeight}
}

// PageRect returns the rectangle of one page.
func (l Layout) PageRect(side book.Side) Rect {
	x := l.StartX
	if side == book.Right {
		x = l.Spine()
	}
	return Rect{X: x, Y: l.StartY, W: l.PageWidth, H: l.PageHeight}
}

// SideAt returns the page under (x, y), if any.
func (l Layout) SideAt(x, y float64) (book.Side, bool) {
	if l.PageRect(book.Left).Contains(x, y) {
		return book.Left, true
	}
	if l.PageRect(book.Right).Contains(x, y) {
		return book.Right, true
	}
	return book.Left, false
}
