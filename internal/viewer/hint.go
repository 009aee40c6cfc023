package viewer

import (
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/layout"
)

// Hint is the pointer affordance shown at a position.
type Hint int

const (
	HintPrev Hint = iota
	HintNext
	HintGrab
)

func (h Hint) String() string {
	switch h {
	case HintNext:
		return "next"
	case HintGrab:
		return "grab"
	default:
		return "prev"
	}
}

// PointerHint returns what a click at (x, y) would do. Over a page it points
// outward from the spine, elsewhere it follows the viewport half.
func PointerHint(s State, x, y float64, l layout.Layout) Hint {
	if _, ok := s.Mode.(Dragging); ok {
		return HintGrab
	}
	if side, ok := l.SideAt(x, y); ok {
		if side == book.Left {
			return HintPrev
		}
		return HintNext
	}
	if x >= l.ViewportWidth/2 {
		return HintNext
	}
	return HintPrev
}
