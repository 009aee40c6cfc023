// Package gesture turns raw pointer and key events into page-turn intents.
//
// A press starts a Drag value; moves update it; a release classifies it as a
// click (short and still), a turn (moved past the threshold) or a snap back.
// While the pointer is down, Live gives the finger-follow progress the
// renderer draws directly.
package gesture

import (
	"math"
	"time"

	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/layout"
)

const (
	// ClickWindow is the longest press that still counts as a click.
	ClickWindow = 300 * time.Millisecond

	// ClickSlop is the largest horizontal travel that still counts as a click.
	ClickSlop = 10.0

	// DefaultTurnThreshold is the drag distance that commits a turn.
	DefaultTurnThreshold = 50.0
)

// Direction of a turn: Next reveals the following spread, Prev the preceding one.
type Direction int

const (
	Next Direction = -1
	Prev Direction = 1
)

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "prev"
}

// Intent is one of None, Turn, SnapBack, Activate or Dismiss.
type Intent interface {
	isIntent()
}

// None means the event needs no reaction.
type None struct{}

// Turn asks for an animated turn in Direction.
type Turn struct {
	Direction Direction
}

// SnapBack asks to ease a partial drag back to rest from Progress.
type SnapBack struct {
	Direction Direction
	Progress  float64
}

// Activate reports a click on one page of the current spread.
type Activate struct {
	Side book.Side
}

// Dismiss closes whatever overlay the front end shows.
type Dismiss struct{}

func (None) isIntent()     {}
func (Turn) isIntent()     {}
func (SnapBack) isIntent() {}
func (Activate) isIntent() {}
func (Dismiss) isIntent()  {}

// Drag is the pointer state between press and release.
type Drag struct {
	StartX, StartY     float64
	CurrentX, CurrentY float64
	StartTime          time.Time
}

// MoveTo returns the drag with an updated pointer position.
func (d Drag) MoveTo(x, y float64) Drag {
	d.CurrentX, d.CurrentY = x, y
	return d
}

// Offset is the horizontal travel since the press.
func (d Drag) Offset() float64 {
	return d.CurrentX - d.StartX
}

// Direction follows the drag: leftwards turns to the next spread.
func (d Drag) Direction() Direction {
	return directionOf(d.Offset())
}

// Progress maps travel to turn completion: half the viewport is a full turn.
func (d Drag) Progress(viewportWidth float64) float64 {
	return progressOf(d.Offset(), viewportWidth)
}

// Live returns the finger-follow turn for an active drag.
func Live(d Drag, viewportWidth float64) (Direction, float64) {
	return d.Direction(), d.Progress(viewportWidth)
}

// Classifier holds the tunables used to classify a release.
type Classifier struct {
	TurnThreshold float64
}

// New returns a classifier; a non-positive threshold selects the default.
func New(turnThreshold float64) Classifier {
	if turnThreshold <= 0 {
		turnThreshold = DefaultTurnThreshold
	}
	return Classifier{TurnThreshold: turnThreshold}
}

// Press starts a drag.
func (c Classifier) Press(x, y float64, at time.Time) Drag {
	return Drag{StartX: x, StartY: y, CurrentX: x, CurrentY: y, StartTime: at}
}

// Release classifies the finished drag. l supplies the page rectangles and
// viewport width of the frame the release landed in.
func (c Classifier) Release(d Drag, x, y float64, at time.Time, l layout.Layout) Intent {
	d = d.MoveTo(x, y)
	offset := d.Offset()
	elapsed := at.Sub(d.StartTime)

	if elapsed < ClickWindow && math.Abs(offset) < ClickSlop {
		if side, ok := l.SideAt(x, y); ok {
			return Activate{Side: side}
		}
		if x >= l.ViewportWidth/2 {
			return Turn{Direction: Next}
		}
		return Turn{Direction: Prev}
	}

	threshold := c.TurnThreshold
	if threshold <= 0 {
		threshold = DefaultTurnThreshold
	}
	if math.Abs(offset) > threshold {
		return Turn{Direction: directionOf(offset)}
	}
	return SnapBack{Direction: directionOf(offset), Progress: progressOf(offset, l.ViewportWidth)}
}

// Key maps a logical key name to an intent.
func Key(name string) Intent {
	switch name {
	case "ArrowRight":
		return Turn{Direction: Next}
	case "ArrowLeft":
		return Turn{Direction: Prev}
	case "Escape":
		return Dismiss{}
	default:
		return None{}
	}
}

func directionOf(offset float64) Direction {
	if offset < 0 {
		return Next
	}
	return Prev
}

func progressOf(offset, viewportWidth float64) float64 {
	half := viewportWidth / 2
	if half <= 0 {
		return 0
	}
	return clamp01(math.Abs(offset) / half)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
