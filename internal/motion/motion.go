// Package motion eases page turns toward completion or back to rest.
package motion

import "github.com/five82/flipbook/internal/gesture"

const (
	// Smoothing is the share of the remaining distance covered each frame.
	Smoothing = 0.15

	// Epsilon is how close to the target progress must get to finish.
	Epsilon = 0.005
)

// Kind of animation in flight.
type Kind int

const (
	TurnNext Kind = iota + 1
	TurnPrev
	SnapBack
)

func (k Kind) String() string {
	switch k {
	case TurnNext:
		return "turn-next"
	case TurnPrev:
		return "turn-prev"
	case SnapBack:
		return "snap-back"
	default:
		return "none"
	}
}

// Animation is the single transition in flight.
type Animation struct {
	Kind      Kind
	Progress  float64
	Direction gesture.Direction
	Target    int
}

// TurnTarget returns the spread a turn from current would land on, and false
// when that lies past either cover.
func TurnTarget(current int, dir gesture.Direction, count int) (int, bool) {
	target := current - int(dir)
	return target, target >= 0 && target < count
}

// Start returns an animation of kind from progress toward its end.
func Start(kind Kind, dir gesture.Direction, progress float64, target int) Animation {
	return Animation{Kind: kind, Direction: dir, Progress: clamp01(progress), Target: target}
}

// Turn starts a turn from current, or reports false at the edges of the book.
func Turn(current int, dir gesture.Direction, count int) (Animation, bool) {
	target, ok := TurnTarget(current, dir, count)
	if !ok {
		return Animation{}, false
	}
	kind := TurnPrev
	if dir == gesture.Next {
		kind = TurnNext
	}
	return Start(kind, dir, 0, target), true
}

// Revert eases a released drag back to rest on current.
func Revert(current int, dir gesture.Direction, progress float64) Animation {
	return Start(SnapBack, dir, progress, current)
}

// Step advances one frame. done reports that the animation reached its end;
// the returned animation then has zero progress and the caller settles on Target.
func (a Animation) Step() (next Animation, done bool) {
	if a.Kind == SnapBack {
		a.Progress = Lerp(a.Progress, 0, Smoothing)
		if a.Progress < Epsilon {
			a.Progress = 0
			return a, true
		}
		return a, false
	}

	a.Progress = Lerp(a.Progress, 1, Smoothing)
	if 1-a.Progress < Epsilon {
		a.Progress = 0
		return a, true
	}
	return a, false
}

// Lerp interpolates from a toward b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
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
