// Package viewer owns the reader's position and the single gesture or
// animation in flight.
//
// State is a plain value. Engine methods take the current State plus one
// input event and return the next State, so a frame transition can be tested
// in isolation without a renderer or a terminal. Exactly one of Idle,
// Dragging or Animating holds at a time; a new press pre-empts whatever
// animation was running, and an arrow key replaces a drag or animation with
// a fresh turn.
//
// The spread-change callback fires when an animation finishes, whether it
// committed a turn or snapped back to the same spread. The activation
// callback fires only for clicks on a ready image page.
package viewer

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/content"
	"github.com/five82/flipbook/internal/gesture"
	"github.com/five82/flipbook/internal/layout"
	"github.com/five82/flipbook/internal/motion"
	"github.com/five82/flipbook/internal/render"
)

// Mode is one of Idle, Dragging or Animating.
type Mode interface {
	isMode()
}

// Idle is a spread at rest.
type Idle struct{}

// Dragging follows the pointer.
type Dragging struct {
	Drag gesture.Drag
}

// Animating eases a released turn or snap back.
type Animating struct {
	Animation motion.Animation
}

func (Idle) isMode()      {}
func (Dragging) isMode()  {}
func (Animating) isMode() {}

// State is the reader's position plus the mode of the frame loop.
type State struct {
	Current int
	Mode    Mode
}

// Busy reports whether a drag or animation is in flight.
func (s State) Busy() bool {
	switch s.Mode.(type) {
	case Dragging, Animating:
		return true
	default:
		return false
	}
}

// Options configures an Engine.
type Options struct {
	Book          *book.Book
	Provider      asset.Provider
	TurnThreshold float64

	// OnSpreadChange receives the settled spread index after every finished
	// animation.
	OnSpreadChange func(index int)

	// OnActivate receives the page number of a clicked ready page.
	OnActivate func(page int)

	// OnDismiss runs when the reader asks to close an overlay.
	OnDismiss func()

	Logger *zap.Logger
}

// Engine applies input events and frame ticks to a State.
type Engine struct {
	book       *book.Book
	resolver   content.Resolver
	classifier gesture.Classifier

	onSpreadChange func(int)
	onActivate     func(int)
	onDismiss      func()
	logger         *zap.Logger
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if opts.Book == nil {
		return nil, errors.New("viewer requires a book")
	}
	if opts.Provider == nil {
		return nil, errors.New("viewer requires an asset provider")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		book:           opts.Book,
		resolver:       content.Resolver{Book: opts.Book, Provider: opts.Provider},
		classifier:     gesture.New(opts.TurnThreshold),
		onSpreadChange: opts.OnSpreadChange,
		onActivate:     opts.OnActivate,
		onDismiss:      opts.OnDismiss,
		logger:         logger,
	}, nil
}

// Book returns the book the engine navigates.
func (e *Engine) Book() *book.Book {
	return e.book
}

// Resolver returns the content resolver used for frames and activation.
func (e *Engine) Resolver() content.Resolver {
	return e.resolver
}

// Start returns the opening state on the cover and announces it.
func (e *Engine) Start() State {
	return e.StartAt(0)
}

// StartAt returns an idle state on spread i, clamped into the book, and
// announces it.
func (e *Engine) StartAt(i int) State {
	if i < 0 {
		i = 0
	}
	if i >= e.book.Len() {
		i = e.book.Len() - 1
	}
	e.spreadChanged(i)
	return State{Current: i, Mode: Idle{}}
}

// PointerDown starts a drag, cancelling any animation in flight.
func (e *Engine) PointerDown(s State, x, y float64, at time.Time) State {
	if a, ok := s.Mode.(Animating); ok {
		e.logger.Debug("drag pre-empted animation",
			zap.Stringer("kind", a.Animation.Kind),
			zap.Int("spread", s.Current),
		)
	}
	s.Mode = Dragging{Drag: e.classifier.Press(x, y, at)}
	return s
}

// PointerMove updates an active drag. It is a no-op otherwise.
func (e *Engine) PointerMove(s State, x, y float64) State {
	d, ok := s.Mode.(Dragging)
	if !ok {
		return s
	}
	s.Mode = Dragging{Drag: d.Drag.MoveTo(x, y)}
	return s
}

// PointerUp classifies the drag and applies the resulting intent.
func (e *Engine) PointerUp(s State, x, y float64, at time.Time, l layout.Layout) State {
	d, ok := s.Mode.(Dragging)
	if !ok {
		return s
	}
	s.Mode = Idle{}
	return e.apply(s, e.classifier.Release(d.Drag, x, y, at, l))
}

// Key applies a logical key such as ArrowRight, ArrowLeft or Escape.
func (e *Engine) Key(s State, name string) State {
	return e.apply(s, gesture.Key(name))
}

// Turn starts an animated turn from the current spread, replacing any drag
// or animation in flight. Turns past either cover are ignored and leave s
// unchanged.
func (e *Engine) Turn(s State, dir gesture.Direction) State {
	a, ok := motion.Turn(s.Current, dir, e.book.Len())
	if !ok {
		e.logger.Debug("turn past cover ignored", zap.Int("spread", s.Current), zap.Stringer("direction", dir))
		return s
	}
	if _, dragging := s.Mode.(Dragging); dragging {
		e.logger.Debug("key turn dropped drag", zap.Int("spread", s.Current))
	}
	s.Mode = Animating{Animation: a}
	return s
}

func (e *Engine) apply(s State, intent gesture.Intent) State {
	switch in := intent.(type) {
	case gesture.Turn:
		// Keys turn whatever the pointer is doing: an active drag is
		// dropped and an animation restarts from the current spread.
		return e.Turn(s, in.Direction)
	case gesture.SnapBack:
		s.Mode = Animating{Animation: motion.Revert(s.Current, in.Direction, in.Progress)}
		return s
	case gesture.Activate:
		e.activate(s.Current, in.Side)
		return s
	case gesture.Dismiss:
		if e.onDismiss != nil {
			e.onDismiss()
		}
		return s
	default:
		return s
	}
}

// activate reports a ready image page. Clicks on video spreads, empty sides
// or pages still loading are consumed silently.
func (e *Engine) activate(current int, side book.Side) {
	img, ok := e.resolver.Resolve(current, side).(content.Image)
	if !ok || img.Status != asset.StatusReady {
		return
	}
	e.logger.Debug("page activated", zap.Int("page", img.PageNumber))
	if e.onActivate != nil {
		e.onActivate(img.PageNumber)
	}
}

// Advance steps an animation by one frame and settles it when done.
func (e *Engine) Advance(s State) State {
	a, ok := s.Mode.(Animating)
	if !ok {
		return s
	}
	next, done := a.Animation.Step()
	if !done {
		s.Mode = Animating{Animation: next}
		return s
	}

	if next.Kind != motion.SnapBack {
		e.logger.Info("turned page",
			zap.Int("from", s.Current),
			zap.Int("to", next.Target),
			zap.Stringer("direction", next.Direction),
		)
	}
	s.Current = next.Target
	s.Mode = Idle{}
	e.spreadChanged(s.Current)
	return s
}

func (e *Engine) spreadChanged(i int) {
	if e.onSpreadChange != nil {
		e.onSpreadChange(i)
	}
}

// Frame returns the renderer input for s: live drag progress while dragging,
// the animation's progress while animating, a static spread otherwise.
func (e *Engine) Frame(s State, l layout.Layout) render.Input {
	in := render.Input{Resolver: e.resolver, Layout: l, Current: s.Current}
	switch m := s.Mode.(type) {
	case Dragging:
		in.Turning = true
		in.Direction, in.Progress = gesture.Live(m.Drag, l.ViewportWidth)
	case Animating:
		in.Turning = true
		in.Direction = m.Animation.Direction
		in.Progress = m.Animation.Progress
	}
	return in
}
