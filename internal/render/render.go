// Package render composes and rasterizes page-turn frames.
//
// Compose is a pure function from the viewer's frame input to a Scene: an
// ordered list of layers, back to front. Painter rasterizes a Scene onto a gg
// context. Keeping the two apart lets the turn geometry and the face swap be
// checked without touching pixels.
//
// A turn frame stacks four layers: the target spread being revealed, the
// half of the current spread that stays put, the turning page pivoting at the
// spine and a spine shadow. The turning page shows its front face (the page
// leaving view) until it stands perpendicular, then its back face (the facing
// page of the target spread).
package render

import (
	"math"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/content"
	"github.com/five82/flipbook/internal/gesture"
	"github.com/five82/flipbook/internal/layout"
)

const (
	// ShadowMax is the turning page shadow alpha at the perpendicular.
	ShadowMax = 100.0 / 255.0

	// SpineShadowWidth is the width of the gutter shadow band.
	SpineShadowWidth = 10.0

	// SpineShadowAlpha is the opacity of the gutter shadow band.
	SpineShadowAlpha = 30.0 / 255.0

	// GutterGray is the grey level of the line drawn at the spine of a
	// resting image spread.
	GutterGray = 30.0 / 255.0

	// MinTurnWidth is the narrowest turning page that is still drawn.
	MinTurnWidth = 1.0
)

// Input is everything one frame needs.
type Input struct {
	Resolver content.Resolver
	Layout   layout.Layout
	Current  int

	// Turning selects a turn frame using Direction and Progress.
	Turning   bool
	Direction gesture.Direction
	Progress  float64
}

// Role names what a layer is for.
type Role int

const (
	RoleSpread Role = iota + 1
	RoleStatic
	RoleTurning
	RoleTurnShadow
	RoleSpineShadow
	RoleGutter
	RoleLetterbox
)

func (r Role) String() string {
	switch r {
	case RoleSpread:
		return "spread"
	case RoleStatic:
		return "static"
	case RoleTurning:
		return "turning"
	case RoleTurnShadow:
		return "turn-shadow"
	case RoleSpineShadow:
		return "spine-shadow"
	case RoleGutter:
		return "gutter"
	case RoleLetterbox:
		return "letterbox"
	default:
		return "unknown"
	}
}

// Face of the turning page.
type Face int

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	if f == Back {
		return "back"
	}
	return "front"
}

// Layer is one draw operation. Content layers carry Content; shade, fill
// and line layers use Alpha and Gray.
type Layer struct {
	Role    Role
	Rect    layout.Rect
	Content content.Content
	Face    Face
	Alpha   float64
	Gray    float64
}

// Scene is a frame's display list, back to front.
type Scene struct {
	Layout layout.Layout
	Layers []Layer
}

// Compose builds the display list for in.
func Compose(in Input) Scene {
	s := Scene{Layout: in.Layout}
	if !in.Turning {
		s.static(in.Resolver, in.Current)
		return s
	}

	target := in.Current - int(in.Direction)
	if !in.Resolver.Book.Valid(target) {
		s.static(in.Resolver, in.Current)
		return s
	}

	l := in.Layout
	s.spread(in.Resolver, target, RoleSpread)

	staySide, turnSide := book.Left, book.Right
	if in.Direction == gesture.Prev {
		staySide, turnSide = book.Right, book.Left
	}
	if c := in.Resolver.Resolve(in.Current, staySide); !isEmpty(c) {
		s.add(Layer{Role: RoleStatic, Rect: l.PageRect(staySide), Content: c})
	}

	angle := clamp01(in.Progress) * math.Pi
	width := TurnWidth(in.Direction, angle, l.PageWidth)
	if math.Abs(width) >= MinTurnWidth {
		rect := layout.Rect{X: l.Spine() + math.Min(0, width), Y: l.StartY, W: math.Abs(width), H: l.PageHeight}
		face, c := Front, in.Resolver.Resolve(in.Current, turnSide)
		if angle >= math.Pi/2 {
			// The back of the turning page is the facing page of the target.
			face, c = Back, in.Resolver.Resolve(target, staySide)
		}
		if !isEmpty(c) {
			s.add(Layer{Role: RoleTurning, Rect: rect, Content: c, Face: face})
			s.add(Layer{Role: RoleTurnShadow, Rect: rect, Face: face, Alpha: math.Sin(angle) * ShadowMax})
		}
	}

	s.add(Layer{
		Role:  RoleSpineShadow,
		Rect:  layout.Rect{X: l.Spine() - SpineShadowWidth/2, Y: l.StartY, W: SpineShadowWidth, H: l.PageHeight},
		Alpha: SpineShadowAlpha,
	})
	return s
}

// TurnWidth is the signed foreshortened width of the turning page at angle.
// It starts on the side the page lifts from and ends on the opposite side.
func TurnWidth(dir gesture.Direction, angle, pageWidth float64) float64 {
	if dir == gesture.Next {
		return pageWidth * math.Cos(angle)
	}
	return -pageWidth * math.Cos(angle)
}

// Letterbox fits a w×h picture inside r, centred, keeping its aspect.
func Letterbox(w, h int, r layout.Rect) layout.Rect {
	if w <= 0 || h <= 0 {
		return r
	}
	scale := math.Min(r.W/float64(w), r.H/float64(h))
	dw, dh := float64(w)*scale, float64(h)*scale
	return layout.Rect{X: r.X + (r.W-dw)/2, Y: r.Y + (r.H-dh)/2, W: dw, H: dh}
}

// Zoom composes a single page fitted into a w×h viewport.
func Zoom(c content.Image, w, h float64) Scene {
	s := Scene{Layout: layout.Layout{ViewportWidth: w, ViewportHeight: h}}
	pw, ph := asset.NaturalSize(c.Handle)
	s.add(Layer{Role: RoleSpread, Rect: Letterbox(pw, ph, layout.Rect{W: w, H: h}), Content: c})
	return s
}

func (s *Scene) add(layer Layer) {
	s.Layers = append(s.Layers, layer)
}

// static draws a resting spread with its gutter line.
func (s *Scene) static(r content.Resolver, i int) {
	s.spread(r, i, RoleSpread)
	spread, ok := r.Book.At(i)
	if ok && spread.Kind == book.KindImage {
		l := s.Layout
		s.add(Layer{Role: RoleGutter, Rect: layout.Rect{X: l.Spine(), Y: l.StartY, W: 0, H: l.PageHeight}, Gray: GutterGray})
	}
}

// spread adds both sides of spread i. A ready video spread is letterboxed
// whole into the spread rectangle over a black fill.
func (s *Scene) spread(r content.Resolver, i int, role Role) {
	l := s.Layout
	spread, ok := r.Book.At(i)
	if !ok {
		return
	}

	left := r.Resolve(i, book.Left)
	right := r.Resolve(i, book.Right)
	if spread.Kind == book.KindVideo {
		if v, ok := left.(content.Video); ok {
			w, _ := v.Handle.Size()
			whole := content.Video{Key: v.Key, Handle: v.Handle, CropWidth: w, Height: v.Height}
			s.add(Layer{Role: RoleLetterbox, Rect: l.SpreadRect(), Alpha: 1})
			s.add(Layer{Role: role, Rect: Letterbox(w, v.Height, l.SpreadRect()), Content: whole})
			return
		}
	}

	for _, side := range []struct {
		side book.Side
		c    content.Content
	}{{book.Left, left}, {book.Right, right}} {
		if isEmpty(side.c) {
			continue
		}
		s.add(Layer{Role: role, Rect: l.PageRect(side.side), Content: side.c})
	}
}

// Turning returns the turning page layer, if the scene has one.
func (s Scene) Turning() (Layer, bool) {
	for _, layer := range s.Layers {
		if layer.Role == RoleTurning {
			return layer, true
		}
	}
	return Layer{}, false
}

func isEmpty(c content.Content) bool {
	_, ok := c.(content.Empty)
	return ok
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
