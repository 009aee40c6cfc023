package render

import (
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/content"
	"github.com/five82/flipbook/internal/gesture"
	"github.com/five82/flipbook/internal/layout"
)

func newResolver(t *testing.T, store *asset.Store) content.Resolver {
	t.Helper()
	b, err := book.Build(16, []book.Override{{Left: 10, Right: 11, Key: "spread5"}})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return content.Resolver{Book: b, Provider: store}
}

func readyStore(total int) *asset.Store {
	store := asset.NewStore()
	for n := 1; n <= total; n++ {
		store.SetPage(asset.PageSnapshot{
			Number: n,
			Status: asset.StatusReady,
			Handle: asset.NewFrame(image.NewRGBA(image.Rect(0, 0, 21, 29))),
		})
	}
	return store
}

func turnInput(r content.Resolver, current int, dir gesture.Direction, progress float64) Input {
	return Input{
		Resolver:  r,
		Layout:    layout.Compute(1200, 800),
		Current:   current,
		Turning:   true,
		Direction: dir,
		Progress:  progress,
	}
}

func roles(s Scene) []Role {
	out := make([]Role, 0, len(s.Layers))
	for _, l := range s.Layers {
		out = append(out, l.Role)
	}
	return out
}

func pageOf(t *testing.T, layer Layer) int {
	t.Helper()
	img, ok := layer.Content.(content.Image)
	if !ok {
		t.Fatalf("layer content = %#v, want Image", layer.Content)
	}
	return img.PageNumber
}

func TestCompose_FaceSwapAtPerpendicular(t *testing.T) {
	r := newResolver(t, readyStore(16))

	cases := []struct {
		name     string
		current  int
		dir      gesture.Direction
		progress float64
		face     Face
		page     int
	}{
		{"next before half shows leaving page", 0, gesture.Next, 0.49, Front, 1},
		{"next after half shows target left", 0, gesture.Next, 0.51, Back, 2},
		{"prev before half shows leaving page", 2, gesture.Prev, 0.49, Front, 4},
		{"prev after half shows target right", 2, gesture.Prev, 0.51, Back, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layer, ok := Compose(turnInput(r, tc.current, tc.dir, tc.progress)).Turning()
			if !ok {
				t.Fatalf("no turning layer")
			}
			if layer.Face != tc.face {
				t.Fatalf("face = %v, want %v", layer.Face, tc.face)
			}
			if got := pageOf(t, layer); got != tc.page {
				t.Fatalf("turning page = %d, want %d", got, tc.page)
			}
		})
	}
}

func TestCompose_TurnLayerOrder(t *testing.T) {
	r := newResolver(t, readyStore(16))
	s := Compose(turnInput(r, 1, gesture.Next, 0.25))

	want := []Role{RoleSpread, RoleSpread, RoleStatic, RoleTurning, RoleTurnShadow, RoleSpineShadow}
	if got := roles(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("roles = %v, want %v", got, want)
	}
	if pageOf(t, s.Layers[0]) != 4 || pageOf(t, s.Layers[1]) != 5 {
		t.Fatalf("target layers show pages %d and %d, want 4 and 5", pageOf(t, s.Layers[0]), pageOf(t, s.Layers[1]))
	}
	if got := pageOf(t, s.Layers[2]); got != 2 {
		t.Fatalf("static page = %d, want 2", got)
	}
}

func TestCompose_TurningGeometry(t *testing.T) {
	r := newResolver(t, readyStore(16))
	l := layout.Compute(1200, 800)
	quarter := l.PageWidth * math.Cos(math.Pi/4)

	cases := []struct {
		name     string
		dir      gesture.Direction
		progress float64
		wantX    float64
	}{
		{"next starts right of spine", gesture.Next, 0.25, l.Spine()},
		{"next ends left of spine", gesture.Next, 0.75, l.Spine() - quarter},
		{"prev starts left of spine", gesture.Prev, 0.25, l.Spine() - quarter},
		{"prev ends right of spine", gesture.Prev, 0.75, l.Spine()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layer, ok := Compose(turnInput(r, 3, tc.dir, tc.progress)).Turning()
			if !ok {
				t.Fatalf("no turning layer")
			}
			if math.Abs(layer.Rect.X-tc.wantX) > 1e-6 || math.Abs(layer.Rect.W-quarter) > 1e-6 {
				t.Fatalf("rect = %+v, want x %v width %v", layer.Rect, tc.wantX, quarter)
			}
			if layer.Rect.Y != l.StartY || layer.Rect.H != l.PageHeight {
				t.Fatalf("rect = %+v, want page height at start y", layer.Rect)
			}
		})
	}
}

func TestCompose_ShadowFollowsSine(t *testing.T) {
	r := newResolver(t, readyStore(16))
	s := Compose(turnInput(r, 3, gesture.Next, 0.25))

	for _, layer := range s.Layers {
		if layer.Role == RoleTurnShadow {
			if want := math.Sin(math.Pi/4) * ShadowMax; math.Abs(layer.Alpha-want) > 1e-9 {
				t.Fatalf("shadow alpha = %v, want %v", layer.Alpha, want)
			}
			return
		}
	}
	t.Fatalf("no turn shadow layer in %v", roles(s))
}

func TestCompose_SkipsDegenerateTurningPage(t *testing.T) {
	r := newResolver(t, readyStore(16))
	s := Compose(turnInput(r, 3, gesture.Next, 0.4999))

	if _, ok := s.Turning(); ok {
		t.Fatalf("turning layer drawn at sub-pixel width")
	}
	if last := s.Layers[len(s.Layers)-1]; last.Role != RoleSpineShadow {
		t.Fatalf("last layer = %v, want spine shadow", last.Role)
	}
}

func TestCompose_OutOfRangeTargetDrawsCurrent(t *testing.T) {
	r := newResolver(t, readyStore(16))
	in := turnInput(r, 0, gesture.Prev, 0.3)
	got := Compose(in)

	in.Turning = false
	want := Compose(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("out of range turn = %v, want static %v", roles(got), roles(want))
	}

	last := turnInput(r, r.Book.Len()-1, gesture.Next, 0.6)
	if _, ok := Compose(last).Turning(); ok {
		t.Fatalf("turn past the back cover drew a turning page")
	}
}

func TestCompose_StaticImageSpread(t *testing.T) {
	r := newResolver(t, readyStore(16))
	in := Input{Resolver: r, Layout: layout.Compute(1200, 800), Current: 0}
	s := Compose(in)

	if want := []Role{RoleSpread, RoleGutter}; !reflect.DeepEqual(roles(s), want) {
		t.Fatalf("roles = %v, want %v", roles(s), want)
	}
	if s.Layers[0].Rect != in.Layout.PageRect(book.Right) {
		t.Fatalf("cover drawn at %+v, want right page rect", s.Layers[0].Rect)
	}
	if s.Layers[1].Rect.X != in.Layout.Spine() {
		t.Fatalf("gutter x = %v, want spine %v", s.Layers[1].Rect.X, in.Layout.Spine())
	}
}

func TestCompose_StaticVideoSpreadIsLetterboxed(t *testing.T) {
	store := readyStore(16)
	handle := asset.NewFrame(image.NewRGBA(image.Rect(0, 0, 640, 452)))
	store.SetVideo(asset.VideoSnapshot{Key: "spread5", Status: asset.StatusReady, Handle: handle})
	r := newResolver(t, store)
	l := layout.Compute(1200, 800)

	s := Compose(Input{Resolver: r, Layout: l, Current: 5})
	if want := []Role{RoleLetterbox, RoleSpread}; !reflect.DeepEqual(roles(s), want) {
		t.Fatalf("roles = %v, want %v", roles(s), want)
	}
	v, ok := s.Layers[1].Content.(content.Video)
	if !ok || v.CropX != 0 || v.CropWidth != 640 || v.Height != 452 {
		t.Fatalf("video layer = %#v, want whole frame", s.Layers[1].Content)
	}
	box, spread := s.Layers[1].Rect, l.SpreadRect()
	if box.W > spread.W+1e-9 || box.H > spread.H+1e-9 {
		t.Fatalf("letterbox %+v exceeds spread %+v", box, spread)
	}
	if math.Abs((box.X+box.W/2)-(spread.X+spread.W/2)) > 1e-9 || math.Abs((box.Y+box.H/2)-(spread.Y+spread.H/2)) > 1e-9 {
		t.Fatalf("letterbox %+v not centred in %+v", box, spread)
	}
	if math.Abs(box.W/box.H-640.0/452.0) > 1e-9 {
		t.Fatalf("letterbox aspect = %v, want %v", box.W/box.H, 640.0/452.0)
	}
}

func TestCompose_MissingVideoUsesPlaceholders(t *testing.T) {
	r := newResolver(t, readyStore(16))
	s := Compose(Input{Resolver: r, Layout: layout.Compute(1200, 800), Current: 5})

	if want := []Role{RoleSpread, RoleSpread}; !reflect.DeepEqual(roles(s), want) {
		t.Fatalf("roles = %v, want %v", roles(s), want)
	}
	for i, page := range []int{10, 11} {
		u, ok := s.Layers[i].Content.(content.Unavailable)
		if !ok || u.PageNumber != page {
			t.Fatalf("layer %d = %#v, want placeholder for page %d", i, s.Layers[i].Content, page)
		}
	}
}

func TestCompose_VideoHalvesTurn(t *testing.T) {
	store := readyStore(16)
	handle := asset.NewFrame(image.NewRGBA(image.Rect(0, 0, 640, 452)))
	store.SetVideo(asset.VideoSnapshot{Key: "spread5", Status: asset.StatusReady, Handle: handle})
	r := newResolver(t, store)

	layer, ok := Compose(turnInput(r, 5, gesture.Next, 0.2)).Turning()
	if !ok {
		t.Fatalf("no turning layer")
	}
	v, ok := layer.Content.(content.Video)
	if !ok || v.CropX != 320 || v.CropWidth != 320 {
		t.Fatalf("turning content = %#v, want right half of the video", layer.Content)
	}
}

func TestLetterbox_ZeroSize(t *testing.T) {
	r := layout.Rect{X: 1, Y: 2, W: 3, H: 4}
	if got := Letterbox(0, 10, r); got != r {
		t.Fatalf("Letterbox(0, 10) = %+v, want %+v", got, r)
	}
}

func TestZoom_FitsPage(t *testing.T) {
	c := content.Image{PageNumber: 4, Status: asset.StatusReady, Handle: asset.NewFrame(image.NewRGBA(image.Rect(0, 0, 100, 200)))}
	s := Zoom(c, 400, 100)
	if len(s.Layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(s.Layers))
	}
	want := layout.Rect{X: 175, Y: 0, W: 50, H: 100}
	if got := s.Layers[0].Rect; got != want {
		t.Fatalf("zoom rect = %+v, want %+v", got, want)
	}
}
