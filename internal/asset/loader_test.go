package asset

import (
	"context"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestLoader_LoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []int{1, 3} {
		if err := os.WriteFile(filepath.Join(dir, "page"+strconv.Itoa(n)+".png"), pngBytes(t, 21, 29), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "clip.gif"), gifBytes(t, 8, 4, []int{2, 2}), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store := NewStore()
	clock := NewClock(store)
	loader, err := NewLoader(LoaderOptions{
		Source:      DirSource{Root: dir},
		Store:       store,
		PagePattern: "page%d.png",
		Workers:     2,
	})
	if err != nil {
		t.Fatalf("NewLoader returned error: %v", err)
	}

	if err := loader.Load(context.Background(), 3, map[string]string{"v": "clip.gif", "gone": "missing.gif"}, clock); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	for _, n := range []int{1, 3} {
		snap := store.Page(n)
		if snap.Status != StatusReady {
			t.Fatalf("page %d status = %v, want ready", n, snap.Status)
		}
		if w, h := NaturalSize(snap.Handle); w != 21 || h != 29 {
			t.Fatalf("page %d size = %dx%d, want 21x29", n, w, h)
		}
	}
	missing := store.Page(2)
	if missing.Status != StatusError || missing.Err == "" {
		t.Fatalf("page 2 = %+v, want error with reason", missing)
	}

	if v := store.Video("v"); v.Status != StatusReady || v.Frames != 2 || v.Playing {
		t.Fatalf("video v = %+v, want ready, 2 frames, paused", v)
	}
	if v := store.Video("gone"); v.Status != StatusError {
		t.Fatalf("video gone = %+v, want error", v)
	}
	if st := store.Stats(3); st.Ready != 2 || st.Failed != 1 {
		t.Fatalf("Stats = %+v, want 2 ready 1 failed", st)
	}
}

func TestLoader_LoadOverHTTP(t *testing.T) {
	page := pngBytes(t, 10, 14)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/book/page1.png":
			if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "flipbook/") {
				http.Error(w, "bad agent", http.StatusBadRequest)
				return
			}
			_, _ = w.Write(page)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL + "/book")
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}
	if _, ok := src.(*HTTPSource); !ok {
		t.Fatalf("NewSource returned %T, want *HTTPSource", src)
	}

	store := NewStore()
	loader, err := NewLoader(LoaderOptions{Source: src, Store: store, PagePattern: "page%d.png"})
	if err != nil {
		t.Fatalf("NewLoader returned error: %v", err)
	}
	if err := loader.Load(context.Background(), 2, nil, nil); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if snap := store.Page(1); snap.Status != StatusReady {
		t.Fatalf("page 1 = %+v, want ready", snap)
	}
	if snap := store.Page(2); snap.Status != StatusError || !strings.Contains(snap.Err, "404") {
		t.Fatalf("page 2 = %+v, want error mentioning 404", snap)
	}
}

func TestNewSource(t *testing.T) {
	if _, err := NewSource("  "); err == nil {
		t.Fatalf("NewSource(blank) returned nil error")
	}
	src, err := NewSource("images/")
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}
	if _, ok := src.(DirSource); !ok {
		t.Fatalf("NewSource returned %T, want DirSource", src)
	}
	if _, err := NewSource("http://"); err == nil {
		t.Fatalf("NewSource(http://) returned nil error")
	}
}

func TestNewLoader_Validates(t *testing.T) {
	if _, err := NewLoader(LoaderOptions{Store: NewStore()}); err == nil {
		t.Fatalf("NewLoader without source returned nil error")
	}
	if _, err := NewLoader(LoaderOptions{Source: DirSource{Root: "."}}); err == nil {
		t.Fatalf("NewLoader without store returned nil error")
	}
	l, err := NewLoader(LoaderOptions{Source: DirSource{Root: "."}, Store: NewStore()})
	if err != nil {
		t.Fatalf("NewLoader returned error: %v", err)
	}
	if got := l.PageName(7); got != "page7.jpg" {
		t.Fatalf("PageName(7) = %q, want page7.jpg", got)
	}
}

func TestClock_PlayAdvancePause(t *testing.T) {
	store := NewStore()
	clock := NewClock(store)
	base := time.Unix(1000, 0)
	clock.now = func() time.Time { return base }

	clock.Play("v") // before the clip exists
	still := image.NewRGBA(image.Rect(0, 0, 2, 2))
	clock.Add("v", Clip{
		Frames: []image.Image{still, still, still},
		Delays: []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
	})

	if !clock.Playing("v") {
		t.Fatalf("pending play request was dropped")
	}
	if snap := store.Video("v"); snap.Frame != 0 || !snap.Playing {
		t.Fatalf("snapshot = %+v, want frame 0 playing", snap)
	}

	clock.Advance(base.Add(50 * time.Millisecond))
	if snap := store.Video("v"); snap.Frame != 0 {
		t.Fatalf("frame = %d after 50ms, want 0", snap.Frame)
	}
	clock.Advance(base.Add(100 * time.Millisecond))
	if snap := store.Video("v"); snap.Frame != 1 {
		t.Fatalf("frame = %d after 100ms, want 1", snap.Frame)
	}
	clock.Advance(base.Add(300 * time.Millisecond))
	if snap := store.Video("v"); snap.Frame != 0 {
		t.Fatalf("frame = %d after 300ms, want wrap to 0", snap.Frame)
	}

	clock.PauseAll()
	clock.Advance(base.Add(time.Second))
	snap := store.Video("v")
	if snap.Playing || snap.Frame != 0 {
		t.Fatalf("snapshot = %+v, want paused on frame 0", snap)
	}
}

// zeros is an endless stream of zero bytes.
type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// sizedSource serves every asset as size zero bytes.
type sizedSource struct{ size int64 }

func (s sizedSource) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(io.LimitReader(zeros{}, s.size)), nil
}

func (s sizedSource) String() string { return "sized" }

func TestLoader_RejectsOversizedAsset(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		tooLarge bool
	}{
		{name: "at limit", size: maxAssetBytes, tooLarge: false},
		{name: "over limit", size: maxAssetBytes + 1, tooLarge: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			l, err := NewLoader(LoaderOptions{Source: sizedSource{size: tt.size}, Store: store, PagePattern: "page%d.png"})
			if err != nil {
				t.Fatalf("NewLoader returned error: %v", err)
			}
			if err := l.Load(context.Background(), 1, nil, nil); err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			snap := store.Page(1)
			if snap.Status != StatusError {
				t.Fatalf("status = %v, want error", snap.Status)
			}
			if got := strings.Contains(snap.Err, "asset too large"); got != tt.tooLarge {
				t.Fatalf("Err = %q, too large reported %v, want %v", snap.Err, got, tt.tooLarge)
			}
		})
	}
}
