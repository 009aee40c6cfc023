package export

import (
	"context"
	"errors"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/gesture"
)

func fixture(t *testing.T) (*book.Book, *asset.Store) {
	t.Helper()
	b, err := book.Build(8, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	store := asset.NewStore()
	for n := 1; n <= 8; n++ {
		store.SetPage(asset.PageSnapshot{
			Number: n,
			Status: asset.StatusReady,
			Handle: asset.NewFrame(image.NewRGBA(image.Rect(0, 0, 21, 29))),
		})
	}
	return b, store
}

func TestRun_WritesFramesAndGIF(t *testing.T) {
	b, store := fixture(t)
	dir := t.TempDir()
	gifPath := filepath.Join(dir, "anim", "turn.gif")

	res, err := Run(context.Background(), Options{
		Book:      b,
		Provider:  store,
		From:      1,
		Direction: gesture.Next,
		Width:     160,
		Height:    100,
		OutDir:    filepath.Join(dir, "frames"),
		GIF:       gifPath,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.From != 1 || res.To != 2 {
		t.Fatalf("turned %d -> %d, want 1 -> 2", res.From, res.To)
	}
	if len(res.Frames) < 3 {
		t.Fatalf("frames = %d, want a full animation", len(res.Frames))
	}
	for _, path := range res.Frames {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("frame %s: %v", path, err)
		}
	}

	f, err := os.Open(gifPath)
	if err != nil {
		t.Fatalf("open gif: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != len(res.Frames) {
		t.Fatalf("gif frames = %d, want %d", len(anim.Image), len(res.Frames))
	}
	if got := anim.Image[0].Bounds().Dx(); got != 160 {
		t.Fatalf("gif width = %d, want 160", got)
	}
}

func TestRun_PastCoverFails(t *testing.T) {
	b, store := fixture(t)
	_, err := Run(context.Background(), Options{
		Book:      b,
		Provider:  store,
		From:      0,
		Direction: gesture.Prev,
		OutDir:    t.TempDir(),
	})
	if err == nil {
		t.Fatalf("Run from the cover toward prev returned nil error")
	}
}

func TestRun_NeedsOutput(t *testing.T) {
	b, store := fixture(t)
	if _, err := Run(context.Background(), Options{Book: b, Provider: store, Direction: gesture.Next}); err == nil {
		t.Fatalf("Run without outputs returned nil error")
	}
}

func TestRun_Cancelled(t *testing.T) {
	b, store := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{
		Book:      b,
		Provider:  store,
		Direction: gesture.Next,
		Width:     80,
		Height:    60,
		OutDir:    t.TempDir(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}
