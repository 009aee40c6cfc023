package asset

import (
	"image"
	"testing"
)

func TestStore_UnknownReadsAsLoading(t *testing.T) {
	s := NewStore()

	page := s.Page(3)
	if page.Number != 3 || page.Status != StatusLoading || page.Handle != nil {
		t.Fatalf("Page(3) = %+v, want loading page 3 without handle", page)
	}
	video := s.Video("v")
	if video.Key != "v" || video.Status != StatusLoading {
		t.Fatalf("Video(v) = %+v, want loading", video)
	}
}

func TestStore_PageStatusIsOneWay(t *testing.T) {
	s := NewStore()
	frame := NewFrame(image.NewRGBA(image.Rect(0, 0, 4, 6)))

	s.SetPage(PageSnapshot{Number: 1, Status: StatusLoading})
	s.SetPage(PageSnapshot{Number: 1, Status: StatusReady, Handle: frame})
	s.SetPage(PageSnapshot{Number: 1, Status: StatusLoading})
	s.SetPage(PageSnapshot{Number: 1, Status: StatusError, Err: "late"})

	got := s.Page(1)
	if got.Status != StatusReady || got.Handle != frame {
		t.Fatalf("Page(1) = %+v, want the ready snapshot kept", got)
	}

	s.SetPage(PageSnapshot{Number: 2, Status: StatusError, Err: "boom"})
	s.SetPage(PageSnapshot{Number: 2, Status: StatusReady, Handle: frame})
	if got := s.Page(2); got.Status != StatusError || got.Err != "boom" {
		t.Fatalf("Page(2) = %+v, want error kept", got)
	}
}

func TestStore_VersionCountsAcceptedWrites(t *testing.T) {
	s := NewStore()
	v0 := s.Version()

	s.SetPage(PageSnapshot{Number: 1, Status: StatusError})
	s.SetPage(PageSnapshot{Number: 1, Status: StatusReady}) // rejected
	s.SetVideo(VideoSnapshot{Key: "v", Status: StatusReady})

	if got := s.Version() - v0; got != 2 {
		t.Fatalf("version delta = %d, want 2", got)
	}
}

func TestStore_Stats(t *testing.T) {
	s := NewStore()
	s.SetPage(PageSnapshot{Number: 1, Status: StatusReady})
	s.SetPage(PageSnapshot{Number: 2, Status: StatusError})
	s.SetPage(PageSnapshot{Number: 3, Status: StatusLoading})

	st := s.Stats(5)
	want := Stats{Ready: 1, Loading: 3, Failed: 1}
	if st != want {
		t.Fatalf("Stats = %+v, want %+v", st, want)
	}
}

func TestFrameSize(t *testing.T) {
	var nilFrame *Frame
	if w, h := nilFrame.Size(); w != 0 || h != 0 {
		t.Fatalf("nil frame size = %dx%d, want 0x0", w, h)
	}
	if w, h := NaturalSize(nil); w != 0 || h != 0 {
		t.Fatalf("NaturalSize(nil) = %dx%d, want 0x0", w, h)
	}
	f := NewFrame(image.NewRGBA(image.Rect(0, 0, 21, 29)))
	if w, h := f.Size(); w != 21 || h != 29 {
		t.Fatalf("frame size = %dx%d, want 21x29", w, h)
	}
	if f.Image() == nil {
		t.Fatalf("frame image is nil")
	}
}
