package asset

import (
	"image"

	"github.com/gogpu/gg"
)

// Status is the load state of a page or video stream.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Handle is a decoded, drawable frame.
type Handle interface {
	// Size returns the natural pixel size. Zero means nothing drawable yet.
	Size() (w, h int)
	// Image returns the pixels for drawing. It may be nil when Size is zero.
	Image() *gg.ImageBuf
}

// Frame is an immutable decoded picture.
type Frame struct {
	buf *gg.ImageBuf
}

// NewFrame converts a decoded image into a drawable frame.
func NewFrame(img image.Image) *Frame {
	if img == nil {
		return &Frame{}
	}
	return &Frame{buf: gg.ImageBufFromImage(img)}
}

// Size implements Handle.
func (f *Frame) Size() (int, int) {
	if f == nil || f.buf == nil {
		return 0, 0
	}
	return f.buf.Bounds()
}

// Image implements Handle.
func (f *Frame) Image() *gg.ImageBuf {
	if f == nil {
		return nil
	}
	return f.buf
}

// NaturalSize returns the handle size, or zeros for a nil handle.
func NaturalSize(h Handle) (int, int) {
	if h == nil {
		return 0, 0
	}
	return h.Size()
}

// PageSnapshot is an immutable view of one page at a point in time.
type PageSnapshot struct {
	Number int
	Status Status
	Handle Handle
	Err    string
}

// VideoSnapshot is an immutable view of one video stream at a point in time.
type VideoSnapshot struct {
	Key     string
	Status  Status
	Handle  Handle
	Frame   int
	Frames  int
	Playing bool
	Err     string
}

// Provider answers status and pixel queries for pages and video streams.
type Provider interface {
	Page(n int) PageSnapshot
	Video(key string) VideoSnapshot
}
