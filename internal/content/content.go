// Package content maps a (spread, side) pair to something drawable.
package content

import (
	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
)

// Content is one of Image, Video, Empty or Unavailable.
type Content interface {
	isContent()
}

// Image is a ready page picture.
type Image struct {
	PageNumber int
	Status     asset.Status
	Handle     asset.Handle
}

// Video is one half of a two-up video frame.
type Video struct {
	Key       string
	Handle    asset.Handle
	CropX     int
	CropWidth int
	Height    int
}

// Empty marks a side with nothing printed on it.
type Empty struct{}

// Unavailable is content that cannot be drawn yet or at all. PageNumber is the
// page that should have been shown (for a video, the page it replaces).
type Unavailable struct {
	PageNumber int
	Status     asset.Status
	Reason     string
}

func (Image) isContent()       {}
func (Video) isContent()       {}
func (Empty) isContent()       {}
func (Unavailable) isContent() {}

// Resolver queries the asset provider for a spread side. It holds no state of
// its own, so repeated calls agree as long as the provider snapshots do.
type Resolver struct {
	Book     *book.Book
	Provider asset.Provider
}

// Resolve returns the content of one side of spread i.
func (r Resolver) Resolve(i int, side book.Side) Content {
	spread, ok := r.Book.At(i)
	if !ok {
		return Empty{}
	}
	if spread.Kind == book.KindVideo {
		return r.video(spread, side)
	}

	n := spread.Page(side)
	if n == 0 {
		return Empty{}
	}
	snap := r.Provider.Page(n)
	w, h := asset.NaturalSize(snap.Handle)
	if snap.Status != asset.StatusError && w > 0 && h > 0 {
		// Pixels can arrive before the status flips.
		return Image{PageNumber: n, Status: asset.StatusReady, Handle: snap.Handle}
	}
	status := snap.Status
	if status == asset.StatusReady {
		status = asset.StatusError
	}
	return Unavailable{PageNumber: n, Status: status, Reason: snap.Err}
}

func (r Resolver) video(spread book.Spread, side book.Side) Content {
	page := spread.Replaces[0]
	if side == book.Right {
		page = spread.Replaces[1]
	}

	snap := r.Provider.Video(spread.VideoKey)
	w, h := asset.NaturalSize(snap.Handle)
	if snap.Status == asset.StatusError || w == 0 || h == 0 {
		status := snap.Status
		if status == asset.StatusReady {
			status = asset.StatusError
		}
		return Unavailable{PageNumber: page, Status: status, Reason: snap.Err}
	}

	half := w / 2
	v := Video{Key: spread.VideoKey, Handle: snap.Handle, CropWidth: half, Height: h}
	if side == book.Right {
		v.CropX = half
		v.CropWidth = w - half
	}
	return v
}
