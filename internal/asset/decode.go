package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"slices"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	// WebP pages decode through image.Decode.
	_ "golang.org/x/image/webp"
)

// minFrameDelay keeps zero-delay GIFs from spinning the clock.
const minFrameDelay = 20 * time.Millisecond

// DecodePage decodes a still page image, honouring EXIF orientation, and fits
// it into a maxDim square when maxDim is positive.
func DecodePage(data []byte, maxDim int) (image.Image, error) {
	if err := sniff(data); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return fit(img, maxDim), nil
}

// Clip is a decoded video stream: composited frames and their display times.
type Clip struct {
	Frames []image.Image
	Delays []time.Duration
}

// DecodeClip decodes an animated GIF into fully composited frames.
func DecodeClip(data []byte, maxDim int) (Clip, error) {
	kind, _ := filetype.Match(data)
	if kind.Extension != "gif" {
		if kind == filetype.Unknown {
			return Clip{}, fmt.Errorf("unsupported video stream: unknown format")
		}
		return Clip{}, fmt.Errorf("unsupported video stream: %s", kind.MIME.Value)
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Clip{}, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return Clip{}, fmt.Errorf("decode gif: no frames")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	clip := Clip{
		Frames: make([]image.Image, 0, len(g.Image)),
		Delays: make([]time.Duration, 0, len(g.Image)),
	}
	for i, frame := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous []uint8
		if disposal == gif.DisposalPrevious {
			previous = slices.Clone(canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		clip.Frames = append(clip.Frames, fit(imaging.Clone(canvas), maxDim))

		delay := minFrameDelay
		if i < len(g.Delay) {
			if d := time.Duration(g.Delay[i]) * 10 * time.Millisecond; d > delay {
				delay = d
			}
		}
		clip.Delays = append(clip.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, previous)
		}
	}
	return clip, nil
}

func sniff(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty asset")
	}
	if filetype.IsImage(data) {
		return nil
	}
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		return fmt.Errorf("unsupported page format: unknown")
	}
	return fmt.Errorf("unsupported page format: %s", kind.MIME.Value)
}

func fit(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
