// Package export drives the viewer and renderer without a terminal, writing
// one page turn as numbered PNG frames and, optionally, an animated GIF.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/gesture"
	"github.com/five82/flipbook/internal/layout"
	"github.com/five82/flipbook/internal/render"
	"github.com/five82/flipbook/internal/viewer"
)

const (
	defaultWidth  = 1200
	defaultHeight = 800
	defaultFPS    = 30
)

// Options configures one export run.
type Options struct {
	Book      *book.Book
	Provider  asset.Provider
	From      int
	Direction gesture.Direction
	Width     int
	Height    int

	// OutDir receives frame000.png, frame001.png and so on. Empty skips
	// the PNG frames.
	OutDir string

	// GIF is the animated GIF path. Empty skips the GIF.
	GIF string
	FPS int

	Logger *zap.Logger
}

// Result describes what an export wrote.
type Result struct {
	Frames []string
	GIF    string
	From   int
	To     int
}

// Run animates a turn from opts.From in opts.Direction, rasterizing every
// frame from rest to rest.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.OutDir == "" && opts.GIF == "" {
		return Result{}, errors.New("export needs an output directory or a gif path")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}

	engine, err := viewer.New(viewer.Options{Book: opts.Book, Provider: opts.Provider, Logger: logger})
	if err != nil {
		return Result{}, err
	}
	painter, err := render.NewPainter()
	if err != nil {
		return Result{}, err
	}

	s := engine.StartAt(opts.From)
	start := s.Current
	s = engine.Turn(s, opts.Direction)
	if !s.Busy() {
		return Result{}, fmt.Errorf("cannot turn %s from spread %d of %d", opts.Direction, start, opts.Book.Len())
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	dc := gg.NewContext(width, height)
	defer func() { _ = dc.Close() }()
	l := layout.Compute(float64(width), float64(height))

	res := Result{From: start}
	var frames []image.Image
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := painter.Paint(dc, render.Compose(engine.Frame(s, l))); err != nil {
			return res, fmt.Errorf("paint frame %d: %w", i, err)
		}
		if opts.OutDir != "" {
			path := filepath.Join(opts.OutDir, fmt.Sprintf("frame%03d.png", i))
			if err := dc.SavePNG(path); err != nil {
				return res, fmt.Errorf("write frame %d: %w", i, err)
			}
			res.Frames = append(res.Frames, path)
		}
		if opts.GIF != "" {
			frames = append(frames, dc.Image())
		}
		if !s.Busy() {
			break
		}
		s = engine.Advance(s)
	}
	res.To = s.Current

	if opts.GIF != "" {
		if err := writeGIF(opts.GIF, frames, fps); err != nil {
			return res, err
		}
		res.GIF = opts.GIF
	}

	logger.Info("exported turn",
		zap.Int("from", res.From),
		zap.Int("to", res.To),
		zap.Int("frames", len(res.Frames)),
		zap.String("gif", res.GIF),
	)
	return res, nil
}

// writeGIF encodes frames with the Plan 9 palette and Floyd-Steinberg
// dithering. Delays are in hundredths of a second.
func writeGIF(path string, frames []image.Image, fps int) error {
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}
	anim := &gif.GIF{}
	for _, frame := range frames {
		b := frame.Bounds()
		p := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(p, b, frame, b.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create gif dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
