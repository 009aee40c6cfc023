package asset

import (
	"context"
	"fmt"
	"image"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers = 4
	maxAssetBytes  = 64 << 20
)

// LoaderOptions configure a Loader.
type LoaderOptions struct {
	Source      Source
	Store       *Store
	PagePattern string // fmt pattern taking the page number, e.g. "page%d.jpg"
	MaxDim      int
	Workers     int
	Logger      *zap.Logger
}

// Loader fetches and decodes pages and video streams out of band, publishing
// snapshots into the Store as each one finishes.
type Loader struct {
	src     Source
	store   *Store
	pattern string
	maxDim  int
	workers int
	log     *zap.Logger
}

// NewLoader validates options and returns a Loader.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("loader: source is nil")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("loader: store is nil")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pattern := opts.PagePattern
	if pattern == "" {
		pattern = "page%d.jpg"
	}
	return &Loader{
		src:     opts.Source,
		store:   opts.Store,
		pattern: pattern,
		maxDim:  opts.MaxDim,
		workers: workers,
		log:     log,
	}, nil
}

// Start launches background loading of pages 1..total and the given video
// streams (key to file name). It returns immediately.
func (l *Loader) Start(ctx context.Context, total int, videos map[string]string, clock *Clock) {
	go func() {
		if err := l.Load(ctx, total, videos, clock); err != nil {
			l.log.Debug("asset loading stopped", zap.Error(err))
		}
	}()
}

// Load blocks until every asset is either published or failed. Individual
// asset failures are recorded in the Store, only cancellation is returned.
func (l *Loader) Load(ctx context.Context, total int, videos map[string]string, clock *Clock) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for key, name := range videos {
		g.Go(func() error {
			l.loadVideo(gctx, key, name, clock)
			return gctx.Err()
		})
	}
	for n := 1; n <= total; n++ {
		g.Go(func() error {
			l.loadPage(gctx, n)
			return gctx.Err()
		})
	}
	return g.Wait()
}

// PageName returns the file name for page n.
func (l *Loader) PageName(n int) string {
	return fmt.Sprintf(l.pattern, n)
}

func (l *Loader) loadPage(ctx context.Context, n int) {
	name := l.PageName(n)
	data, err := l.read(ctx, name)
	if err == nil {
		var img image.Image
		if img, err = DecodePage(data, l.maxDim); err == nil {
			l.store.SetPage(PageSnapshot{Number: n, Status: StatusReady, Handle: NewFrame(img)})
			l.log.Debug("page ready", zap.Int("page", n), zap.String("file", name))
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	l.store.SetPage(PageSnapshot{Number: n, Status: StatusError, Err: err.Error()})
	l.log.Warn("page unavailable", zap.Int("page", n), zap.String("file", name), zap.Error(err))
}

func (l *Loader) loadVideo(ctx context.Context, key, name string, clock *Clock) {
	data, err := l.read(ctx, name)
	if err == nil {
		var clip Clip
		clip, err = DecodeClip(data, l.maxDim)
		if err == nil {
			if clock != nil {
				clock.Add(key, clip)
			} else {
				l.store.SetVideo(VideoSnapshot{
					Key:    key,
					Status: StatusReady,
					Handle: NewFrame(clip.Frames[0]),
					Frames: len(clip.Frames),
				})
			}
			l.log.Debug("video ready", zap.String("key", key), zap.Int("frames", len(clip.Frames)))
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	l.store.SetVideo(VideoSnapshot{Key: key, Status: StatusError, Err: err.Error()})
	l.log.Warn("video unavailable", zap.String("key", key), zap.String("file", name), zap.Error(err))
}

func (l *Loader) read(ctx context.Context, name string) ([]byte, error) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset too large: %s exceeds %d bytes", name, maxAssetBytes)
	}
	return data, nil
}
