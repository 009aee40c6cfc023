package asset

import (
	"context"
	"sync"
	"time"
)

const clockTick = 15 * time.Millisecond

type stream struct {
	frames  []*Frame
	delays  []time.Duration
	idx     int
	playing bool
	due     time.Time
}

// Clock advances decoded video streams in the background and publishes the
// current frame of each stream as a new snapshot.
type Clock struct {
	store *Store
	now   func() time.Time

	mu      sync.Mutex
	streams map[string]*stream
	pending map[string]bool // play requested before the stream finished loading
}

// NewClock returns a clock publishing into store.
func NewClock(store *Store) *Clock {
	return &Clock{
		store:   store,
		now:     time.Now,
		streams: make(map[string]*stream),
		pending: make(map[string]bool),
	}
}

// Add registers a decoded clip and publishes its first frame.
func (c *Clock) Add(key string, clip Clip) {
	if len(clip.Frames) == 0 {
		return
	}
	s := &stream{
		frames: make([]*Frame, len(clip.Frames)),
		delays: clip.Delays,
	}
	for i, img := range clip.Frames {
		s.frames[i] = NewFrame(img)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.streams[key] = s
	if c.pending[key] {
		delete(c.pending, key)
		s.playing = true
		s.due = c.now().Add(s.delay())
	}
	c.publish(key, s)
}

// Play starts looping key. Calling it for a stream that is still loading
// starts playback as soon as it arrives.
func (c *Clock) Play(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.streams[key]
	if !ok {
		c.pending[key] = true
		return
	}
	if s.playing {
		return
	}
	s.playing = true
	s.due = c.now().Add(s.delay())
	c.publish(key, s)
}

// PauseAll stops every stream on its current frame.
func (c *Clock) PauseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.pending)
	for key, s := range c.streams {
		if !s.playing {
			continue
		}
		s.playing = false
		c.publish(key, s)
	}
}

// Playing reports whether key is currently looping.
func (c *Clock) Playing(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.streams[key]; ok {
		return s.playing
	}
	return c.pending[key]
}

// Advance moves every playing stream whose frame time has elapsed.
func (c *Clock) Advance(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, s := range c.streams {
		if !s.playing || now.Before(s.due) {
			continue
		}
		if now.Sub(s.due) > time.Second {
			s.due = now
		}
		for !now.Before(s.due) {
			s.idx = (s.idx + 1) % len(s.frames)
			s.due = s.due.Add(s.delay())
		}
		c.publish(key, s)
	}
}

// Run ticks the clock until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(clockTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			c.Advance(t)
		}
	}
}

func (s *stream) delay() time.Duration {
	if s.idx < len(s.delays) && s.delays[s.idx] > 0 {
		return s.delays[s.idx]
	}
	return minFrameDelay
}

func (c *Clock) publish(key string, s *stream) {
	c.store.SetVideo(VideoSnapshot{
		Key:     key,
		Status:  StatusReady,
		Handle:  s.frames[s.idx],
		Frame:   s.idx,
		Frames:  len(s.frames),
		Playing: s.playing,
	})
}
