package asset

import "sync"

// Stats summarises page load progress.
type Stats struct {
	Ready   int
	Loading int
	Failed  int
}

// Store coordinates concurrent snapshot updates from loaders and readers in
// the frame loop. Every write replaces a whole snapshot value.
type Store struct {
	mu      sync.RWMutex
	pages   map[int]PageSnapshot
	videos  map[string]VideoSnapshot
	version uint64
}

// NewStore returns an empty store. Unknown pages and videos read as loading.
func NewStore() *Store {
	return &Store{
		pages:  make(map[int]PageSnapshot),
		videos: make(map[string]VideoSnapshot),
	}
}

var _ Provider = (*Store)(nil)

// SetPage publishes a page snapshot. Once a page is ready or failed its status
// no longer changes.
func (s *Store) SetPage(snap PageSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pages[snap.Number]; ok && prev.Status.Terminal() {
		return
	}
	s.pages[snap.Number] = snap
	s.version++
}

// Page implements Provider.
func (s *Store) Page(n int) PageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap, ok := s.pages[n]; ok {
		return snap
	}
	return PageSnapshot{Number: n, Status: StatusLoading}
}

// SetVideo publishes a video snapshot. A failed stream stays failed.
func (s *Store) SetVideo(snap VideoSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.videos[snap.Key]; ok && prev.Status == StatusError {
		return
	}
	s.videos[snap.Key] = snap
	s.version++
}

// Video implements Provider.
func (s *Store) Video(key string) VideoSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap, ok := s.videos[key]; ok {
		return snap
	}
	return VideoSnapshot{Key: key, Status: StatusLoading}
}

// Version increases on every accepted write.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Stats counts pages 1..total by status.
func (s *Store) Stats(total int) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for n := 1; n <= total; n++ {
		snap, ok := s.pages[n]
		switch {
		case !ok || snap.Status == StatusLoading:
			st.Loading++
		case snap.Status == StatusReady:
			st.Ready++
		default:
			st.Failed++
		}
	}
	return st
}
