package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/scene"
)

// View is one browser's diagram. Each view owns its own tree, so expanding
// a node in one tab never affects another.
type View struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	diagram  *diagram.Diagram
	scene    *scene.Scene
	frame    scene.Frame
	lastSeen time.Time
}

func newView(d *diagram.Diagram, s *scene.Scene, first scene.Frame, now time.Time) *View {
	return &View{
		ID:       uuid.NewString(),
		Created:  now,
		diagram:  d,
		scene:    s,
		frame:    first,
		lastSeen: now,
	}
}

// Do runs fn with exclusive access to the view's diagram and scene.
func (v *View) Do(fn func(d *diagram.Diagram, s *scene.Scene)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.diagram, v.scene)
}

// Frame returns the most recently committed frame.
func (v *View) Frame() scene.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame
}

func (v *View) setFrame(f scene.Frame) {
	v.frame = f
}

// Store holds the live views and expires idle ones.
type Store struct {
	mu    sync.Mutex
	views map[string]*View
	ttl   time.Duration
	max   int
	now   func() time.Time
}

// NewStore creates a store. Views idle for longer than ttl are removed by
// [Store.Sweep]; when max views exist the least recently used one is
// evicted to make room.
func NewStore(ttl time.Duration, max int) *Store {
	return &Store{views: make(map[string]*View), ttl: ttl, max: max, now: time.Now}
}

// Add registers v, evicting the least recently used view if the store is
// full. It returns the ID of the evicted view, if any.
func (s *Store) Add(v *View) (evicted string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.views) >= s.max {
		var oldest *View
		for _, cand := range s.views {
			if oldest == nil || cand.lastSeen.Before(oldest.lastSeen) {
				oldest = cand
			}
		}
		delete(s.views, oldest.ID)
		evicted = oldest.ID
	}
	s.views[v.ID] = v
	return evicted
}

// Get returns the view with id and marks it as used.
func (s *Store) Get(id string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if ok {
		v.lastSeen = s.now()
	}
	return v, ok
}

// Delete removes a view. It reports whether the view existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.views[id]
	delete(s.views, id)
	return ok
}

// Sweep removes views idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, v := range s.views {
		if v.lastSeen.Before(cutoff) {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}
