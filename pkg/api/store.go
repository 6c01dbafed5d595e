package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/timegrid/pkg/grid"
)

// entry is a stored grid.
type entry struct {
	grid    *grid.Grid
	created time.Time
}

// store keeps built grids in memory, keyed by random UUIDs.
type store struct {
	mu    sync.RWMutex
	grids map[uuid.UUID]entry
	max   int
}

func newStore(max int) *store {
	return &store{grids: make(map[uuid.UUID]entry), max: max}
}

// put stores g and returns its id. When the store is full the oldest grid is
// evicted.
func (s *store) put(g *grid.Grid) uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.grids) >= s.max {
		s.evictOldest()
	}
	s.grids[id] = entry{grid: g, created: time.Now()}
	return id
}

func (s *store) get(id uuid.UUID) (*grid.Grid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.grids[id]
	return e.grid, ok
}

func (s *store) delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grids[id]; !ok {
		return false
	}
	delete(s.grids, id)
	return true
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grids)
}

// evictOldest must be called with mu held.
func (s *store) evictOldest() {
	var oldest uuid.UUID
	var at time.Time
	for id, e := range s.grids {
		if at.IsZero() || e.created.Before(at) {
			oldest, at = id, e.created
		}
	}
	delete(s.grids, oldest)
}
