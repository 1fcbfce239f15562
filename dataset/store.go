package dataset

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the process-wide canonical dataset. Queries read the current
// snapshot lock-free; Reload rebuilds the whole pipeline off to the side
// and swaps the pointer, so no reader ever sees a half-built table.
type Store struct {
	mu       sync.Mutex // serializes rebuilds
	cur      atomic.Pointer[Snapshot]
	mappings Mappings
	dir      string
	seed     int64
	now      func() time.Time
}

func NewStore(m Mappings, dir string, seed int64) *Store {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Store{mappings: m, dir: dir, seed: seed, now: time.Now}
}

// Load builds the dataset and publishes it. Identical inputs and seed
// produce identical tables.
func (s *Store) Load() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Build(s.mappings, s.dir, NewGenerator(s.seed), s.now())
	s.cur.Store(snap)
	return snap
}

// Reload re-runs the full pipeline and atomically replaces all tables.
func (s *Store) Reload() *Snapshot {
	return s.Load()
}

func (s *Store) Snapshot() *Snapshot {
	return s.cur.Load()
}
