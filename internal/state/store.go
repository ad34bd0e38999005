package state

import (
	"sync"
	"time"
)

// Progress describes one download.
type Progress struct {
	ID       string
	Filename string
	Received int64
	Total    int64 // -1 when the server did not announce a length
	Done     bool
	Err      error
	Started  time.Time
	Finished time.Time
}

// Fraction returns completion in [0,1], or -1 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Done && p.Err == nil {
		return 1
	}
	if p.Total <= 0 {
		return -1
	}
	f := float64(p.Received) / float64(p.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Snapshot is a point-in-time copy of all downloads in registration order.
type Snapshot struct {
	Downloads   []Progress
	LastUpdated time.Time
}

// Complete reports whether every registered download has finished.
func (s Snapshot) Complete() bool {
	for _, d := range s.Downloads {
		if !d.Done {
			return false
		}
	}
	return true
}

// Failed counts finished downloads that ended with an error.
func (s Snapshot) Failed() int {
	n := 0
	for _, d := range s.Downloads {
		if d.Done && d.Err != nil {
			n++
		}
	}
	return n
}

// Received sums the bytes received across downloads.
func (s Snapshot) Received() int64 {
	var total int64
	for _, d := range s.Downloads {
		total += d.Received
	}
	return total
}

// Store coordinates concurrent progress updates from download workers with
// readers such as the progress view.
type Store struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Progress
	updated time.Time
}

// Register adds pending downloads so they show up before any bytes arrive.
// Known IDs are ignored.
func (s *Store) Register(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.entry(id)
	}
	s.updated = time.Now()
}

// Begin marks id as started with the file name and announced size.
func (s *Store) Begin(id, filename string, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	e.Filename = filename
	e.Total = total
	e.Started = time.Now()
	s.updated = e.Started
}

// Advance adds n received bytes to id.
func (s *Store) Advance(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	e.Received += int64(n)
	s.updated = time.Now()
}

// Finish marks id as done; err records a failure.
func (s *Store) Finish(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	e.Done = true
	e.Err = err
	e.Finished = time.Now()
	s.updated = e.Finished
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{LastUpdated: s.updated}
	if len(s.order) == 0 {
		return snap
	}
	snap.Downloads = make([]Progress, 0, len(s.order))
	for _, id := range s.order {
		snap.Downloads = append(snap.Downloads, *s.entries[id])
	}
	return snap
}

// entry must be called with mu held.
func (s *Store) entry(id string) *Progress {
	if s.entries == nil {
		s.entries = make(map[string]*Progress)
	}
	e, ok := s.entries[id]
	if !ok {
		e = &Progress{ID: id, Total: -1}
		s.entries[id] = e
		s.order = append(s.order, id)
	}
	return e
}
