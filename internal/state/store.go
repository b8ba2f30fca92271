package state

import (
	"sync"

	"github.com/courtside/courtside/internal/events"
)

// Store holds the reconcilers for every game a process is tracking,
// keyed by game id. Each reconciler is still single-writer; the store
// only hands out references and snapshots.
type Store struct {
	mu   sync.RWMutex
	recs map[string]*Reconciler
}

func NewStore() *Store {
	return &Store{recs: make(map[string]*Reconciler)}
}

// GetOrCreate returns the reconciler for a game, creating it on first
// request. The sport is fixed at creation and ignored afterwards.
func (s *Store) GetOrCreate(gameID string, sport events.Sport) *Reconciler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.recs[gameID]; ok {
		return r
	}
	r := NewReconciler(gameID, sport)
	s.recs[gameID] = r
	return r
}

// Get returns the reconciler for a game if one exists.
func (s *Store) Get(gameID string) (*Reconciler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recs[gameID]
	return r, ok
}

// States snapshots the current state of every tracked game.
func (s *Store) States() []GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GameState, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r.State())
	}
	return out
}

// Remove drops a game from the store.
func (s *Store) Remove(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, gameID)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
