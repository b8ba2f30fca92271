package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside/internal/events"
	"github.com/courtside/courtside/internal/feed"
)

func TestStoreGetOrCreateReturnsSameReconciler(t *testing.T) {
	s := NewStore()

	r1 := s.GetOrCreate("g1", events.SportNBA)
	r2 := s.GetOrCreate("g1", events.SportWNBA)
	assert.Same(t, r1, r2, "sport is fixed at creation")
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("g2")
	assert.False(t, ok)
}

func TestStoreStatesSnapshot(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("g1", events.SportNBA).Apply(detail(10, 8, 1, "6:00", feed.StatusLive))
	s.GetOrCreate("g2", events.SportNCAAMB)

	states := s.States()
	require.Len(t, states, 2)

	byID := map[string]GameState{}
	for _, gs := range states {
		byID[gs.GameID] = gs
	}
	assert.Equal(t, 10, byID["g1"].HomeScore)
	assert.Equal(t, events.SportNCAAMB, byID["g2"].Sport)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("g1", events.SportNBA)
	s.Remove("g1")
	assert.Equal(t, 0, s.Len())
}
