package archive

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndCount(t *testing.T) {
	s := openTestStore(t)

	s.Insert("game:g1", "push", []byte(`{"type":"game_update"}`))
	s.Insert("game:g1", "poll", []byte(`{"type":"game_update"}`))
	s.Insert("scoreboard", "push", []byte(`{"type":"scoreboard"}`))

	n, err := s.Count("game:g1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Count("scoreboard")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Count("game:unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplayOldestFirst(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		s.Insert("game:g1", "push", []byte(fmt.Sprintf(`{"seq":%d}`, i)))
	}
	s.Insert("scoreboard", "poll", []byte(`{"other":true}`))

	var got []string
	err := s.Replay("game:g1", func(origin string, raw []byte) error {
		assert.Equal(t, "push", origin)
		got = append(got, string(raw))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"seq":0}`, `{"seq":1}`, `{"seq":2}`, `{"seq":3}`, `{"seq":4}`}, got)
}

func TestReplayStopsOnCallbackError(t *testing.T) {
	s := openTestStore(t)
	s.Insert("game:g1", "push", []byte(`a`))
	s.Insert("game:g1", "push", []byte(`b`))

	var seen int
	err := s.Replay("game:g1", func(string, []byte) error {
		seen++
		return fmt.Errorf("stop here")
	})
	require.Error(t, err)
	assert.Equal(t, 1, seen)
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	s.Insert("game:g1", "push", []byte(`{}`))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count("game:g1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	assert.NotPanics(t, func() {
		s.Insert("game:g1", "push", []byte(`{}`))
	})
	n, err := s.Count("game:g1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, s.Replay("game:g1", func(string, []byte) error { return nil }))
	require.NoError(t, s.Close())
}
