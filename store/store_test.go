package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfr "kuhn-cfr"
	"kuhn-cfr/kuhn"
	"kuhn-cfr/store"
)

func trainedSnapshot(t *testing.T, nIter int) cfr.Snapshot {
	t.Helper()
	game, err := kuhn.NewGame(kuhn.DefaultConfig())
	require.NoError(t, err)

	solver, err := cfr.New(game)
	require.NoError(t, err)

	for i := 0; i < nIter; i++ {
		solver.TrainStep()
	}
	return solver.GetSnapshot()
}

func TestStore_PutGet(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "snapshots"), nil)
	require.NoError(t, err)
	defer s.Close()

	snapshot := trainedSnapshot(t, 100)
	require.NoError(t, s.Put(100, snapshot))

	got, err := s.Get(100)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)

	_, err = s.Get(50)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Latest(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "snapshots"), nil)
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.Latest()
	assert.ErrorIs(t, err, store.ErrNotFound)

	snapshot := trainedSnapshot(t, 10)
	require.NoError(t, s.Put(10, snapshot))
	require.NoError(t, s.Put(200, snapshot))
	require.NoError(t, s.Put(3000, snapshot))

	iter, got, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 3000, iter)
	assert.Equal(t, snapshot, got)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots")

	s, err := store.Open(path, nil)
	require.NoError(t, err)

	snapshot := trainedSnapshot(t, 10)
	require.NoError(t, s.Put(10, snapshot))
	require.NoError(t, s.Close())

	s, err = store.Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	iter, got, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 10, iter)
	assert.Equal(t, snapshot, got)
}
