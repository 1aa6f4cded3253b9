package remote

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFresh(t *testing.T) {
	fetched := testNow()
	snap := NewSnapshot(nil, fetched)

	assert.Len(t, snap.ID, 26)
	assert.NotNil(t, snap.Tasks)
	assert.True(t, snap.Fresh(fetched.Add(9*time.Minute), 10*time.Minute))
	assert.False(t, snap.Fresh(fetched.Add(10*time.Minute), 10*time.Minute))
	assert.False(t, snap.Fresh(fetched, 0))
	assert.False(t, Snapshot{}.Fresh(fetched, time.Hour))
}

func TestSnapshotSelect(t *testing.T) {
	snap := NewSnapshot([]Task{
		{ID: "low", Priority: 1},
		{ID: "hidden", Priority: 4, Labels: []string{"waiting"}},
		{ID: "high", Priority: 3},
		{ID: "future", Priority: 4, Due: &Due{Date: "2026-04-01"}},
	}, testNow())

	got := snap.Select(DefaultFilterConfig(), DefaultSort(), testNow())

	assert.Equal(t, []string{"high", "low"}, ids(got))
	assert.Len(t, snap.Tasks, 4)
}

func TestSnapshotStoreSaveLoad(t *testing.T) {
	store := SnapshotStore{Path: filepath.Join(t.TempDir(), "cache", "todoist.json")}

	empty, err := store.Load()
	require.NoError(t, err)
	assert.True(t, empty.FetchedAt.IsZero())

	snap := NewSnapshot([]Task{{ID: "1", Content: "call", Due: &Due{Date: "2026-03-10"}}}, testNow())
	require.NoError(t, store.Save(snap))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.True(t, snap.FetchedAt.Equal(got.FetchedAt))
	assert.Equal(t, snap.Tasks, got.Tasks)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	assert.NoFileExists(t, store.Path)
}

func TestSnapshotStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoist.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := SnapshotStore{Path: path}.Load()

	assert.Error(t, err)
}

func TestSnapshotStoreWithoutPath(t *testing.T) {
	var store SnapshotStore

	require.NoError(t, store.Save(NewSnapshot(nil, testNow())))
	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.ID)
}
