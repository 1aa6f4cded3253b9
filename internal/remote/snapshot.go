package remote

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amirbrooks/nextaction/internal/fileutil"
)

// Snapshot is one completed fetch. Callers own it and decide when it is
// stale; the filter and sort pipeline only reads it.
type Snapshot struct {
	ID        string    `json:"id"`
	Tasks     []Task    `json:"tasks"`
	FetchedAt time.Time `json:"fetched_at"`
}

func NewSnapshot(tasks []Task, fetchedAt time.Time) Snapshot {
	if tasks == nil {
		tasks = []Task{}
	}
	return Snapshot{ID: newSnapshotID(fetchedAt), Tasks: tasks, FetchedAt: fetchedAt}
}

// Fresh reports whether the snapshot is younger than ttl at now. The zero
// snapshot is never fresh.
func (s Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if s.FetchedAt.IsZero() || ttl <= 0 {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// Select filters and sorts the snapshot's tasks at now.
func (s Snapshot) Select(cfg FilterConfig, keys []SortKey, now time.Time) []Task {
	return Sort(Filter(s.Tasks, cfg, now), keys, now.Location())
}

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

func newSnapshotID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return fmt.Sprintf("%d", t.UnixNano())
	}
	return strings.ToUpper(id.String())
}

// SnapshotStore persists the last snapshot as JSON so separate processes
// can share one fetch.
type SnapshotStore struct {
	Path string
}

// Load returns the stored snapshot. A missing file yields the zero snapshot
// and no error.
func (s SnapshotStore) Load() (Snapshot, error) {
	if s.Path == "" {
		return Snapshot{}, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.Path, err)
	}
	return snap, nil
}

func (s SnapshotStore) Save(snap Snapshot) error {
	if s.Path == "" {
		return nil
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(s.Path, append(b, '\n'), 0o600)
}

// Clear removes the stored snapshot.
func (s SnapshotStore) Clear() error {
	if s.Path == "" {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
