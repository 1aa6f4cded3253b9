// Package selection combines the local file walk and the remote pipeline
// into one next-action decision.
package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/amirbrooks/nextaction/internal/local"
	"github.com/amirbrooks/nextaction/internal/remote"
)

var (
	ErrNoTask    = errors.New("no actionable task")
	ErrNotTagged = errors.New("task is not tagged")
)

// Selector wires the scanner, mutator and remote source together. Source
// and Store may be nil; a nil Source disables the remote side.
type Selector struct {
	Scanner *local.Scanner
	Mutator *local.Mutator
	Source  remote.Source
	Store   *remote.SnapshotStore
	Filter  remote.FilterConfig
	Sort    []remote.SortKey
	TTL     time.Duration
	Now     func() time.Time
	Logger  *slog.Logger
}

// Decision is what a renderer or command consumes.
type Decision struct {
	Local     local.ScanOutcome `json:"local"`
	Remote    []remote.Task     `json:"remote"`
	FetchedAt time.Time         `json:"fetched_at,omitzero"`
}

// TopRemote returns the current remote task, the head of the sorted list.
func (d Decision) TopRemote() (remote.Task, bool) {
	if len(d.Remote) == 0 {
		return remote.Task{}, false
	}
	return d.Remote[0], true
}

func (s *Selector) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Local scans from dir.
func (s *Selector) Local(dir string) local.ScanOutcome {
	return s.Scanner.Scan(dir)
}

// Snapshot returns the remote snapshot to select from. A stored snapshot
// younger than TTL is reused unless force is set. Fetch failures are
// logged and yield an empty snapshot.
func (s *Selector) Snapshot(ctx context.Context, force bool) remote.Snapshot {
	if s.Source == nil {
		return remote.Snapshot{}
	}
	log := s.logger()
	now := s.now()

	if !force && s.Store != nil {
		cached, err := s.Store.Load()
		if err != nil {
			log.Warn("snapshot cache unreadable", "path", s.Store.Path, "error", err)
		} else if cached.Fresh(now, s.TTL) {
			log.Debug("using cached snapshot", "id", cached.ID, "age", now.Sub(cached.FetchedAt).Round(time.Second))
			return cached
		}
	}

	tasks, err := s.Source.FetchTasks(ctx)
	if err != nil {
		log.Warn("remote fetch failed", "error", err)
		return remote.Snapshot{Tasks: []remote.Task{}}
	}
	snap := remote.NewSnapshot(tasks, now)
	log.Debug("fetched snapshot", "id", snap.ID, "tasks", len(tasks))
	if s.Store != nil {
		if err := s.Store.Save(snap); err != nil {
			log.Warn("snapshot cache not saved", "path", s.Store.Path, "error", err)
		}
	}
	return snap
}

// Remote returns the filtered and sorted remote tasks.
func (s *Selector) Remote(ctx context.Context, force bool) []remote.Task {
	return s.Snapshot(ctx, force).Select(s.Filter, s.Sort, s.now())
}

// Next scans dir and selects remote tasks. The two sides are independent:
// a remote failure still returns the local result.
func (s *Selector) Next(ctx context.Context, dir string, force bool) Decision {
	d := Decision{Local: s.Local(dir)}
	snap := s.Snapshot(ctx, force)
	d.Remote = snap.Select(s.Filter, s.Sort, s.now())
	d.FetchedAt = snap.FetchedAt
	return d
}

// CompleteLocal checks off the current local task under dir.
func (s *Selector) CompleteLocal(dir string) (local.ScanOutcome, error) {
	out := s.Local(dir)
	if !out.Found {
		return out, ErrNoTask
	}
	if err := s.Mutator.CompleteTask(out.AbsolutePath, out.Line); err != nil {
		return out, err
	}
	s.logger().Debug("completed local task", "path", out.AbsolutePath, "line", out.Line)
	return out, nil
}

// SkipLocal removes the tag from the current local task so the next
// candidate takes its place.
func (s *Selector) SkipLocal(dir string) (local.ScanOutcome, error) {
	out := s.Local(dir)
	if !out.Found {
		return out, ErrNoTask
	}
	if out.Kind != local.KindCheckboxTagged && out.Kind != local.KindBareTagged {
		return out, fmt.Errorf("%w: %q", ErrNotTagged, out.Task)
	}
	if err := s.Mutator.SkipTask(out.AbsolutePath, out.Line); err != nil {
		return out, err
	}
	return out, nil
}

// AddLocal appends a task to the nearest task file, creating one in dir
// when none exists.
func (s *Selector) AddLocal(dir, text string, pos local.Position, asNA bool) (string, error) {
	path := s.Scanner.FindOrCreateTodoPath(dir)
	if err := s.Mutator.AppendTask(path, text, pos, asNA); err != nil {
		return path, err
	}
	return path, nil
}

// CompleteRemote completes the current remote task on a fresh fetch and
// drops the cached snapshot. Unlike Snapshot, a failed fetch is returned.
func (s *Selector) CompleteRemote(ctx context.Context) (remote.Task, error) {
	if s.Source == nil {
		return remote.Task{}, fmt.Errorf("%w: remote disabled", remote.ErrUnavailable)
	}
	fetched, err := s.Source.FetchTasks(ctx)
	if err != nil {
		if !errors.Is(err, remote.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
		}
		return remote.Task{}, err
	}
	now := s.now()
	tasks := remote.NewSnapshot(fetched, now).Select(s.Filter, s.Sort, now)
	if len(tasks) == 0 {
		return remote.Task{}, ErrNoTask
	}
	top := tasks[0]
	if err := s.Source.CompleteTask(ctx, top.ID); err != nil {
		return top, err
	}
	if s.Store != nil {
		if err := s.Store.Clear(); err != nil {
			s.logger().Warn("snapshot cache not cleared", "path", s.Store.Path, "error", err)
		}
	}
	return top, nil
}
