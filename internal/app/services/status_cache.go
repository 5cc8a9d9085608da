package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/models"
)

// StatusSource produces raw `git status --short` output.
type StatusSource interface {
	StatusShort(ctx context.Context) git.Result
}

// RepaintFunc is notified with the new snapshot after every swap.
type RepaintFunc func(*models.StatusSnapshot)

// StatusCache holds the current working-tree snapshot. Readers never see a
// partially built snapshot: a refresh publishes with one pointer store.
type StatusCache struct {
	source   StatusSource
	root     string
	snapshot atomic.Pointer[models.StatusSnapshot]
	lastSwap atomic.Int64

	mu       sync.Mutex
	repaints []RepaintFunc
	logf     func(string, ...any)
}

// NewStatusCache creates an empty cache for the working tree at root.
func NewStatusCache(source StatusSource, root string, logf func(string, ...any)) *StatusCache {
	c := &StatusCache{
		source: source,
		root:   root,
		logf:   logf,
	}
	c.snapshot.Store(models.EmptySnapshot())
	return c
}

// Root returns the working-tree root paths are resolved against.
func (c *StatusCache) Root() string {
	return c.root
}

// OnRepaint registers fn to run after each snapshot swap.
func (c *StatusCache) OnRepaint(fn RepaintFunc) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repaints = append(c.repaints, fn)
}

// Refresh queries git and replaces the snapshot. A failed status call
// yields an empty snapshot: no detectable changes.
func (c *StatusCache) Refresh(ctx context.Context) *models.StatusSnapshot {
	if c.source == nil {
		return c.RefreshFromRaw("")
	}
	res := c.source.StatusShort(ctx)
	if res.Failed() {
		c.debugf("status refresh: %v", git.CommandError("status --short", res))
		return c.RefreshFromRaw("")
	}
	return c.RefreshFromRaw(res.Stdout)
}

// RefreshFromRaw parses raw status text and replaces the snapshot.
func (c *StatusCache) RefreshFromRaw(raw string) *models.StatusSnapshot {
	snap := git.ParseStatus(c.root, raw)
	c.swap(snap)
	c.debugf("status refresh: %d changed paths", snap.Len())
	return snap
}

// Invalidate forgets every entry until the next refresh.
func (c *StatusCache) Invalidate() {
	c.swap(models.EmptySnapshot())
}

// Classify returns the state of path, StateUnmodified when it is not reported.
func (c *StatusCache) Classify(path string) models.FileState {
	return c.snapshot.Load().Classify(git.NormalizePath(c.root, path))
}

// Snapshot returns the current snapshot. It must not be modified.
func (c *StatusCache) Snapshot() *models.StatusSnapshot {
	return c.snapshot.Load()
}

// LastRefresh returns when the snapshot was last replaced.
func (c *StatusCache) LastRefresh() time.Time {
	ns := c.lastSwap.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (c *StatusCache) swap(snap *models.StatusSnapshot) {
	c.snapshot.Store(snap)
	c.lastSwap.Store(time.Now().UnixNano())

	c.mu.Lock()
	repaints := append([]RepaintFunc(nil), c.repaints...)
	c.mu.Unlock()
	for _, fn := range repaints {
		fn(snap)
	}
}

func (c *StatusCache) debugf(format string, args ...any) {
	if c.logf == nil {
		return
	}
	c.logf(format, args...)
}
