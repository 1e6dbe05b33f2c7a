package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FailurePolicy decides what a write does when the backend rejects it.
type FailurePolicy int

const (
	// Rollback discards the local change and returns the backend error.
	Rollback FailurePolicy = iota
	// AcceptDivergence keeps the local change and reports the sync failure.
	AcceptDivergence
)

func (p FailurePolicy) String() string {
	if p == AcceptDivergence {
		return "accept_divergence"
	}
	return "rollback"
}

// RetryPolicy bounds how often a failed persist is retried.
// Backoff grows linearly: attempt n waits n*Backoff.
type RetryPolicy struct {
	Attempts  int
	Backoff   time.Duration
	Retryable func(error) bool
}

// Mutation is one typed write command.
// Reduce edits a private copy of the snapshot; Persist sends the same change
// to the backend and may return a Reconcile step for backend-assigned ids.
type Mutation struct {
	Name      string
	Reduce    func(*Snapshot) error
	Persist   func(ctx context.Context, b *Backend) (Reconcile, error)
	OnFailure FailurePolicy
	Retry     RetryPolicy

	// inserted tracks the id of the entity an insert command adds.
	inserted *string
}

// Reconcile rewrites the committed copy once the backend has answered.
type Reconcile func(*Snapshot)

// WriteResult reports how a write ended.
type WriteResult struct {
	// ID is the final id of an inserted entity, after reconciliation.
	ID        string
	Persisted bool
	Attempts  int
	// SyncErr is set when the local change was kept but the backend failed.
	SyncErr error
}

// Diverged reports whether memory now differs from the backend.
func (r WriteResult) Diverged() bool {
	return r.SyncErr != nil
}

// ErrNotFound is returned by reducers that target a missing entity.
var ErrNotFound = errors.New("record not found")

// Container holds the committed snapshot. Reads never block on backend I/O;
// writes are serialized so reconciliation sees its own reduce.
type Container struct {
	mu      sync.RWMutex
	snap    Snapshot
	writeMu sync.Mutex
	backend *Backend
	sleep   func(context.Context, time.Duration) error
}

// New creates a container over initial data. backend may be nil for local-only mode.
func New(initial Snapshot, backend *Backend) *Container {
	return &Container{snap: initial.Clone(), backend: backend, sleep: sleepCtx}
}

// Connected reports whether writes reach a backend.
func (c *Container) Connected() bool {
	return c.backend != nil
}

// Backend exposes the stores for read paths that bypass the snapshot.
func (c *Container) Backend() *Backend {
	return c.backend
}

// Snapshot returns a private copy of the committed state.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Clone()
}

// View runs fn against the committed state without copying.
// fn must not retain or modify anything it is given.
func (c *Container) View(fn func(Snapshot)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.snap)
}

func (c *Container) commit(next Snapshot) {
	c.mu.Lock()
	c.snap = next
	c.mu.Unlock()
}

// Write applies m locally, persists it when connected and commits per m.OnFailure.
// PRE: m.Reduce is non-nil
// POST: on error nothing is committed; on success the new snapshot is visible to readers
func (c *Container) Write(ctx context.Context, m Mutation) (WriteResult, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	next := c.snap.Clone()
	c.mu.RUnlock()

	var result WriteResult
	if err := m.Reduce(&next); err != nil {
		return result, err
	}
	if m.inserted != nil {
		result.ID = *m.inserted
	}

	if c.backend == nil || m.Persist == nil {
		c.commit(next)
		return result, nil
	}

	reconcile, attempts, err := c.persist(ctx, m)
	result.Attempts = attempts
	if err != nil {
		slog.Warn("sync_failed", "command", m.Name, "attempts", attempts, "policy", m.OnFailure.String(), "error", err)
		if m.OnFailure == Rollback {
			return result, fmt.Errorf("%s: %w", m.Name, err)
		}
		result.SyncErr = err
		c.commit(next)
		return result, nil
	}

	result.Persisted = true
	if reconcile != nil {
		reconcile(&next)
	}
	if m.inserted != nil {
		result.ID = *m.inserted
	}
	c.commit(next)
	return result, nil
}

func (c *Container) persist(ctx context.Context, m Mutation) (Reconcile, int, error) {
	attempts := m.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for n := 1; n <= attempts; n++ {
		reconcile, err := m.Persist(ctx, c.backend)
		if err == nil {
			return reconcile, n, nil
		}
		lastErr = err
		if n == attempts || m.Retry.Retryable == nil || !m.Retry.Retryable(err) {
			return nil, n, err
		}
		slog.Info("sync_retry", "command", m.Name, "attempt", n, "error", err)
		if err := c.sleep(ctx, time.Duration(n)*m.Retry.Backoff); err != nil {
			return nil, n, err
		}
	}
	return nil, attempts, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
