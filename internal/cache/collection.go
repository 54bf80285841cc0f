// Package cache holds the last-known-good value for each server-derived
// collection (cart, wallet, orders) and lets a mutation temporarily overlay
// a speculative value that can be committed or rolled back.
//
// The cache is the only shared mutable resource in the storefront core. It
// is written exclusively through Seed, SetOptimistic, Commit and Rollback;
// handlers and services only ever read through Get or Subscribe.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrSnapshotHeld is returned when a snapshot is requested while another
	// in-flight mutation still holds one for the same collection.
	ErrSnapshotHeld = errors.New("snapshot already held for collection")
)

// Snapshot is an immutable copy of a collection's state taken before a
// speculative mutation. It is owned exclusively by the mutation that created
// it: discarded on commit, restored verbatim on rollback.
type Snapshot[T any] struct {
	value T
	token uint64
}

// Value returns the captured state.
func (s *Snapshot[T]) Value() T {
	return s.value
}

// Collection is the cached last-known-good value for one named collection.
//
// Mutations against a collection serialize through Begin: at most one holds
// an active snapshot at a time, and a new mutation first cancels any
// outstanding refresh for the collection. Every write bumps a version stamp;
// Rollback restores only when no later write has intervened, so a delayed
// rollback can never clobber a later legitimate change.
type Collection[T any] struct {
	name   string
	logger *slog.Logger

	// gate serializes mutation lifecycles (snapshot through commit/rollback).
	gate chan struct{}

	mu          sync.Mutex
	value       T
	version     uint64
	tokenSeq    uint64
	snapToken   uint64 // 0 when no snapshot is held
	snapApplied uint64 // version the owning mutation's optimistic write produced
	subs        map[int]func(T)
	nextSub     int

	refreshCancel context.CancelFunc
	sf            singleflight.Group
}

// New creates a collection seeded with the zero value of T.
func New[T any](name string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{
		name:   name,
		logger: logger,
		gate:   make(chan struct{}, 1),
		subs:   make(map[int]func(T)),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Get returns the current materialized value.
func (c *Collection[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Version returns the current write-version stamp.
func (c *Collection[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Seed replaces the value with an authoritative one (initial load or
// refresh) and notifies subscribers.
func (c *Collection[T]) Seed(value T) {
	c.mu.Lock()
	c.value = value
	c.version++
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
}

// Begin reserves the collection for one mutation lifecycle. It first cancels
// any outstanding refresh for the collection, then waits for the previous
// mutation (if any) to settle. Waiters acquire in call order.
//
// The returned release function must be called when the mutation ends; it
// discards an abandoned snapshot so a cancelled mutation cannot leave the
// collection locked.
func (c *Collection[T]) Begin(ctx context.Context) (func(), error) {
	c.CancelRefresh()

	select {
	case c.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			c.snapToken = 0
			c.mu.Unlock()
			<-c.gate
		})
	}
	return release, nil
}

// Snapshot captures the current value for the calling mutation. It fails if
// another in-flight mutation already holds a snapshot for this collection.
func (c *Collection[T]) Snapshot() (*Snapshot[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapToken != 0 {
		return nil, ErrSnapshotHeld
	}

	c.tokenSeq++
	c.snapToken = c.tokenSeq
	c.snapApplied = c.version
	return &Snapshot[T]{value: c.value, token: c.tokenSeq}, nil
}

// SetOptimistic overlays the speculative value produced by updater and
// notifies subscribers synchronously.
func (c *Collection[T]) SetOptimistic(updater func(T) T) {
	c.mu.Lock()
	c.value = updater(c.value)
	c.version++
	c.snapApplied = c.version
	value := c.value
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
}

// Commit replaces the optimistic value with the authoritative server value
// and discards the snapshot. A commit whose snapshot was already discarded
// (cancelled mutation) is a no-op.
func (c *Collection[T]) Commit(snap *Snapshot[T], serverValue T) {
	c.mu.Lock()
	if snap == nil || c.snapToken != snap.token {
		c.mu.Unlock()
		return
	}
	c.snapToken = 0
	c.value = serverValue
	c.version++
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, serverValue)
}

// CommitCurrent keeps the optimistic value as final and discards the
// snapshot. Used when the server acknowledges without returning a usable
// value.
func (c *Collection[T]) CommitCurrent(snap *Snapshot[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap == nil || c.snapToken != snap.token {
		return
	}
	c.snapToken = 0
}

// Rollback restores the collection to the snapshot's value and discards it.
// The restore applies only when the collection's version still matches the
// owning mutation's last write; if a later write has landed, the rollback
// discards its snapshot without touching the value. Last writer by intent
// order wins.
func (c *Collection[T]) Rollback(snap *Snapshot[T]) {
	c.mu.Lock()
	if snap == nil || c.snapToken != snap.token {
		c.mu.Unlock()
		return
	}
	c.snapToken = 0

	if c.version != c.snapApplied {
		c.logger.Warn("discarding stale rollback, a later write won",
			"collection", c.name, "version", c.version, "expected", c.snapApplied)
		c.mu.Unlock()
		return
	}

	c.value = snap.value
	c.version++
	value := c.value
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
}

// Subscribe registers fn to be called with the new value after every write.
// Returns an unsubscribe function.
func (c *Collection[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber set; callers notify outside the lock so
// a subscriber may read the collection without deadlocking.
func (c *Collection[T]) snapshotSubs() []func(T) {
	subs := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify[T any](subs []func(T), value T) {
	for _, fn := range subs {
		fn(value)
	}
}
