package cache

import "context"

// Refresh fetches an authoritative value and seeds the collection with it.
// Concurrent refreshes of the same collection are deduplicated via
// singleflight. A refresh cancelled by a starting mutation (Begin calls
// CancelRefresh) does not seed; the optimistic value in play stays put.
func (c *Collection[T]) Refresh(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	rctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.refreshCancel = cancel
	c.mu.Unlock()

	v, err, _ := c.sf.Do(c.name, func() (interface{}, error) {
		return fetch(rctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value := v.(T)

	if rctx.Err() != nil {
		var zero T
		return zero, rctx.Err()
	}

	// Never seed over an in-flight mutation's optimistic value. The check
	// and the write share one lock hold so a mutation starting between them
	// cannot be overwritten.
	c.mu.Lock()
	if c.snapToken != 0 {
		c.mu.Unlock()
		return value, nil
	}
	c.value = value
	c.version++
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, value)
	return value, nil
}

// CancelRefresh cancels any outstanding refresh for the collection.
// A mutation's first action before taking its snapshot.
func (c *Collection[T]) CancelRefresh() {
	c.mu.Lock()
	cancel := c.refreshCancel
	c.refreshCancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
