// Package mutation sequences an optimistic mutation's lifecycle against one
// cached collection: begin, optimistic apply, server call, commit or
// rollback. The lifecycle is an explicit state machine independent of any UI
// framework; "concurrent" mutations are outstanding asynchronous tasks
// interleaved on the caller's goroutines, serialized per collection by the
// cache gate.
package mutation

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cache"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/notify"
	"github.com/dukerupert/sindri/internal/session"
	"github.com/dukerupert/sindri/internal/telemetry"
)

// State is the lifecycle state of one mutation instance.
type State string

const (
	StateIdle       State = "idle"
	StateOptimistic State = "optimistic"
	StateInFlight   State = "in_flight"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// Terminal reports whether the state is committed or rolled back.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// Redirector sends the user to an external path, e.g. the login page after
// authentication expiry.
type Redirector func(path string)

// Coordinator holds the collaborators shared by every mutation: the
// notification sink, session provider for logout on auth expiry, the login
// redirect, metrics and logging. Collections are passed per mutation.
type Coordinator struct {
	notifier  notify.Notifier
	sessions  session.Provider
	redirect  Redirector
	loginPath string
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// NewCoordinator creates a mutation coordinator. metrics may be nil.
func NewCoordinator(
	notifier notify.Notifier,
	sessions session.Provider,
	redirect Redirector,
	loginPath string,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Coordinator {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Coordinator{
		notifier:  notifier,
		sessions:  sessions,
		redirect:  redirect,
		loginPath: loginPath,
		metrics:   metrics,
		logger:    logger,
	}
}

// Mutation describes one speculative change against a collection.
type Mutation[T any] struct {
	// Name identifies the mutation for logs and metrics,
	// e.g. "cart.update_quantity".
	Name string

	// Precheck runs local validation before any state transition. A
	// non-nil error rejects the mutation: no snapshot, no optimistic
	// write, no request, one error notification.
	Precheck func() error

	// Apply produces the speculative value from the current one.
	Apply func(T) T

	// Call issues the request to the upstream API. The returned bool is
	// false when the server acknowledged without a usable value, in which
	// case the optimistic value is kept as final.
	Call func(ctx context.Context) (T, bool, error)

	// Success is the single terminal notification emitted on commit.
	Success notify.Notification
}

// Run drives one mutation through its lifecycle and returns the terminal
// state. Exactly one user-visible notification is emitted per invocation,
// except for cancellation, which is a silent no-op: a cancelled mutation
// neither commits nor rolls back.
func Run[T any](ctx context.Context, c *Coordinator, col *cache.Collection[T], m Mutation[T]) (State, error) {
	started := time.Now()

	if m.Precheck != nil {
		if err := m.Precheck(); err != nil {
			c.logger.Debug("mutation rejected by local validation",
				"collection", col.Name(), "mutation", m.Name, "error", err)
			c.countRejected(col.Name(), m.Name)
			c.notifier.Notify(notify.Notification{
				Title:       "Cannot complete request",
				Description: domain.ErrorMessage(err),
				Variant:     notify.VariantError,
			})
			return StateIdle, err
		}
	}

	// idle -> optimistic. Begin cancels outstanding reads for the
	// collection and waits for the prior mutation to settle, so this
	// snapshot captures the pre-mutation value at the moment this
	// mutation starts, never another mutation's optimistic overlay.
	release, err := col.Begin(ctx)
	if err != nil {
		return StateIdle, err
	}
	defer release()

	snap, err := col.Snapshot()
	if err != nil {
		c.logger.Error("snapshot unavailable", "collection", col.Name(), "mutation", m.Name, "error", err)
		c.notifier.Notify(notify.Notification{
			Title:       "Please try again",
			Description: "Another change is still being saved.",
			Variant:     notify.VariantError,
		})
		return StateIdle, err
	}

	col.SetOptimistic(m.Apply)
	c.countStarted(col.Name(), m.Name)

	// optimistic -> in_flight.
	value, usable, callErr := m.Call(ctx)

	if ctx.Err() != nil {
		// Cancelled mid-flight: neither commit nor rollback. The release
		// above discards the snapshot so later mutations are not blocked.
		c.logger.Debug("mutation cancelled", "collection", col.Name(), "mutation", m.Name)
		return StateInFlight, ctx.Err()
	}

	if callErr != nil {
		// in_flight -> rolled_back.
		col.Rollback(snap)
		c.countRolledBack(col.Name(), m.Name)
		c.observe(col.Name(), m.Name, started)
		c.fail(col.Name(), m.Name, callErr)
		return StateRolledBack, callErr
	}

	// in_flight -> committed.
	if usable {
		col.Commit(snap, value)
	} else {
		col.CommitCurrent(snap)
	}
	c.countCommitted(col.Name(), m.Name)
	c.observe(col.Name(), m.Name, started)
	c.notifier.Notify(m.Success)

	return StateCommitted, nil
}

// fail emits the single error notification for a rolled-back mutation,
// checking authentication expiry before generic handling.
func (c *Coordinator) fail(collection, name string, err error) {
	if api.IsAuthExpired(err) {
		c.logger.Warn("authentication expired during mutation",
			"collection", collection, "mutation", name)
		c.notifier.Notify(notify.Notification{
			Title:       "Session expired",
			Description: "Please sign in again to continue.",
			Variant:     notify.VariantError,
		})
		if c.sessions != nil {
			c.sessions.Logout()
		}
		if c.redirect != nil {
			c.redirect(c.loginPath)
		}
		return
	}

	description := "Could not connect to the server. Please try again."
	if apiErr := api.StatusError(err); apiErr != nil {
		if apiErr.Message != "" {
			description = apiErr.Message
		} else {
			description = "The server rejected the request. Please try again."
		}
	}

	c.logger.Error("mutation rolled back",
		"collection", collection, "mutation", name, "error", err)
	c.notifier.Notify(notify.Notification{
		Title:       "Request failed",
		Description: description,
		Variant:     notify.VariantError,
	})
}

func (c *Coordinator) countStarted(collection, name string) {
	if c.metrics != nil {
		c.metrics.MutationsStarted.WithLabelValues(collection, name).Inc()
	}
}

func (c *Coordinator) countCommitted(collection, name string) {
	if c.metrics != nil {
		c.metrics.MutationsCommitted.WithLabelValues(collection, name).Inc()
	}
}

func (c *Coordinator) countRolledBack(collection, name string) {
	if c.metrics != nil {
		c.metrics.MutationsRolledBack.WithLabelValues(collection, name).Inc()
	}
}

func (c *Coordinator) countRejected(collection, name string) {
	if c.metrics != nil {
		c.metrics.MutationsRejected.WithLabelValues(collection, name).Inc()
	}
}

func (c *Coordinator) observe(collection, name string, started time.Time) {
	if c.metrics != nil {
		c.metrics.MutationDuration.WithLabelValues(collection, name).Observe(time.Since(started).Seconds())
	}
}
