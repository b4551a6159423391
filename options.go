package espalier

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Machine at construction.
type Option func(*Machine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithClock overrides the time source used for history timestamps.
// Useful for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) {
		m.clock = clock
	}
}

// WithObserver registers lifecycle callbacks, e.g. a metrics collector.
func WithObserver(obs Observer) Option {
	return func(m *Machine) {
		m.observer = obs
	}
}

// WithBaseContext sets the context.Context handed to asynchronous
// actions. Defaults to context.Background(); cancel it to ask
// long-running actions to stop.
func WithBaseContext(ctx context.Context) Option {
	return func(m *Machine) {
		m.baseCtx = ctx
	}
}

// Observer receives lifecycle notifications from a machine. Nil fields
// are skipped. Callbacks run outside the machine lock and must not
// block for long; they may call back into the machine.
type Observer struct {
	// OnTransition fires after each realized transition.
	OnTransition func(from, to, event string, at time.Time)

	// OnGuardRejected fires when a guard blocks a dispatch.
	OnGuardRejected func(state, event string)

	// OnStaleResultDropped fires when an async action's result arrives
	// after the machine has already moved on.
	OnStaleResultDropped func(state string)
}
