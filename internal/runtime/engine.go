// Package runtime implements the transition algorithm of the espalier
// engine: given a validated configuration, a current (state, context)
// pair and an event, it computes the outcome of one dispatch. It holds
// no mutable state of its own; serialization of dispatches is the
// machine's job.
package runtime

import (
	"log/slog"

	"github.com/espalierhq/espalier/pkg/domain"
)

// NoopReason classifies why a dispatch left the machine unchanged.
type NoopReason int

const (
	// NoopNone means the dispatch took a transition.
	NoopNone NoopReason = iota
	// NoopUnmatched means the current state has no rule for the event.
	NoopUnmatched
	// NoopGuardRejected means the transition's guard returned false.
	NoopGuardRejected
)

// PendingAsync is an asynchronous action captured during a dispatch. The
// machine spawns it after installing the new snapshot and merges its
// result only while the tag still matches.
type PendingAsync struct {
	Run domain.AsyncActionFunc

	// Event is the event that fired the transition, passed through to
	// the action.
	Event domain.Event

	// Target is the state the spawning transition entered.
	Target string
}

// StepResult is the outcome of one dispatch attempt.
type StepResult struct {
	// Value and Context are the post-dispatch state. On a no-op they
	// alias the inputs.
	Value   string
	Context domain.Context

	// Took reports whether a transition fired.
	Took bool

	// Reason classifies a no-op.
	Reason NoopReason

	// Pending holds async actions to spawn, in declaration order.
	Pending []PendingAsync
}

// Step runs the transition algorithm for one event against a validated
// configuration. It never mutates its inputs: on success Context is a
// freshly merged map.
//
// Order of effects: exit action of the source state, then the
// transition's actions left to right, then the entry action of the
// target. Each synchronous partial is merged into the working context
// before the next action sees it. Asynchronous actions are collected,
// not run.
func Step(cfg domain.MachineConfig, value string, ctx domain.Context, ev domain.Event, logger *slog.Logger) StepResult {
	noop := StepResult{Value: value, Context: ctx, Took: false}

	state, ok := cfg.States[value]
	if !ok {
		// Unreachable after validation; kept for defence against a
		// hand-built snapshot.
		logger.Error("current state not in configuration", "machine", cfg.ID, "state", value)
		noop.Reason = NoopUnmatched
		return noop
	}

	tr, ok := state.On[ev.Type]
	if !ok {
		if cfg.Debug {
			logger.Debug("no transition for event", "machine", cfg.ID, "state", value, "event", ev.Type)
		}
		noop.Reason = NoopUnmatched
		return noop
	}

	if tr.Guard != nil && !tr.Guard(ctx, ev) {
		if cfg.Debug {
			logger.Debug("guard blocked transition", "machine", cfg.ID, "state", value, "event", ev.Type, "target", tr.Target)
		}
		noop.Reason = NoopGuardRejected
		return noop
	}

	target := cfg.States[tr.Target]

	working := ctx.Clone()
	if state.OnExit != nil {
		working = working.Merge(state.OnExit(working, ev))
	}

	var pending []PendingAsync
	for _, act := range tr.Actions {
		switch a := act.(type) {
		case domain.ActionFunc:
			working = working.Merge(a(working, ev))
		case domain.AsyncActionFunc:
			pending = append(pending, PendingAsync{Run: a, Event: ev, Target: tr.Target})
		}
	}

	if target.OnEnter != nil {
		working = working.Merge(target.OnEnter(working, ev))
	}

	if cfg.Debug {
		logger.Debug("transition", "machine", cfg.ID, "from", value, "to", tr.Target, "event", ev.Type)
	}

	return StepResult{
		Value:   tr.Target,
		Context: working,
		Took:    true,
		Pending: pending,
	}
}

// CanFire evaluates the lookup and guard steps of the algorithm without
// executing any action. It backs the Can and AvailableEvents queries.
func CanFire(cfg domain.MachineConfig, value string, ctx domain.Context, ev domain.Event) bool {
	state, ok := cfg.States[value]
	if !ok {
		return false
	}
	tr, ok := state.On[ev.Type]
	if !ok {
		return false
	}
	return tr.Guard == nil || tr.Guard(ctx, ev)
}
