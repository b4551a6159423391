package domain

import "context"

// Action is a side effect run during a transition. Implementations return
// a partial context update to merge, or nil for no change.
//
// Two kinds exist: ActionFunc runs inline during the dispatch, its partial
// merged before the next action in the list; AsyncActionFunc runs in its
// own goroutine after the dispatch completes, its partial merged
// out-of-band once it returns. The interface is sealed so the runtime can
// switch exhaustively.
type Action interface {
	isAction()
}

// ActionFunc is a synchronous action. The partial it returns is merged
// into the working context immediately, before the next action runs.
type ActionFunc func(ctx Context, ev Event) Context

func (ActionFunc) isAction() {}

// AsyncActionFunc is an asynchronous action. It receives the working
// context as of the dispatch that spawned it, runs concurrently with later
// dispatches, and its result is merged only if the machine has not
// transitioned again in the meantime; stale results are dropped.
//
// The context.Context is the machine's base context; long-running actions
// should honor its cancellation.
type AsyncActionFunc func(ctx context.Context, mctx Context, ev Event) Context

func (AsyncActionFunc) isAction() {}

// Sync wraps a plain function as a synchronous Action.
func Sync(fn func(ctx Context, ev Event) Context) Action {
	return ActionFunc(fn)
}

// Async wraps a plain function as an asynchronous Action.
func Async(fn func(ctx context.Context, mctx Context, ev Event) Context) Action {
	return AsyncActionFunc(fn)
}

// Assign returns a synchronous action that merges a fixed partial,
// regardless of event or current context.
func Assign(partial Context) Action {
	return ActionFunc(func(Context, Event) Context {
		return partial
	})
}
