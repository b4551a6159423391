package domain

// Guard decides whether a transition is allowed. Guards must be pure:
// they are evaluated both during dispatch and by the read-only Can query,
// so a side-effecting guard would fire unpredictably often.
type Guard func(ctx Context, ev Event) bool

// And combines guards so that all must pass. With no arguments it always
// passes, matching the semantics of an absent guard.
func And(guards ...Guard) Guard {
	return func(ctx Context, ev Event) bool {
		for _, g := range guards {
			if !g(ctx, ev) {
				return false
			}
		}
		return true
	}
}

// Or combines guards so that at least one must pass.
func Or(guards ...Guard) Guard {
	return func(ctx Context, ev Event) bool {
		for _, g := range guards {
			if g(ctx, ev) {
				return true
			}
		}
		return false
	}
}

// Not inverts a guard.
func Not(guard Guard) Guard {
	return func(ctx Context, ev Event) bool {
		return !guard(ctx, ev)
	}
}
