package domain

// Context holds the machine's variable state, distinct from its discrete
// state value. Keys are domain-defined; the engine never interprets them.
//
// Contexts are treated as immutable: every merge produces a fresh map so
// a snapshot handed to a caller can never change underneath it.
type Context map[string]any

// Clone returns a shallow copy. Values are shared; guards and actions
// must not mutate nested values in place.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new context with the partial applied on top of c.
// A nil partial contributes no changes.
func (c Context) Merge(partial Context) Context {
	out := c.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}
