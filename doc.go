/*
Package espalier is a small guarded finite-state-machine engine for
UI-style flows: chat message sending, recording toggles, action buttons,
multi-step edit dialogs.

A machine is built once from an immutable configuration and then driven
by events. Each dispatch evaluates at most one transition: the rule for
the event in the current state, gated by an optional pure guard, followed
by an ordered list of side-effecting actions that incrementally merge
partial updates into the machine's context. Every dispatch yields a new
immutable snapshot; the last twenty transitions are kept in a bounded
history ring that backs a one-step rollback.

	machine, err := espalier.New(domain.MachineConfig{
		ID:      "chat-message",
		Initial: "idle",
		Context: domain.Context{"messageText": ""},
		States: map[string]domain.StateDef{
			"idle": {On: map[string]domain.Transition{
				"SEND": domain.To("validating"),
			}},
			"validating": {On: map[string]domain.Transition{
				"VALIDATION_SUCCESS": {Target: "sending", Guard: hasContent},
			}},
			"sending": {},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	snap := machine.Send(domain.Event{Type: "SEND", Payload: body})

The configuration graph is validated completely at construction; a
transition targeting an unknown state is an error from New, never a
mid-dispatch surprise. Unmatched events and rejected guards are normal
no-ops, logged at debug level only.

Asynchronous actions run in their own goroutines and merge their results
out-of-band. Every in-flight action is tagged with the dispatch that
spawned it; if the machine has transitioned again (including GoBack and
Reset) before the action returns, the stale result is dropped instead of
corrupting an unrelated context. All mutations of a machine serialize
through one lock, so concurrent readers always observe complete
snapshots.

Debug and export helpers (ASCII and mermaid diagrams, history and
statistics reports, JSON dumps) live in pkg/export; declarative YAML
machine definitions in pkg/schema; snapshot persistence adapters in
pkg/adapters.
*/
package espalier
