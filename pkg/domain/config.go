package domain

import "sort"

// Transition is a rule moving the machine to Target when its event fires.
// A nil Guard means the transition is always allowed. Actions run in
// order; each synchronous partial is merged before the next action.
type Transition struct {
	Target  string
	Guard   Guard
	Actions []Action
}

// To builds the common case of an unguarded, action-less transition.
func To(target string) Transition {
	return Transition{Target: target}
}

// StateDef describes one state: its outgoing transitions keyed by event
// type, and optional entry/exit actions. Entry and exit actions are
// synchronous; their partials merge into the working context like the
// first and last transition actions.
type StateDef struct {
	On      map[string]Transition
	OnEnter ActionFunc
	OnExit  ActionFunc
}

// MachineConfig is the immutable definition of a machine. It is copied
// and validated once at construction; there is no way to swap or mutate
// it afterwards, and Reset always restores the snapshot derived from it
// at that moment.
type MachineConfig struct {
	// ID is an opaque label used in logs, metrics and exports.
	ID string

	// Initial names the starting state. Must be a key of States.
	Initial string

	// Context is the initial domain data.
	Context Context

	// States maps state names to their definitions.
	States map[string]StateDef

	// Debug enables per-dispatch decision logging.
	Debug bool
}

// Clone deep-copies the configuration structure. Guard and action
// functions are shared; the maps and context are not.
func (c MachineConfig) Clone() MachineConfig {
	out := c
	out.Context = c.Context.Clone()
	out.States = make(map[string]StateDef, len(c.States))
	for name, sd := range c.States {
		cp := sd
		cp.On = make(map[string]Transition, len(sd.On))
		for ev, tr := range sd.On {
			tcp := tr
			tcp.Actions = append([]Action(nil), tr.Actions...)
			cp.On[ev] = tcp
		}
		out.States[name] = cp
	}
	return out
}

// StateNames returns the state names in ascending order.
func (c MachineConfig) StateNames() []string {
	names := make([]string, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EventNames returns the sorted event types of one state's transitions.
func (s StateDef) EventNames() []string {
	names := make([]string, 0, len(s.On))
	for ev := range s.On {
		names = append(names, ev)
	}
	sort.Strings(names)
	return names
}
