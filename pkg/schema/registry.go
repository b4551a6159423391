package schema

import (
	"fmt"
	"sync"

	"github.com/espalierhq/espalier/pkg/domain"
)

// Registry holds the named guards and actions a definition may reference.
// Registering over an existing name overwrites it.
type Registry struct {
	mu      sync.RWMutex
	guards  map[string]domain.Guard
	actions map[string]domain.Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:  make(map[string]domain.Guard),
		actions: make(map[string]domain.Action),
	}
}

// RegisterGuard adds a named guard. Returns the registry for chaining.
func (r *Registry) RegisterGuard(name string, g domain.Guard) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = g
	return r
}

// RegisterAction adds a named action. Returns the registry for chaining.
func (r *Registry) RegisterAction(name string, a domain.Action) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = a
	return r
}

func (r *Registry) guard(name string) (domain.Guard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guards[name]
	return g, ok
}

func (r *Registry) action(name string) (domain.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Build resolves a definition against the registry into an executable
// configuration. Unknown guard or action names are errors; they would
// otherwise surface as silently missing behavior at dispatch time. A nil
// registry is accepted for definitions that reference no names.
func Build(def *Definition, reg *Registry) (domain.MachineConfig, error) {
	cfg := domain.MachineConfig{
		ID:      def.ID,
		Initial: def.Initial,
		Debug:   def.Debug,
		Context: domain.Context(def.Context),
		States:  make(map[string]domain.StateDef, len(def.States)),
	}

	resolveAction := func(where, name string) (domain.Action, error) {
		if name == "" {
			return nil, nil
		}
		if reg == nil {
			return nil, fmt.Errorf("%s references action %q but no registry was given", where, name)
		}
		a, ok := reg.action(name)
		if !ok {
			return nil, fmt.Errorf("%s references unknown action %q", where, name)
		}
		return a, nil
	}

	for name, ss := range def.States {
		sd := domain.StateDef{On: make(map[string]domain.Transition, len(ss.On))}

		if ss.OnEnter != "" {
			a, err := resolveAction(fmt.Sprintf("state %q onEnter", name), ss.OnEnter)
			if err != nil {
				return domain.MachineConfig{}, err
			}
			fn, ok := a.(domain.ActionFunc)
			if !ok {
				return domain.MachineConfig{}, fmt.Errorf("state %q onEnter %q must be a synchronous action", name, ss.OnEnter)
			}
			sd.OnEnter = fn
		}
		if ss.OnExit != "" {
			a, err := resolveAction(fmt.Sprintf("state %q onExit", name), ss.OnExit)
			if err != nil {
				return domain.MachineConfig{}, err
			}
			fn, ok := a.(domain.ActionFunc)
			if !ok {
				return domain.MachineConfig{}, fmt.Errorf("state %q onExit %q must be a synchronous action", name, ss.OnExit)
			}
			sd.OnExit = fn
		}

		for ev, ts := range ss.On {
			tr := domain.Transition{Target: ts.Target}
			if ts.Guard != "" {
				if reg == nil {
					return domain.MachineConfig{}, fmt.Errorf("state %q event %q references guard %q but no registry was given", name, ev, ts.Guard)
				}
				g, ok := reg.guard(ts.Guard)
				if !ok {
					return domain.MachineConfig{}, fmt.Errorf("state %q event %q references unknown guard %q", name, ev, ts.Guard)
				}
				tr.Guard = g
			}
			for _, actName := range ts.Actions {
				a, err := resolveAction(fmt.Sprintf("state %q event %q", name, ev), actName)
				if err != nil {
					return domain.MachineConfig{}, err
				}
				tr.Actions = append(tr.Actions, a)
			}
			sd.On[ev] = tr
		}
		cfg.States[name] = sd
	}
	return cfg, nil
}

// BuildStructural returns the configuration shape of a definition with
// all guard and action references dropped. It is enough for diagram
// export and graph validation, where only states and targets matter.
func BuildStructural(def *Definition) domain.MachineConfig {
	cfg := domain.MachineConfig{
		ID:      def.ID,
		Initial: def.Initial,
		Debug:   def.Debug,
		Context: domain.Context(def.Context),
		States:  make(map[string]domain.StateDef, len(def.States)),
	}
	for name, ss := range def.States {
		sd := domain.StateDef{On: make(map[string]domain.Transition, len(ss.On))}
		for ev, ts := range ss.On {
			tr := domain.Transition{Target: ts.Target}
			if ts.Guard != "" {
				// keep the guarded marker for diagrams without binding
				// any behavior
				tr.Guard = func(domain.Context, domain.Event) bool { return true }
			}
			sd.On[ev] = tr
		}
		cfg.States[name] = sd
	}
	return cfg
}
