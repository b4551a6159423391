package espalier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/espalierhq/espalier/internal/logging"
	"github.com/espalierhq/espalier/internal/runtime"
	"github.com/espalierhq/espalier/pkg/domain"
)

// Machine is a runtime FSM instance. All mutations (dispatches, context
// updates, rollback, reset and async-action completions) serialize
// through one lock, so snapshots are always complete and dispatch order
// is deterministic. A Machine is safe for concurrent use, though the
// usual pattern is a single owning host.
type Machine struct {
	cfg     domain.MachineConfig
	logger  *slog.Logger
	clock   func() time.Time
	baseCtx context.Context

	observer Observer

	mu      sync.Mutex
	current domain.Snapshot
	ring    domain.History
	initial domain.Snapshot

	// epoch counts state-value changes. Async results carry the epoch of
	// the dispatch that spawned them and are dropped on mismatch.
	epoch uint64

	subs    map[int]func(domain.Snapshot)
	nextSub int

	wg sync.WaitGroup
}

// New validates the configuration and builds a machine positioned at the
// initial state. The configuration is deep-copied; later mutation of the
// caller's maps has no effect, and Reset always restores the snapshot
// frozen here.
func New(cfg domain.MachineConfig, opts ...Option) (*Machine, error) {
	if err := runtime.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	cfg = cfg.Clone()
	if cfg.Context == nil {
		cfg.Context = domain.Context{}
	}

	m := &Machine{
		cfg:     cfg,
		logger:  logging.NewNop(),
		clock:   time.Now,
		baseCtx: context.Background(),
		subs:    make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initial = domain.Snapshot{
		Value:   cfg.Initial,
		Context: cfg.Context.Clone(),
		History: []domain.HistoryEntry{},
	}
	m.current = m.initial.Clone()
	return m, nil
}

// Send dispatches an event. It returns the resulting snapshot, which is
// the unchanged current snapshot when the event is unmatched or its
// guard rejects.
func (m *Machine) Send(ev domain.Event) domain.Snapshot {
	if ev.Type == "" {
		m.logger.Debug("ignoring event with empty type", "machine", m.cfg.ID)
		return m.Snapshot()
	}

	m.mu.Lock()
	res := runtime.Step(m.cfg, m.current.Value, m.current.Context, ev, m.logger)
	if !res.Took {
		snap := m.current.Clone()
		rejected := res.Reason == runtime.NoopGuardRejected
		state := m.current.Value
		m.mu.Unlock()
		if rejected && m.observer.OnGuardRejected != nil {
			m.observer.OnGuardRejected(state, ev.Type)
		}
		return snap
	}

	now := m.clock()
	from := m.current.Value
	m.ring.Append(domain.HistoryEntry{From: from, To: res.Value, Event: ev.Type, Timestamp: now})
	m.epoch++
	epoch := m.epoch
	m.current = domain.Snapshot{
		Value:         res.Value,
		Context:       res.Context,
		History:       m.ring.Entries(),
		PreviousState: from,
		CanGoBack:     true,
	}
	snap := m.current.Clone()
	subs := m.subscribers()
	m.mu.Unlock()

	if m.observer.OnTransition != nil {
		m.observer.OnTransition(from, res.Value, ev.Type, now)
	}
	notify(subs, snap)

	for _, p := range res.Pending {
		m.wg.Add(1)
		go m.runAsync(p, res.Context.Clone(), epoch)
	}
	return snap
}

// SendType is shorthand for Send with a payload-less event.
func (m *Machine) SendType(eventType string) domain.Snapshot {
	return m.Send(domain.E(eventType))
}

// runAsync executes one asynchronous action and merges its partial
// result unless the machine has transitioned again in the meantime.
func (m *Machine) runAsync(p runtime.PendingAsync, ctx domain.Context, epoch uint64) {
	defer m.wg.Done()

	partial := p.Run(m.baseCtx, ctx, p.Event)
	if partial == nil {
		return
	}

	m.mu.Lock()
	if m.epoch != epoch {
		state := m.current.Value
		m.mu.Unlock()
		m.logger.Debug("dropping stale async action result",
			"machine", m.cfg.ID, "spawnedIn", p.Target, "currentState", state, "event", p.Event.Type)
		if m.observer.OnStaleResultDropped != nil {
			m.observer.OnStaleResultDropped(p.Target)
		}
		return
	}
	m.current.Context = m.current.Context.Merge(partial)
	snap := m.current.Clone()
	subs := m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
}

// Can reports whether dispatching the event type now would take a
// transition. It evaluates the guard but runs no actions.
func (m *Machine) Can(eventType string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return runtime.CanFire(m.cfg, m.current.Value, m.current.Context, domain.E(eventType))
}

// AvailableEvents returns the event types that would currently be
// accepted, in ascending order.
func (m *Machine) AvailableEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.cfg.States[m.current.Value]
	var out []string
	for _, ev := range state.EventNames() {
		if runtime.CanFire(m.cfg, m.current.Value, m.current.Context, domain.E(ev)) {
			out = append(out, ev)
		}
	}
	return out
}

// UpdateContext merges a partial into the context without changing the
// state value, running any guard or action, or touching history. Meant
// for out-of-band bookkeeping such as live timer ticks that should not
// count as logical transitions.
func (m *Machine) UpdateContext(partial domain.Context) domain.Snapshot {
	m.mu.Lock()
	m.current.Context = m.current.Context.Merge(partial)
	snap := m.current.Clone()
	subs := m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
	return snap
}

// GoBack reverts the state value to the previous state, popping the most
// recent history entry. The context keeps its forward-accumulated data:
// rollback affects where the machine is, not what it knows. Only one
// step of rollback is defined; with no history GoBack is a no-op.
func (m *Machine) GoBack() domain.Snapshot {
	m.mu.Lock()
	if !m.current.CanGoBack {
		snap := m.current.Clone()
		m.mu.Unlock()
		return snap
	}

	m.ring.DropLast()
	m.epoch++
	target := m.current.PreviousState

	prev := ""
	if last, ok := m.ring.Last(); ok {
		prev = last.From
	}
	m.current = domain.Snapshot{
		Value:         target,
		Context:       m.current.Context,
		History:       m.ring.Entries(),
		PreviousState: prev,
		CanGoBack:     m.ring.Len() > 0,
	}
	snap := m.current.Clone()
	subs := m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
	return snap
}

// Matches reports whether the current state value equals name.
func (m *Machine) Matches(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Value == name
}

// Reset discards all history and context mutation, restoring exactly the
// snapshot frozen at construction. In-flight async actions are not
// cancelled, but their results will be dropped as stale.
func (m *Machine) Reset() domain.Snapshot {
	m.mu.Lock()
	m.ring.Reset()
	m.epoch++
	m.current = m.initial.Clone()
	snap := m.current.Clone()
	subs := m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
	return snap
}

// Snapshot returns a copy of the current snapshot.
func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Config returns a copy of the machine's configuration, for export and
// introspection tooling.
func (m *Machine) Config() domain.MachineConfig {
	return m.cfg.Clone()
}

// ID returns the machine's configured label.
func (m *Machine) ID() string {
	return m.cfg.ID
}

// Subscribe registers fn to receive every new snapshot. The returned
// cancel function removes the subscription.
func (m *Machine) Subscribe(fn func(domain.Snapshot)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Wait blocks until all spawned async actions have completed. Mainly for
// tests and orderly shutdown.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// subscribers snapshots the subscriber list; callers must hold the lock.
func (m *Machine) subscribers() []func(domain.Snapshot) {
	out := make([]func(domain.Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(domain.Snapshot), snap domain.Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
