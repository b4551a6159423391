package espalier_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalierhq/espalier"
	"github.com/espalierhq/espalier/pkg/domain"
)

type messageBody struct {
	Text   string
	Images []string
	Files  []string
}

// chatConfig models the chat-message sending flow: validation is
// guarded on the message having any content.
func chatConfig() domain.MachineConfig {
	hasContent := func(ctx domain.Context, _ domain.Event) bool {
		text, _ := ctx["messageText"].(string)
		images, _ := ctx["imageCount"].(int)
		files, _ := ctx["fileCount"].(int)
		return text != "" || images > 0 || files > 0
	}
	captureMessage := domain.ActionFunc(func(_ domain.Context, ev domain.Event) domain.Context {
		body, ok := ev.Payload.(messageBody)
		if !ok {
			return nil
		}
		return domain.Context{
			"messageText": body.Text,
			"imageCount":  len(body.Images),
			"fileCount":   len(body.Files),
		}
	})

	return domain.MachineConfig{
		ID:      "chat-message",
		Initial: "idle",
		Context: domain.Context{"messageText": ""},
		States: map[string]domain.StateDef{
			"idle": {On: map[string]domain.Transition{
				"SEND": {Target: "validating", Actions: []domain.Action{captureMessage}},
			}},
			"validating": {On: map[string]domain.Transition{
				"VALIDATION_SUCCESS": {Target: "sending", Guard: hasContent},
				"VALIDATION_FAILURE": domain.To("idle"),
			}},
			"sending": {On: map[string]domain.Transition{
				"SENT": domain.To("idle"),
			}},
		},
	}
}

func newTestClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := espalier.New(domain.MachineConfig{
		ID:      "broken",
		Initial: "idle",
		States: map[string]domain.StateDef{
			"idle": {On: map[string]domain.Transition{"GO": domain.To("ghost")}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `targets undefined state "ghost"`)
}

func TestMachine_ChatFlow(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	snap := m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "hello"}})
	assert.Equal(t, "validating", snap.Value)
	assert.Equal(t, "hello", snap.Context["messageText"])
	assert.Equal(t, "idle", snap.PreviousState)
	assert.True(t, snap.CanGoBack)

	snap = m.SendType("VALIDATION_SUCCESS")
	assert.Equal(t, "sending", snap.Value)
}

func TestMachine_ChatFlow_GuardBlocksEmptyMessage(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{}})
	require.True(t, m.Matches("validating"))

	before := m.Snapshot()
	after := m.SendType("VALIDATION_SUCCESS")

	assert.Equal(t, "validating", after.Value)
	assert.Equal(t, before.Context, after.Context)
	assert.Equal(t, before.History, after.History)
	assert.False(t, m.Can("VALIDATION_SUCCESS"))
}

func TestMachine_ButtonFlow(t *testing.T) {
	configured := func(ctx domain.Context, _ domain.Event) bool {
		text, _ := ctx["primaryButtonText"].(string)
		return text != ""
	}
	applyConfig := domain.ActionFunc(func(_ domain.Context, ev domain.Event) domain.Context {
		partial, _ := ev.Payload.(domain.Context)
		return partial
	})

	m, err := espalier.New(domain.MachineConfig{
		ID:      "action-buttons",
		Initial: "idle",
		States: map[string]domain.StateDef{
			"idle": {On: map[string]domain.Transition{
				"CLICK_PRIMARY": {Target: "processing", Guard: configured},
				"UPDATE_CONFIG": {Target: "idle", Actions: []domain.Action{applyConfig}},
			}},
			"processing": {On: map[string]domain.Transition{
				"DONE": domain.To("idle"),
			}},
		},
	})
	require.NoError(t, err)

	// unconfigured button: click is a no-op
	snap := m.SendType("CLICK_PRIMARY")
	assert.Equal(t, "idle", snap.Value)
	assert.Empty(t, snap.History)

	m.Send(domain.Event{Type: "UPDATE_CONFIG", Payload: domain.Context{"primaryButtonText": "Apply"}})

	snap = m.SendType("CLICK_PRIMARY")
	assert.Equal(t, "processing", snap.Value)
}

func TestMachine_UnmatchedEventIsNoop(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	before := m.Snapshot()
	after := m.SendType("UNKNOWN")

	assert.Equal(t, before, after)
	assert.Equal(t, before, m.Snapshot())
}

func TestMachine_HistoryCapAndOrdering(t *testing.T) {
	cfg := domain.MachineConfig{
		ID:      "pingpong",
		Initial: "a",
		States: map[string]domain.StateDef{
			"a": {On: map[string]domain.Transition{"PING": domain.To("b")}},
			"b": {On: map[string]domain.Transition{"PONG": domain.To("a")}},
		},
	}
	m, err := espalier.New(cfg,
		espalier.WithClock(newTestClock(time.Unix(1000, 0), time.Second)))
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		m.SendType("PING")
		m.SendType("PONG")
	}

	snap := m.Snapshot()
	require.Len(t, snap.History, domain.HistoryCap)
	for i := 1; i < len(snap.History); i++ {
		assert.True(t, snap.History[i].Timestamp.After(snap.History[i-1].Timestamp),
			"history must be chronologically ordered")
	}
	// newest entry is the final PONG
	last := snap.History[len(snap.History)-1]
	assert.Equal(t, "b", last.From)
	assert.Equal(t, "a", last.To)
	assert.Equal(t, "PONG", last.Event)
}

func TestMachine_Reset(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "hello"}})
	m.SendType("VALIDATION_SUCCESS")
	m.UpdateContext(domain.Context{"scratch": 42})

	snap := m.Reset()
	assert.Equal(t, "idle", snap.Value)
	assert.Equal(t, domain.Context{"messageText": ""}, snap.Context)
	assert.Empty(t, snap.History)
	assert.False(t, snap.CanGoBack)
	assert.Empty(t, snap.PreviousState)
}

func TestMachine_GoBack(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	t.Run("WithoutHistoryIsNoop", func(t *testing.T) {
		snap := m.GoBack()
		assert.Equal(t, "idle", snap.Value)
		assert.False(t, snap.CanGoBack)
	})

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "hello"}})
	m.SendType("VALIDATION_SUCCESS")

	t.Run("RestoresPreviousValueKeepsContext", func(t *testing.T) {
		snap := m.GoBack()
		assert.Equal(t, "validating", snap.Value)
		// rollback reverts the state value, not the data
		assert.Equal(t, "hello", snap.Context["messageText"])
		assert.Len(t, snap.History, 1)
		assert.Equal(t, "idle", snap.PreviousState)
		assert.True(t, snap.CanGoBack)
	})

	t.Run("SecondStepExhaustsHistory", func(t *testing.T) {
		snap := m.GoBack()
		assert.Equal(t, "idle", snap.Value)
		assert.Empty(t, snap.History)
		assert.False(t, snap.CanGoBack)
	})
}

func TestMachine_UpdateContext(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)
	m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "hi"}})

	var notified []domain.Snapshot
	cancel := m.Subscribe(func(s domain.Snapshot) { notified = append(notified, s) })
	defer cancel()

	snap := m.UpdateContext(domain.Context{"recordingSeconds": 3})

	assert.Equal(t, "validating", snap.Value, "value must not change")
	assert.Equal(t, 3, snap.Context["recordingSeconds"])
	assert.Len(t, snap.History, 1, "no history entry for out-of-band updates")
	require.Len(t, notified, 1)
	assert.Equal(t, snap, notified[0])
}

func TestMachine_CanAndAvailableEvents(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	assert.True(t, m.Can("SEND"))
	assert.False(t, m.Can("VALIDATION_SUCCESS"))
	assert.Equal(t, []string{"SEND"}, m.AvailableEvents())

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{}})

	// guard on VALIDATION_SUCCESS rejects the empty message
	assert.Equal(t, []string{"VALIDATION_FAILURE"}, m.AvailableEvents())

	m.UpdateContext(domain.Context{"messageText": "hi"})
	assert.Equal(t, []string{"VALIDATION_FAILURE", "VALIDATION_SUCCESS"}, m.AvailableEvents())
}

func TestMachine_SubscribeAndCancel(t *testing.T) {
	m, err := espalier.New(chatConfig())
	require.NoError(t, err)

	var count int
	cancel := m.Subscribe(func(domain.Snapshot) { count++ })

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "x"}})
	assert.Equal(t, 1, count)

	m.SendType("UNKNOWN") // no-op, no notification
	assert.Equal(t, 1, count)

	cancel()
	m.SendType("VALIDATION_SUCCESS")
	assert.Equal(t, 1, count)
}

func TestMachine_ConfigFrozenAtConstruction(t *testing.T) {
	cfg := chatConfig()
	m, err := espalier.New(cfg)
	require.NoError(t, err)

	// mutating the caller's maps after New must not affect the machine
	delete(cfg.States, "validating")
	cfg.Context["messageText"] = "tampered"

	snap := m.Send(domain.Event{Type: "SEND", Payload: messageBody{Text: "hello"}})
	assert.Equal(t, "validating", snap.Value)

	snap = m.Reset()
	assert.Equal(t, "", snap.Context["messageText"])
}

func TestMachine_ObserverCallbacks(t *testing.T) {
	var transitions, rejections int
	obs := espalier.Observer{
		OnTransition:    func(from, to, event string, at time.Time) { transitions++ },
		OnGuardRejected: func(state, event string) { rejections++ },
	}

	m, err := espalier.New(chatConfig(), espalier.WithObserver(obs))
	require.NoError(t, err)

	m.Send(domain.Event{Type: "SEND", Payload: messageBody{}})
	m.SendType("VALIDATION_SUCCESS") // guard rejects: empty message
	m.SendType("UNKNOWN")            // unmatched: neither callback

	assert.Equal(t, 1, transitions)
	assert.Equal(t, 1, rejections)
}
