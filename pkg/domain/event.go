package domain

// Event is a stimulus dispatched into a machine. Events are ephemeral:
// they are not retained after a dispatch except as the type string inside
// a history entry.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// E is shorthand for a payload-less event.
func E(eventType string) Event {
	return Event{Type: eventType}
}

// NewEventType returns a constructor for events of a fixed type, giving
// call sites a typed shorthand instead of hand-built literals:
//
//	sendClicked := domain.NewEventType("SEND")
//	machine.Send(sendClicked(body))
func NewEventType(eventType string) func(payload any) Event {
	return func(payload any) Event {
		return Event{Type: eventType, Payload: payload}
	}
}
