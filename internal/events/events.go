package events

import "context"

// Stream carrying all quality-audit domain events.
const StreamNC = "events:nc"

// Event types
const (
	EventAuditCreated    = "audit_created"
	EventNCCreated       = "nc_created"
	EventNCStatusChanged = "nc_status_changed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
