package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const envelopeVersion = 1

// Event is the JSON envelope written to every storefront topic. SessionID is
// also the message key, which keeps one client's events in order.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SessionID     string          `json:"session_id"`
	Subject       string          `json:"subject"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data for sessionID. subject names what changed ("cart",
// "order").
func NewEvent(eventType, sessionID, subject, source string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return &Event{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		SessionID:  sessionID,
		Subject:    subject,
		Version:    envelopeVersion,
		OccurredAt: time.Now().UTC(),
		Source:     source,
		Data:       raw,
	}, nil
}

// WithCorrelationID tags the event with the request that caused it.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Key is the partition key.
func (e *Event) Key() []byte {
	return []byte(e.SessionID)
}

func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
