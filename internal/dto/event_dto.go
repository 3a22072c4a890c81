package dto

import (
	"time"

	"github.com/google/uuid"
)

// NoteEventMessage travels on the in-process bus and is forwarded to NATS.
type NoteEventMessage struct {
	Type       string                 `json:"type"`
	NoteId     uuid.UUID              `json:"note_id"`
	UserId     uuid.UUID              `json:"user_id"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (m NoteEventMessage) EventType() string {
	return m.Type
}

func (m NoteEventMessage) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"note_id": m.NoteId.String(),
		"user_id": m.UserId.String(),
	}
	for k, v := range m.Data {
		payload[k] = v
	}
	return payload
}

func (m NoteEventMessage) Timestamp() time.Time {
	return m.OccurredAt
}
