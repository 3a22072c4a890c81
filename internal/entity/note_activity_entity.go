package entity

import (
	"time"

	"github.com/google/uuid"
)

type NoteActivityType string

const (
	NoteActivityCreated     NoteActivityType = "NOTE_CREATED"
	NoteActivityUpdated     NoteActivityType = "NOTE_UPDATED"
	NoteActivityDeleted     NoteActivityType = "NOTE_DELETED"
	NoteActivitySummarized  NoteActivityType = "NOTE_SUMMARIZED"
	NoteActivityTranscribed NoteActivityType = "NOTE_TRANSCRIBED"
)

// NoteActivity is an audit entry; it outlives the note it refers to.
type NoteActivity struct {
	Id         uuid.UUID
	NoteId     uuid.UUID
	UserId     uuid.UUID
	Type       NoteActivityType
	Payload    map[string]interface{}
	OccurredAt time.Time
}
