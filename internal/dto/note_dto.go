package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"notblank,max=255"`
	Content string `json:"content" validate:"notblank"`
}

type ListNotesRequest struct {
	Search string `query:"search"`
	Sort   string `query:"sort"`
}

// UpdateNoteRequest is a partial update; see OptionalString for absent vs null.
type UpdateNoteRequest struct {
	Title   OptionalString `json:"title"`
	Content OptionalString `json:"content"`
	Summary OptionalString `json:"summary"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeleteNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type NoteActivityResponse struct {
	Id         uuid.UUID              `json:"id"`
	NoteId     uuid.UUID              `json:"note_id"`
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
