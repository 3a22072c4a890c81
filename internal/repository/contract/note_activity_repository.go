package contract

import (
	"context"

	"voice-notes-be/internal/entity"

	"github.com/google/uuid"
)

type NoteActivityRepository interface {
	Create(ctx context.Context, activity *entity.NoteActivity) error
	// ListByNote returns the activity of one note owned by userId, newest first.
	ListByNote(ctx context.Context, userId, noteId uuid.UUID) ([]*entity.NoteActivity, error)
}
