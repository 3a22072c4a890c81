package contract

import (
	"context"
	"time"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// List applies owner scope, the optional full-text filter and the ordering rules of query.
	List(ctx context.Context, query entity.NoteQuery) ([]*entity.Note, error)

	// UpdateOwned applies patch in one statement and returns the stored row, or nil when no note of userId has id.
	// updated_at becomes max(now, previous updated_at + 1µs).
	UpdateOwned(ctx context.Context, userId, id uuid.UUID, patch entity.NotePatch, now time.Time) (*entity.Note, error)

	// DeleteOwned hard-deletes the note and reports whether a row was removed.
	DeleteOwned(ctx context.Context, userId, id uuid.UUID) (bool, error)
}
