package memory

import (
	"context"
	"sort"

	"voice-notes-be/internal/entity"

	"github.com/google/uuid"
)

type noteActivityRepository struct {
	store *Store
}

func (r *noteActivityRepository) Create(ctx context.Context, activity *entity.NoteActivity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if activity.Id == uuid.Nil {
		activity.Id = uuid.New()
	}
	stored := *activity
	r.store.activities = append(r.store.activities, &stored)
	return nil
}

func (r *noteActivityRepository) ListByNote(ctx context.Context, userId, noteId uuid.UUID) ([]*entity.NoteActivity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*entity.NoteActivity, 0)
	for i := len(r.store.activities) - 1; i >= 0; i-- {
		a := r.store.activities[i]
		if a.UserId == userId && a.NoteId == noteId {
			item := *a
			out = append(out, &item)
		}
	}
	// walked newest first, so equal timestamps keep the latest insert on top
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out, nil
}
