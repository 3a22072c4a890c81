package memory

import (
	"context"
	"sort"
	"time"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/specification"
	"voice-notes-be/pkg/search"

	"github.com/google/uuid"
)

type noteRepository struct {
	store *Store
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}
	r.store.seq++
	r.store.notes[note.Id] = &noteRecord{note: *copyNote(*note), seq: r.store.seq}
	return nil
}

func (f filter) matchNote(n *entity.Note) bool {
	if f.id != nil && n.Id != *f.id {
		return false
	}
	if f.userId != nil && n.UserId != *f.userId {
		return false
	}
	return f.email == nil
}

func (r *noteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	f, err := toFilter(specs)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.sortedBySeq() {
		if f.matchNote(&rec.note) {
			return copyNote(rec.note), nil
		}
	}
	return nil, nil
}

func (r *noteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f, err := toFilter(specs)
	if err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, rec := range r.store.notes {
		if f.matchNote(&rec.note) {
			count++
		}
	}
	return count, nil
}

type scoredNote struct {
	rec   *noteRecord
	score float64
}

func (r *noteRepository) List(ctx context.Context, q entity.NoteQuery) ([]*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var query search.Query
	if q.Search != "" {
		query = search.NewQuery(q.Search)
	}

	matches := make([]scoredNote, 0)
	for _, rec := range r.sortedBySeq() {
		if rec.note.UserId != q.UserId {
			continue
		}
		if q.Search == "" {
			matches = append(matches, scoredNote{rec: rec})
			continue
		}

		summary := ""
		if rec.note.Summary != nil {
			summary = *rec.note.Summary
		}
		score := query.Score(
			search.Field{Text: rec.note.Title, Weight: search.WeightTitle},
			search.Field{Text: rec.note.Content, Weight: search.WeightContent},
			search.Field{Text: summary, Weight: search.WeightSummary},
		)
		if score > 0 && score > q.RelevanceFloor {
			matches = append(matches, scoredNote{rec: rec, score: score})
		}
	}

	switch {
	case q.Sort == entity.NoteSortDate:
		sort.SliceStable(matches, func(i, j int) bool {
			return newer(matches[i].rec, matches[j].rec)
		})
	case q.Search != "":
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].score != matches[j].score {
				return matches[i].score > matches[j].score
			}
			return newer(matches[i].rec, matches[j].rec)
		})
	}

	notes := make([]*entity.Note, len(matches))
	for i, m := range matches {
		notes[i] = copyNote(m.rec.note)
	}
	return notes, nil
}

func (r *noteRepository) UpdateOwned(ctx context.Context, userId, id uuid.UUID, patch entity.NotePatch, now time.Time) (*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.notes[id]
	if !ok || rec.note.UserId != userId {
		return nil, nil
	}

	if patch.Title != nil {
		rec.note.Title = *patch.Title
	}
	if patch.Content != nil {
		rec.note.Content = *patch.Content
	}
	if patch.ClearSummary {
		rec.note.Summary = nil
	} else if patch.Summary != nil {
		s := *patch.Summary
		rec.note.Summary = &s
	}

	floor := rec.note.UpdatedAt.Add(time.Microsecond)
	if now.After(floor) {
		rec.note.UpdatedAt = now
	} else {
		rec.note.UpdatedAt = floor
	}

	return copyNote(rec.note), nil
}

func (r *noteRepository) DeleteOwned(ctx context.Context, userId, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.notes[id]
	if !ok || rec.note.UserId != userId {
		return false, nil
	}
	delete(r.store.notes, id)
	return true, nil
}

// sortedBySeq returns records in insertion order. Caller holds the lock.
func (r *noteRepository) sortedBySeq() []*noteRecord {
	recs := make([]*noteRecord, 0, len(r.store.notes))
	for _, rec := range r.store.notes {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	return recs
}

func newer(a, b *noteRecord) bool {
	if !a.note.CreatedAt.Equal(b.note.CreatedAt) {
		return a.note.CreatedAt.After(b.note.CreatedAt)
	}
	return a.seq > b.seq
}
