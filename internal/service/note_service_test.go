package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/pkg/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, svc INoteService, owner uuid.UUID, title, content string) *dto.NoteResponse {
	t.Helper()
	note, err := svc.Create(context.Background(), owner, &dto.CreateNoteRequest{Title: title, Content: content})
	require.NoError(t, err)
	return note
}

func ids(notes []*dto.NoteResponse) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Id)
	}
	return out
}

func TestNoteService_CreateThenList(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	created := createNote(t, env.notes, owner, "Groceries", "milk, eggs")

	assert.Equal(t, owner, created.UserId)
	assert.Nil(t, created.Summary)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	notes, err := env.notes.List(context.Background(), owner, &dto.ListNotesRequest{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, "milk, eggs", notes[0].Content)
	assert.Nil(t, notes[0].Summary)
	assert.Equal(t, []string{"NOTE_CREATED"}, env.publisher.types())
}

func TestNoteService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  dto.CreateNoteRequest
	}{
		{name: "blank title", req: dto.CreateNoteRequest{Title: "  ", Content: "body"}},
		{name: "title too long", req: dto.CreateNoteRequest{Title: strings.Repeat("x", 256), Content: "body"}},
		{name: "blank content", req: dto.CreateNoteRequest{Title: "title", Content: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.notes.Create(context.Background(), uuid.New(), &tt.req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestNoteService_ListIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	alice, bob := uuid.New(), uuid.New()

	a1 := createNote(t, env.notes, alice, "one", "first")
	a2 := createNote(t, env.notes, alice, "two", "second")
	createNote(t, env.notes, bob, "three", "first")

	notes, err := env.notes.List(context.Background(), alice, &dto.ListNotesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a1.Id, a2.Id}, ids(notes))

	searched, err := env.notes.List(context.Background(), alice, &dto.ListNotesRequest{Search: "first"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a1.Id}, ids(searched))
}

func TestNoteService_ListSearchAndSort(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	weak := createNote(t, env.notes, owner, "Meeting", "we talked about the roadmap")
	strong := createNote(t, env.notes, owner, "Roadmap", "roadmap for q3")
	createNote(t, env.notes, owner, "Groceries", "milk")

	tests := []struct {
		name string
		req  dto.ListNotesRequest
		want []uuid.UUID
	}{
		{name: "relevance", req: dto.ListNotesRequest{Search: "roadmap"}, want: []uuid.UUID{strong.Id, weak.Id}},
		{name: "sort by date wins over relevance", req: dto.ListNotesRequest{Search: "roadmap", Sort: "date"}, want: []uuid.UUID{strong.Id, weak.Id}},
		{name: "no match", req: dto.ListNotesRequest{Search: "zebra"}, want: []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := env.notes.List(context.Background(), owner, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(notes))
		})
	}
}

func TestNoteService_ListSortByDateIsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	older := createNote(t, env.notes, owner, "Roadmap", "roadmap roadmap roadmap")
	newer := createNote(t, env.notes, owner, "Notes", "one roadmap mention")

	relevance, err := env.notes.List(context.Background(), owner, &dto.ListNotesRequest{Search: "roadmap"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older.Id, newer.Id}, ids(relevance))

	byDate, err := env.notes.List(context.Background(), owner, &dto.ListNotesRequest{Search: "roadmap", Sort: "DATE"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newer.Id, older.Id}, ids(byDate))
}

func TestNoteService_ListUnknownSort(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.notes.List(context.Background(), uuid.New(), &dto.ListNotesRequest{Sort: "title"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestNoteService_SearchMatchesSummaryOnlyTerm(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	env.summarizer.output = "Budget review for marketing"

	note := createNote(t, env.notes, owner, "Monday", "long rambling transcript")
	createNote(t, env.notes, owner, "Tuesday", "another transcript")

	_, err := env.notes.Summarize(context.Background(), owner, note.Id, "")
	require.NoError(t, err)

	notes, err := env.notes.List(context.Background(), owner, &dto.ListNotesRequest{Search: "budget"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{note.Id}, ids(notes))
}

func TestNoteService_Update(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "old")

	updated, err := env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Content: dto.Some("new")})
	require.NoError(t, err)

	assert.Equal(t, "Title", updated.Title)
	assert.Equal(t, "new", updated.Content)
	assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)

	shown, err := env.notes.Show(context.Background(), owner, note.Id)
	require.NoError(t, err)
	assert.Equal(t, updated, shown)
}

func TestNoteService_EmptyPatchRefreshesUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "body")

	touched, err := env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, note.Title, touched.Title)
	assert.True(t, touched.UpdatedAt.After(note.UpdatedAt))
}

func TestNoteService_UpdateSummaryTriState(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "body")

	withSummary, err := env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Summary: dto.Some("tl;dr")})
	require.NoError(t, err)
	require.NotNil(t, withSummary.Summary)
	assert.Equal(t, "tl;dr", *withSummary.Summary)

	untouched, err := env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Title: dto.Some("Renamed")})
	require.NoError(t, err)
	require.NotNil(t, untouched.Summary)
	assert.Equal(t, "Renamed", untouched.Title)

	cleared, err := env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Summary: dto.Null()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Summary)
}

func TestNoteService_UpdateErrors(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "body")

	tests := []struct {
		name  string
		owner uuid.UUID
		id    uuid.UUID
		req   dto.UpdateNoteRequest
		want  error
	}{
		{name: "null title", owner: owner, id: note.Id, req: dto.UpdateNoteRequest{Title: dto.Null()}, want: apperror.ErrValidation},
		{name: "title too long", owner: owner, id: note.Id, req: dto.UpdateNoteRequest{Title: dto.Some(strings.Repeat("x", 256))}, want: apperror.ErrValidation},
		{name: "blank content", owner: owner, id: note.Id, req: dto.UpdateNoteRequest{Content: dto.Some(" ")}, want: apperror.ErrValidation},
		{name: "unknown id", owner: owner, id: uuid.New(), req: dto.UpdateNoteRequest{Title: dto.Some("x")}, want: apperror.ErrNotFound},
		{name: "other owner", owner: uuid.New(), id: note.Id, req: dto.UpdateNoteRequest{Title: dto.Some("x")}, want: apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.notes.Update(context.Background(), tt.owner, tt.id, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	shown, err := env.notes.Show(context.Background(), owner, note.Id)
	require.NoError(t, err)
	assert.Equal(t, "Title", shown.Title)
}

func TestNoteService_ConcurrentUpdatesLastWriterWins(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "start")

	var wg sync.WaitGroup
	results := make([]*dto.NoteResponse, 2)
	errs := make([]error, 2)
	for i, content := range []string{"first writer", "second writer"} {
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			results[i], errs[i] = env.notes.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Content: dto.Some(content)})
		}(i, content)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0].UpdatedAt, results[1].UpdatedAt)

	last := results[0]
	if results[1].UpdatedAt.After(last.UpdatedAt) {
		last = results[1]
	}

	final, err := env.notes.Show(context.Background(), owner, note.Id)
	require.NoError(t, err)
	assert.Equal(t, last.Content, final.Content)
	assert.Contains(t, []string{"first writer", "second writer"}, final.Content)
}

func TestNoteService_DeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "body")

	require.NoError(t, env.notes.Delete(context.Background(), owner, note.Id))
	require.NoError(t, env.notes.Delete(context.Background(), owner, note.Id))

	notes, err := env.notes.List(context.Background(), owner, &dto.ListNotesRequest{})
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = env.notes.Show(context.Background(), owner, note.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, []string{"NOTE_CREATED", "NOTE_DELETED"}, env.publisher.types())
}

func TestNoteService_DeleteOtherOwnerKeepsNote(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Title", "body")

	require.NoError(t, env.notes.Delete(context.Background(), uuid.New(), note.Id))

	_, err := env.notes.Show(context.Background(), owner, note.Id)
	assert.NoError(t, err)
}

func TestNoteService_Summarize(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Standup", "we discussed the release")

	summarized, err := env.notes.Summarize(context.Background(), owner, note.Id, "")
	require.NoError(t, err)

	require.NotNil(t, summarized.Summary)
	assert.Equal(t, "a short summary", *summarized.Summary)
	assert.Equal(t, "we discussed the release", summarized.Content)
	assert.Equal(t, []string{"we discussed the release"}, env.summarizer.inputs)

	_, err = env.notes.Summarize(context.Background(), owner, note.Id, "explicit text")
	require.NoError(t, err)
	assert.Equal(t, "explicit text", env.summarizer.inputs[1])
}

func TestNoteService_MeetingScenario(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	note := createNote(t, env.notes, owner, "Meeting", "Discuss Q3 roadmap")

	summarized, err := env.notes.Summarize(context.Background(), owner, note.Id, "")
	require.NoError(t, err)

	require.NotNil(t, summarized.Summary)
	assert.NotEmpty(t, *summarized.Summary)
	assert.Equal(t, "Discuss Q3 roadmap", summarized.Content)
}

func TestNoteService_SummarizeFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeSummarizer)
		want  error
	}{
		{name: "provider error", setup: func(f *fakeSummarizer) { f.err = errors.New("status 500") }, want: apperror.ErrExternalService},
		{name: "empty output", setup: func(f *fakeSummarizer) { f.output = "  " }, want: apperror.ErrExternalService},
		{name: "deadline", setup: func(f *fakeSummarizer) { f.block = true }, want: apperror.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summarizer := &fakeSummarizer{output: "unused"}
			tt.setup(summarizer)
			env := newTestEnv(t)
			svc := NewNoteService(env.factory, env.publisher, summarizer, logger.NewNopLogger(), metrics.Nop{}, NoteServiceOptions{
				AITimeout: 20 * time.Millisecond,
			})
			owner := uuid.New()
			note := createNote(t, svc, owner, "Title", "body")

			_, err := svc.Summarize(context.Background(), owner, note.Id, "")
			assert.ErrorIs(t, err, tt.want)

			shown, err := svc.Show(context.Background(), owner, note.Id)
			require.NoError(t, err)
			assert.Nil(t, shown.Summary)
			assert.Equal(t, note.UpdatedAt, shown.UpdatedAt)
		})
	}
}

func TestNoteService_SummarizeChecksOwnershipFirst(t *testing.T) {
	env := newTestEnv(t)
	note := createNote(t, env.notes, uuid.New(), "Title", "body")

	_, err := env.notes.Summarize(context.Background(), uuid.New(), note.Id, "text")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, env.summarizer.inputs)
}

func TestNoteService_PublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("bus closed")

	_, err := env.notes.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{Title: "t", Content: "c"})
	assert.NoError(t, err)
}

func TestNoteService_ActivityTrail(t *testing.T) {
	env := newTestEnv(t)
	publisher := newPubSub(t, env.factory, nil)
	svc := NewNoteService(env.factory, publisher, env.summarizer, logger.NewNopLogger(), metrics.Nop{}, NoteServiceOptions{AITimeout: time.Second})
	owner := uuid.New()

	note := createNote(t, svc, owner, "Title", "body")
	_, err := svc.Update(context.Background(), owner, note.Id, &dto.UpdateNoteRequest{Title: dto.Some("New")})
	require.NoError(t, err)
	_, err = svc.Summarize(context.Background(), owner, note.Id, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), owner, note.Id))

	assert.Eventually(t, func() bool {
		items, err := svc.Activity(context.Background(), owner, note.Id)
		return err == nil && len(items) == 4
	}, time.Second, 10*time.Millisecond)

	items, err := svc.Activity(context.Background(), owner, note.Id)
	require.NoError(t, err)
	types := make([]string, 0, len(items))
	for _, it := range items {
		types = append(types, it.Type)
	}
	assert.ElementsMatch(t, []string{"NOTE_CREATED", "NOTE_UPDATED", "NOTE_SUMMARIZED", "NOTE_DELETED"}, types)
	assert.Equal(t, "NOTE_DELETED", types[0])

	others, err := svc.Activity(context.Background(), uuid.New(), note.Id)
	require.NoError(t, err)
	assert.Empty(t, others)
}
