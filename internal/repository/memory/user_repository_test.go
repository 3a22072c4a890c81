package memory

import (
	"context"
	"testing"
	"time"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	user := &entity.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.Id)

	found, err := repo.FindOne(ctx, specification.ByEmail{Email: "ANA@example.com"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.Id, found.Id)

	err = repo.Create(ctx, &entity.User{Username: "ana2", Email: "ana@example.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := repo.Count(ctx, specification.ByEmail{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNoteActivityRepository_ListByNoteNewestFirst(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)
	repo := uow.NoteActivityRepository()
	owner, noteId := uuid.New(), uuid.New()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.NoteActivity{NoteId: noteId, UserId: owner, Type: entity.NoteActivityCreated, OccurredAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.NoteActivity{NoteId: noteId, UserId: owner, Type: entity.NoteActivityUpdated, OccurredAt: base.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &entity.NoteActivity{NoteId: noteId, UserId: uuid.New(), Type: entity.NoteActivityDeleted, OccurredAt: base}))

	items, err := repo.ListByNote(ctx, owner, noteId)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entity.NoteActivityUpdated, items[0].Type)
	assert.Equal(t, entity.NoteActivityCreated, items[1].Type)
}
