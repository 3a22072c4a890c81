package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Requires a database migrated with cmd/migrate.
func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	return gormDB
}

func TestNoteRepository_Postgres(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	repo := uow.NoteRepository()

	owner := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	notes := []*entity.Note{
		{Id: uuid.New(), UserId: owner, Title: "Roadmap", Content: "roadmap review", CreatedAt: now, UpdatedAt: now},
		{Id: uuid.New(), UserId: owner, Title: "Lunch", Content: "mention the roadmap once", CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)},
		{Id: uuid.New(), UserId: owner, Title: "Groceries", Content: "milk", CreatedAt: now.Add(2 * time.Second), UpdatedAt: now.Add(2 * time.Second)},
	}
	for _, n := range notes {
		require.NoError(t, repo.Create(ctx, n))
	}
	t.Cleanup(func() {
		for _, n := range notes {
			_, _ = repo.DeleteOwned(ctx, owner, n.Id)
		}
	})

	t.Run("list without search is oldest first", func(t *testing.T) {
		got, err := repo.List(ctx, entity.NoteQuery{UserId: owner})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, notes[0].Id, got[0].Id)
	})

	t.Run("search ranks title matches first", func(t *testing.T) {
		got, err := repo.List(ctx, entity.NoteQuery{UserId: owner, Search: "roadmaps"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, notes[0].Id, got[0].Id)
	})

	t.Run("sort by date overrides relevance", func(t *testing.T) {
		got, err := repo.List(ctx, entity.NoteQuery{UserId: owner, Search: "roadmap", Sort: entity.NoteSortDate})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, notes[1].Id, got[0].Id)
	})

	t.Run("update bumps updated_at even with a stale clock", func(t *testing.T) {
		title := "Renamed"
		updated, err := repo.UpdateOwned(ctx, owner, notes[2].Id, entity.NotePatch{Title: &title}, now.Add(-time.Hour))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Renamed", updated.Title)
		assert.True(t, updated.UpdatedAt.After(notes[2].UpdatedAt))
	})

	t.Run("update by another owner affects nothing", func(t *testing.T) {
		title := "Stolen"
		updated, err := repo.UpdateOwned(ctx, uuid.New(), notes[0].Id, entity.NotePatch{Title: &title}, now)
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}
