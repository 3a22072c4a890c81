package implementation

import (
	"context"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/mapper"
	"voice-notes-be/internal/model"
	"voice-notes-be/internal/repository/contract"
	"voice-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteActivityMapper
}

func NewNoteActivityRepository(db *gorm.DB) contract.NoteActivityRepository {
	return &NoteActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteActivityMapper(),
	}
}

func (r *NoteActivityRepositoryImpl) Create(ctx context.Context, activity *entity.NoteActivity) error {
	m, err := r.mapper.ToModel(activity)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteActivityRepositoryImpl) ListByNote(ctx context.Context, userId, noteId uuid.UUID) ([]*entity.NoteActivity, error) {
	var models []*model.NoteActivity
	query := r.db.WithContext(ctx)
	for _, spec := range []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.ByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "occurred_at", Desc: true},
	} {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
