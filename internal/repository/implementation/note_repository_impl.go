package implementation

import (
	"context"
	"errors"
	"time"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/mapper"
	"voice-notes-be/internal/model"
	"voice-notes-be/internal/repository/contract"
	"voice-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) findAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteRepositoryImpl) List(ctx context.Context, q entity.NoteQuery) ([]*entity.Note, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: q.UserId},
	}
	if q.Search != "" {
		specs = append(specs, specification.NoteFullTextMatch{Query: q.Search, Floor: q.RelevanceFloor})
	}

	switch {
	case q.Sort == entity.NoteSortDate:
		// Date ordering wins over relevance even when a search term is present
		specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})
	case q.Search != "":
		specs = append(specs,
			specification.OrderByRelevance{Query: q.Search},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
	default:
		specs = append(specs, specification.OrderBy{Field: "created_at"})
	}

	return r.findAll(ctx, specs...)
}

func (r *NoteRepositoryImpl) UpdateOwned(ctx context.Context, userId, id uuid.UUID, patch entity.NotePatch, now time.Time) (*entity.Note, error) {
	updates := r.mapper.PatchToUpdates(patch)
	updates["updated_at"] = gorm.Expr("GREATEST(?, updated_at + interval '1 microsecond')", now)

	var rows []model.Note
	result := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userId).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, nil
	}
	return r.mapper.ToEntity(&rows[0]), nil
}

func (r *NoteRepositoryImpl) DeleteOwned(ctx context.Context, userId, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.Note{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
