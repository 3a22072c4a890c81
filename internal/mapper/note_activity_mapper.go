package mapper

import (
	"encoding/json"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/model"

	"gorm.io/datatypes"
)

type NoteActivityMapper struct{}

func NewNoteActivityMapper() *NoteActivityMapper {
	return &NoteActivityMapper{}
}

func (m *NoteActivityMapper) ToEntity(a *model.NoteActivity) *entity.NoteActivity {
	if a == nil {
		return nil
	}

	var payload map[string]interface{}
	if len(a.Payload) > 0 {
		// Corrupt payloads degrade to an empty map instead of failing the whole listing
		_ = json.Unmarshal(a.Payload, &payload)
	}

	return &entity.NoteActivity{
		Id:         a.Id,
		NoteId:     a.NoteId,
		UserId:     a.UserId,
		Type:       entity.NoteActivityType(a.Type),
		Payload:    payload,
		OccurredAt: a.OccurredAt,
	}
}

func (m *NoteActivityMapper) ToModel(a *entity.NoteActivity) (*model.NoteActivity, error) {
	if a == nil {
		return nil, nil
	}

	var payload datatypes.JSON
	if a.Payload != nil {
		raw, err := json.Marshal(a.Payload)
		if err != nil {
			return nil, err
		}
		payload = datatypes.JSON(raw)
	}

	return &model.NoteActivity{
		Id:         a.Id,
		NoteId:     a.NoteId,
		UserId:     a.UserId,
		Type:       string(a.Type),
		Payload:    payload,
		OccurredAt: a.OccurredAt,
	}, nil
}

func (m *NoteActivityMapper) ToEntities(items []*model.NoteActivity) []*entity.NoteActivity {
	entities := make([]*entity.NoteActivity, len(items))
	for i, a := range items {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
