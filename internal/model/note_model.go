package model

import (
	"time"

	"github.com/google/uuid"
)

// Note rows are hard-deleted. The search_vector column and its GIN index are created by cmd/migrate.
type Note struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	Summary   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Note) TableName() string {
	return "notes"
}
