package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Summary   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotePatch is a partial update. A nil field is left untouched; ClearSummary nulls the summary.
type NotePatch struct {
	Title        *string
	Content      *string
	Summary      *string
	ClearSummary bool
}

type NoteSortKey string

const (
	NoteSortNone NoteSortKey = ""
	NoteSortDate NoteSortKey = "date"
)

// NoteQuery describes a list request: owner scope, optional full-text term, optional ordering override.
type NoteQuery struct {
	UserId         uuid.UUID
	Search         string
	Sort           NoteSortKey
	RelevanceFloor float64
}
