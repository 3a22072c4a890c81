package specification

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// anyTermQuery turns the search term into an OR-of-terms tsquery, so a note matching any word qualifies.
const anyTermQuery = "replace(plainto_tsquery('english', ?)::text, '&', '|')::tsquery"

// NoteFullTextMatch keeps notes whose search_vector matches the term and whose rank clears the floor.
type NoteFullTextMatch struct {
	Query string
	Floor float64
}

func (s NoteFullTextMatch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"search_vector @@ "+anyTermQuery+" AND ts_rank(search_vector, "+anyTermQuery+") > ?",
		s.Query, s.Query, s.Floor,
	)
}

// OrderByRelevance sorts by ts_rank, best match first.
type OrderByRelevance struct {
	Query string
}

func (s OrderByRelevance) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{
		Expression: clause.Expr{
			SQL:                "ts_rank(search_vector, " + anyTermQuery + ") DESC",
			Vars:               []interface{}{s.Query},
			WithoutParentheses: true,
		},
	})
}
