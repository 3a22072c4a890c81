package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "punctuation and case", input: "Discuss Q3-roadmap!", want: []string{"discuss", "q3", "roadmap"}},
		{name: "stop words dropped", input: "the plan for the week", want: []string{"plan", "week"}},
		{name: "empty", input: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestQueryScore(t *testing.T) {
	q := NewQuery("roadmap budget")

	titleHit := q.Score(Field{Text: "Roadmap", Weight: WeightTitle}, Field{Text: "nothing here", Weight: WeightContent})
	contentHit := q.Score(Field{Text: "Meeting", Weight: WeightTitle}, Field{Text: "the roadmap", Weight: WeightContent})
	miss := q.Score(Field{Text: "Groceries", Weight: WeightTitle})

	assert.Greater(t, titleHit, contentHit)
	assert.Greater(t, contentHit, 0.0)
	assert.Equal(t, 0.0, miss)
}

func TestQueryOnlyStopWords(t *testing.T) {
	q := NewQuery("the and of")

	assert.True(t, q.Empty())
	assert.Equal(t, 0.0, q.Score(Field{Text: "the and of", Weight: WeightTitle}))
}

func TestStem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "roadmaps", want: "roadmap"},
		{input: "roadmap", want: "roadmap"},
		{input: "summaries", want: "summary"},
		{input: "discusses", want: "discuss"},
		{input: "discuss", want: "discuss"},
		{input: "status", want: "status"},
		{input: "meetings", want: "meet"},
		{input: "planning", want: "plan"},
		{input: "reviewed", want: "review"},
		{input: "string", want: "string"},
		{input: "eggs", want: "eggs"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.input))
		})
	}
}

func TestQueryScoreMatchesInflections(t *testing.T) {
	q := NewQuery("roadmaps")

	assert.Equal(t, WeightTitle, q.Score(Field{Text: "Roadmap", Weight: WeightTitle}))
	assert.Equal(t, WeightContent, q.Score(Field{Text: "reviewing the roadmaps", Weight: WeightContent}))
}
