// Package search implements the term matching used by the in-memory note store.
// It mirrors the Postgres text index: any-term match, weighted per field, zero-score records excluded.
// Stemming is a small suffix stripper, so it agrees with the english dictionary on plain inflections
// ("roadmaps", "reviewed", "planning") but not on irregular forms.
package search

import (
	"strings"
	"unicode"
)

// Field weights follow ts_rank's default A/B/C weighting.
const (
	WeightTitle   = 1.0
	WeightContent = 0.4
	WeightSummary = 0.2
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "with": {},
}

// Field is a piece of indexed text with its weight.
type Field struct {
	Text   string
	Weight float64
}

// Tokenize lower-cases s and splits it on anything that is not a letter or a digit, dropping stop words.
func Tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := stopWords[w]; skip {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Stem strips common english inflection suffixes from a lower-cased token:
// plurals first, then -ing and -ed. Tokens of four letters or fewer are returned as is.
func Stem(tok string) string {
	if len(tok) <= 4 {
		return tok
	}

	switch {
	case strings.HasSuffix(tok, "ies"):
		tok = tok[:len(tok)-3] + "y"
	case strings.HasSuffix(tok, "sses"), strings.HasSuffix(tok, "shes"), strings.HasSuffix(tok, "ches"), strings.HasSuffix(tok, "xes"):
		tok = tok[:len(tok)-2]
	case strings.HasSuffix(tok, "ss"), strings.HasSuffix(tok, "us"):
	case strings.HasSuffix(tok, "s"):
		tok = tok[:len(tok)-1]
	}

	switch {
	case len(tok) > 6 && strings.HasSuffix(tok, "ing"):
		tok = undouble(tok[:len(tok)-3])
	case len(tok) > 5 && strings.HasSuffix(tok, "ed"):
		tok = undouble(tok[:len(tok)-2])
	}
	return tok
}

// undouble turns "plann" back into "plan".
func undouble(s string) string {
	n := len(s)
	if n >= 2 && s[n-1] == s[n-2] && !strings.ContainsRune("aeiouls", rune(s[n-1])) {
		return s[:n-1]
	}
	return s
}

// Query is a tokenized search term, ready to be scored against many records.
type Query struct {
	terms map[string]struct{}
}

func NewQuery(term string) Query {
	terms := make(map[string]struct{})
	for _, t := range Tokenize(term) {
		terms[Stem(t)] = struct{}{}
	}
	return Query{terms: terms}
}

// Empty reports whether the term had no searchable tokens.
func (q Query) Empty() bool {
	return len(q.terms) == 0
}

// Score sums the weights of every token occurrence that matches a query term.
func (q Query) Score(fields ...Field) float64 {
	if q.Empty() {
		return 0
	}

	var score float64
	for _, f := range fields {
		for _, tok := range Tokenize(f.Text) {
			if _, ok := q.terms[Stem(tok)]; ok {
				score += f.Weight
			}
		}
	}
	return score
}
