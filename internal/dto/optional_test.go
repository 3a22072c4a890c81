package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateNoteRequest_TriState(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantTitle   OptionalString
		wantSummary OptionalString
	}{
		{name: "absent", body: `{}`},
		{name: "value", body: `{"title":"New"}`, wantTitle: Some("New")},
		{name: "explicit null", body: `{"summary":null}`, wantSummary: Null()},
		{name: "empty string is a value", body: `{"title":""}`, wantTitle: Some("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateNoteRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantTitle, req.Title)
			assert.Equal(t, tt.wantSummary, req.Summary)
			assert.False(t, req.Content.Set)
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var req UpdateNoteRequest
	assert.Error(t, json.Unmarshal([]byte(`{"title":42}`), &req))
}
