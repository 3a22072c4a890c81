package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/api/notes", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/api/notes", 200, 20*time.Millisecond)
	c.RecordAICall("summarize", "timeout", time.Second)
	c.RecordNoteEvent("NOTE_CREATED")

	body := scrape(t, reg)
	assert.Contains(t, body, `voicenotes_http_requests_total{method="GET",route="/api/notes",status_code="200"} 2`)
	assert.Contains(t, body, `voicenotes_ai_calls_total{operation="summarize",outcome="timeout"} 1`)
	assert.Contains(t, body, `voicenotes_note_events_total{type="NOTE_CREATED"} 1`)
	assert.Contains(t, body, `voicenotes_http_request_duration_seconds_count{method="GET",route="/api/notes"} 2`)
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
