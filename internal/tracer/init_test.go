package tracer

import (
	"context"
	"testing"

	"voice-notes-be/internal/config"
	"voice-notes-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(context.Background(), config.TracingConfig{Enabled: false}, logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Enabled(t *testing.T) {
	// the exporter connects lazily, so no collector is needed to build it
	shutdown := InitTracer(context.Background(), config.TracingConfig{Enabled: true, Endpoint: "127.0.0.1:4318"}, logger.NewNopLogger())
	assert.NotNil(t, shutdown)
}
