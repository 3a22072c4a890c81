package serverutils

import (
	"time"

	"voice-notes-be/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// NewMetricsMiddleware records every request by its route pattern. Register it before ErrorHandlerMiddleware
// so the final status is known.
func NewMetricsMiddleware(collector metrics.MetricsCollector) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status, _ = StatusFor(err)
		}
		route := ctx.Route().Path
		collector.RecordRequest(ctx.Method(), route, status, time.Since(start))
		return err
	}
}
