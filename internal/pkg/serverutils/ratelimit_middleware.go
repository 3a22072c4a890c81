package serverutils

import (
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// NewRateLimitMiddleware limits per authenticated user. It must run after the JWT middleware.
// A failing limiter backend lets the request through.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, err := UserID(ctx)
		if err != nil {
			return err
		}

		allowed, err := limiter.Allow(ctx.UserContext(), userID.String())
		if err != nil {
			log.Warn("RateLimit", "limiter unavailable, allowing request", map[string]interface{}{"error": err})
			return ctx.Next()
		}
		if !allowed {
			ctx.Set(fiber.HeaderRetryAfter, "60")
			log.Warn("RateLimit", "rate limit exceeded", map[string]interface{}{
				"user_id": userID.String(),
				"path":    ctx.Path(),
			})
			return apperror.New(apperror.KindRateLimited, "too many requests, try again later")
		}

		return ctx.Next()
	}
}
