package serverutils

import (
	"strings"

	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDLocal = "user_id"

// NewJwtMiddleware verifies the bearer token with tokens and stores the owner id in Locals.
func NewJwtMiddleware(tokens *token.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			return apperror.Auth("missing token")
		}

		userID, err := tokens.Parse(strings.TrimSpace(tokenStr))
		if err != nil {
			return apperror.Wrap(apperror.KindAuth, "invalid token", err)
		}

		ctx.Locals(userIDLocal, userID)
		return ctx.Next()
	}
}

// UserID returns the owner set by the JWT middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := ctx.Locals(userIDLocal).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperror.Auth("missing token")
	}
	return userID, nil
}
