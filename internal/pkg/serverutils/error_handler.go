package serverutils

import (
	"errors"

	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindValidation:      fiber.StatusBadRequest,
	apperror.KindAuth:            fiber.StatusUnauthorized,
	apperror.KindNotFound:        fiber.StatusNotFound,
	apperror.KindConflict:        fiber.StatusConflict,
	apperror.KindRateLimited:     fiber.StatusTooManyRequests,
	apperror.KindExternalService: fiber.StatusBadGateway,
	apperror.KindTimeout:         fiber.StatusGatewayTimeout,
	apperror.KindPersistence:     fiber.StatusInternalServerError,
}

// server-side kinds never leak their message
var genericMessage = map[apperror.Kind]string{
	apperror.KindExternalService: "AI service unavailable",
	apperror.KindTimeout:         "AI service timed out",
	apperror.KindPersistence:     "internal server error",
}

// StatusFor maps err to the HTTP status and the message the client may see.
func StatusFor(err error) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			return fiber.StatusInternalServerError, "internal server error"
		}
		if msg, hidden := genericMessage[appErr.Kind]; hidden {
			return status, msg
		}
		return status, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}

// ErrorHandlerMiddleware renders any error returned down the chain as the JSON envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return renderError(ctx, log, err)
	}
}

// NewFiberErrorHandler covers errors raised by fiber itself before the middleware chain runs, like an oversized body.
func NewFiberErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return renderError(ctx, log, err)
	}
}

func renderError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	status, message := StatusFor(err)
	details := map[string]interface{}{
		"method": ctx.Method(),
		"path":   ctx.Path(),
		"status": status,
		"error":  err,
	}
	if status >= fiber.StatusInternalServerError {
		log.Error("HTTP", "request failed", details)
	} else {
		log.Debug("HTTP", "request rejected", details)
	}

	return ctx.Status(status).JSON(ErrorResponse(status, message))
}
