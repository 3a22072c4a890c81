package controller

import (
	"io"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/serverutils"
	"voice-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAIController interface {
	RegisterRoutes(r fiber.Router)
	Transcribe(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
	SummarizeNote(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService     service.IAIService
	jwtMiddleware fiber.Handler
	rateLimiter   fiber.Handler
}

// NewAIController registers the AI routes behind jwtMiddleware and rateLimiter. rateLimiter may be nil.
func NewAIController(aiService service.IAIService, jwtMiddleware fiber.Handler, rateLimiter fiber.Handler) IAIController {
	return &aiController{
		aiService:     aiService,
		jwtMiddleware: jwtMiddleware,
		rateLimiter:   rateLimiter,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Use(c.jwtMiddleware)
	if c.rateLimiter != nil {
		h.Use(c.rateLimiter)
	}
	h.Post("/transcribe", c.Transcribe)
	h.Post("/summarize", c.Summarize)
	h.Post("/summarize/:id", c.SummarizeNote)
}

func (c *aiController) Transcribe(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return apperror.Validation("audio is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperror.Wrap(apperror.KindValidation, "unreadable audio upload", err)
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return apperror.Wrap(apperror.KindValidation, "unreadable audio upload", err)
	}

	res, err := c.aiService.Transcribe(ctx.UserContext(), userId, &dto.TranscribeRequest{
		Audio:    audio,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get(fiber.HeaderContentType),
		Title:    ctx.FormValue("title"),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}

func (c *aiController) Summarize(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SummarizeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	noteId, err := uuid.Parse(req.NoteId)
	if err != nil {
		return apperror.Validation("note_id must be a valid UUID")
	}

	res, err := c.aiService.Summarize(ctx.UserContext(), userId, noteId, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize note", res))
}

func (c *aiController) SummarizeNote(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := parseNoteID(ctx)
	if err != nil {
		return err
	}

	// the body is optional here
	var req dto.SummarizeNoteRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.aiService.Summarize(ctx.UserContext(), userId, id, req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success summarize note", res))
}
