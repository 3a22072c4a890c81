package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/repository/specification"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/pkg/llm"
	"voice-notes-be/pkg/metrics"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Summarize(ctx context.Context, userId uuid.UUID, id uuid.UUID, content string) (*dto.NoteResponse, error)
	Activity(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteActivityResponse, error)
}

type NoteServiceOptions struct {
	AITimeout      time.Duration
	RelevanceFloor float64
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	summarizer       llm.Summarizer
	logger           logger.ILogger
	metrics          metrics.MetricsCollector
	opts             NoteServiceOptions
	now              func() time.Time
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	summarizer llm.Summarizer,
	logger logger.ILogger,
	collector metrics.MetricsCollector,
	opts NoteServiceOptions,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		summarizer:       summarizer,
		logger:           logger,
		metrics:          collector,
		opts:             opts,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.Validation("title is required")
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return nil, apperror.Validation("title must be at most 255 characters")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperror.Validation("content is required")
	}

	now := c.now()
	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, apperror.Persistence(err)
	}

	c.publish(ctx, entity.NoteActivityCreated, &note, map[string]interface{}{"title": note.Title})

	return toNoteResponse(&note), nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error) {
	query := entity.NoteQuery{
		UserId:         userId,
		Search:         strings.TrimSpace(req.Search),
		RelevanceFloor: c.opts.RelevanceFloor,
	}

	switch entity.NoteSortKey(strings.ToLower(strings.TrimSpace(req.Sort))) {
	case entity.NoteSortNone:
	case entity.NoteSortDate:
		query.Sort = entity.NoteSortDate
	default:
		return nil, apperror.Validation("sort must be one of [date]")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().List(ctx, query)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, toNoteResponse(n))
	}
	return res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	note, err := c.findOwned(ctx, c.uowFactory.NewUnitOfWork(ctx), userId, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	patch, changed, err := toNotePatch(req)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().UpdateOwned(ctx, userId, id, patch, c.now())
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if note == nil {
		return nil, apperror.NotFound("note not found")
	}

	c.publish(ctx, entity.NoteActivityUpdated, note, map[string]interface{}{"fields": changed})

	return toNoteResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	removed, err := uow.NoteRepository().DeleteOwned(ctx, userId, id)
	if err != nil {
		return apperror.Persistence(err)
	}

	if removed {
		c.publish(ctx, entity.NoteActivityDeleted, &entity.Note{Id: id, UserId: userId}, nil)
	}
	return nil
}

// Summarize replaces the summary of a note. An empty content summarizes the stored content.
func (c *noteService) Summarize(ctx context.Context, userId uuid.UUID, id uuid.UUID, content string) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		content = note.Content
	}

	summary, err := c.callSummarizer(ctx, content)
	if err != nil {
		c.logger.Warn("NoteService", "summarize failed", map[string]interface{}{
			"error":   err,
			"note_id": id.String(),
		})
		return nil, err
	}

	updated, err := uow.NoteRepository().UpdateOwned(ctx, userId, id, entity.NotePatch{Summary: &summary}, c.now())
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if updated == nil {
		// deleted while the summarizer was running
		return nil, apperror.NotFound("note not found")
	}

	c.publish(ctx, entity.NoteActivitySummarized, updated, map[string]interface{}{"summary_length": len(summary)})

	return toNoteResponse(updated), nil
}

func (c *noteService) Activity(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.NoteActivityResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.NoteActivityRepository().ListByNote(ctx, userId, id)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	res := make([]*dto.NoteActivityResponse, 0, len(items))
	for _, a := range items {
		res = append(res, &dto.NoteActivityResponse{
			Id:         a.Id,
			NoteId:     a.NoteId,
			Type:       string(a.Type),
			Payload:    a.Payload,
			OccurredAt: a.OccurredAt,
		})
	}
	return res, nil
}

func (c *noteService) callSummarizer(ctx context.Context, content string) (string, error) {
	aiCtx, cancel := context.WithTimeout(ctx, c.opts.AITimeout)
	defer cancel()

	start := time.Now()
	summary, err := c.summarizer.Summarize(aiCtx, content)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		appErr := apperror.External("summarize", err)
		c.metrics.RecordAICall("summarize", string(appErr.Kind), time.Since(start))
		return "", appErr
	}

	c.metrics.RecordAICall("summarize", "ok", time.Since(start))
	return strings.TrimSpace(summary), nil
}

func (c *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if note == nil {
		return nil, apperror.NotFound("note not found")
	}
	return note, nil
}

// publish is fire and forget; the activity log never fails a request.
func (c *noteService) publish(ctx context.Context, t entity.NoteActivityType, note *entity.Note, data map[string]interface{}) {
	if c.publisherService == nil {
		return
	}
	evt := dto.NoteEventMessage{
		Type:       string(t),
		NoteId:     note.Id,
		UserId:     note.UserId,
		Data:       data,
		OccurredAt: c.now(),
	}
	if err := c.publisherService.Publish(ctx, evt); err != nil {
		c.logger.Warn("NoteService", "failed to publish note event", map[string]interface{}{
			"error": err,
			"type":  evt.Type,
		})
	}
}

// maxTitleLength is the title column width.
const maxTitleLength = 255

// toNotePatch rejects null or blank title/content. A null or blank summary clears it.
func toNotePatch(req *dto.UpdateNoteRequest) (entity.NotePatch, []string, error) {
	var patch entity.NotePatch
	changed := make([]string, 0, 3)

	if req.Title.Set {
		if req.Title.Null || strings.TrimSpace(req.Title.Value) == "" {
			return patch, nil, apperror.Validation("title cannot be empty")
		}
		if utf8.RuneCountInString(req.Title.Value) > maxTitleLength {
			return patch, nil, apperror.Validation("title must be at most 255 characters")
		}
		title := req.Title.Value
		patch.Title = &title
		changed = append(changed, "title")
	}

	if req.Content.Set {
		if req.Content.Null || strings.TrimSpace(req.Content.Value) == "" {
			return patch, nil, apperror.Validation("content cannot be empty")
		}
		content := req.Content.Value
		patch.Content = &content
		changed = append(changed, "content")
	}

	if req.Summary.Set {
		if req.Summary.Null || strings.TrimSpace(req.Summary.Value) == "" {
			patch.ClearSummary = true
		} else {
			summary := req.Summary.Value
			patch.Summary = &summary
		}
		changed = append(changed, "summary")
	}

	return patch, changed, nil
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   n.Content,
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
