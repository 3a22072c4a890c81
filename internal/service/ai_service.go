package service

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/pkg/audiostore"
	"voice-notes-be/pkg/llm"
	"voice-notes-be/pkg/metrics"

	"github.com/google/uuid"
)

type IAIService interface {
	Transcribe(ctx context.Context, userId uuid.UUID, req *dto.TranscribeRequest) (*dto.TranscribeResponse, error)
	Summarize(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, content string) (*dto.NoteResponse, error)
}

var extensionMimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpeg": "audio/mpeg",
	".mpga": "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
}

type aiService struct {
	transcriber      llm.Transcriber
	noteService      INoteService
	publisherService IPublisherService
	audioStore       audiostore.Store
	logger           logger.ILogger
	metrics          metrics.MetricsCollector
	timeout          time.Duration
}

func NewAIService(
	transcriber llm.Transcriber,
	noteService INoteService,
	publisherService IPublisherService,
	audioStore audiostore.Store,
	logger logger.ILogger,
	collector metrics.MetricsCollector,
	timeout time.Duration,
) IAIService {
	if audioStore == nil {
		audioStore = audiostore.Nop{}
	}
	return &aiService{
		transcriber:      transcriber,
		noteService:      noteService,
		publisherService: publisherService,
		audioStore:       audioStore,
		logger:           logger,
		metrics:          collector,
		timeout:          timeout,
	}
}

func (s *aiService) Transcribe(ctx context.Context, userId uuid.UUID, req *dto.TranscribeRequest) (*dto.TranscribeResponse, error) {
	if len(req.Audio) == 0 {
		return nil, apperror.Validation("audio is required")
	}
	mimeType, err := resolveAudioMime(req.MimeType, req.Filename)
	if err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = "recording" + extensionFor(mimeType)
	}

	res := &dto.TranscribeResponse{}

	// archiving is best effort; the transcript is what the caller asked for
	key := audiostore.NewKey(userId, filename, time.Now().UTC())
	if stored, err := s.audioStore.Put(ctx, key, req.Audio, mimeType); err != nil {
		s.logger.Warn("AIService", "failed to archive audio", map[string]interface{}{
			"error": err,
			"key":   key,
		})
	} else {
		res.AudioKey = stored
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.transcriber.Transcribe(aiCtx, req.Audio, filename, mimeType)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		appErr := apperror.External("transcription", err)
		s.metrics.RecordAICall("transcribe", string(appErr.Kind), time.Since(start))
		s.logger.Warn("AIService", "transcription failed", map[string]interface{}{
			"error":     err,
			"mime_type": mimeType,
			"bytes":     len(req.Audio),
		})
		return nil, appErr
	}
	s.metrics.RecordAICall("transcribe", "ok", time.Since(start))
	res.Text = strings.TrimSpace(text)

	if title := strings.TrimSpace(req.Title); title != "" {
		note, err := s.noteService.Create(ctx, userId, &dto.CreateNoteRequest{Title: title, Content: res.Text})
		if err != nil {
			return nil, err
		}
		res.Note = note
		s.publishTranscribed(ctx, note, res.AudioKey)
	}

	return res, nil
}

func (s *aiService) Summarize(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, content string) (*dto.NoteResponse, error) {
	return s.noteService.Summarize(ctx, userId, noteId, content)
}

func (s *aiService) publishTranscribed(ctx context.Context, note *dto.NoteResponse, audioKey string) {
	if s.publisherService == nil {
		return
	}
	data := map[string]interface{}{"transcript_length": len(note.Content)}
	if audioKey != "" {
		data["audio_key"] = audioKey
	}
	evt := dto.NoteEventMessage{
		Type:       string(entity.NoteActivityTranscribed),
		NoteId:     note.Id,
		UserId:     note.UserId,
		Data:       data,
		OccurredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.publisherService.Publish(ctx, evt); err != nil {
		s.logger.Warn("AIService", "failed to publish note event", map[string]interface{}{
			"error": err,
			"type":  evt.Type,
		})
	}
}

// resolveAudioMime strips parameters from the declared type and falls back to the file extension
// when the client sent nothing useful.
func resolveAudioMime(declared, filename string) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = extensionMimeTypes[strings.ToLower(filepath.Ext(filename))]
	}

	switch {
	case mimeType == "video/webm":
		return "audio/webm", nil
	case strings.HasPrefix(mimeType, "audio/"):
		return mimeType, nil
	default:
		return "", apperror.Validation("unsupported audio format")
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4", "audio/x-m4a":
		return ".m4a"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	case "audio/flac":
		return ".flac"
	default:
		return ".webm"
	}
}
