package factory

import (
	"context"
	"fmt"

	"voice-notes-be/pkg/llm"
	"voice-notes-be/pkg/llm/huggingface"
	"voice-notes-be/pkg/llm/ollama"
	"voice-notes-be/pkg/llm/openai"
)

type Config struct {
	Provider           string
	APIKey             string
	BaseURL            string
	SummaryModel       string
	TranscriptionModel string
}

// Providers bundles the chat and speech backends selected by Config.Provider.
type Providers struct {
	Chat        llm.LLMProvider
	Transcriber llm.Transcriber
}

func NewProviders(cfg Config) (*Providers, error) {
	switch cfg.Provider {
	case "openai":
		p := openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.SummaryModel, cfg.TranscriptionModel)
		return &Providers{Chat: p, Transcriber: p}, nil
	case "ollama":
		return &Providers{
			Chat:        ollama.NewOllamaProvider(cfg.BaseURL, cfg.SummaryModel),
			Transcriber: unsupportedTranscriber{},
		}, nil
	case "huggingface":
		return &Providers{
			Chat:        huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.SummaryModel),
			Transcriber: unsupportedTranscriber{},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

type unsupportedTranscriber struct{}

func (unsupportedTranscriber) Transcribe(ctx context.Context, audio []byte, filename, mimeType string, options ...llm.Option) (string, error) {
	return "", llm.ErrTranscriptionUnsupported
}
