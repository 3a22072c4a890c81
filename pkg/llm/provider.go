package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Language    string // Transcription language hint (ISO-639-1)
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithLanguage(lang string) Option {
	return func(o *Options) {
		o.Language = lang
	}
}

// ErrEmptyCompletion is returned when a provider answers successfully with no text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// ErrTranscriptionUnsupported is returned by providers without a speech-to-text endpoint.
var ErrTranscriptionUnsupported = errors.New("llm: provider does not support transcription")

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, mimeType string, options ...Option) (string, error)
}

// Summarizer turns text into a shorter text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ResolveOptions applies opts over defaults. Provider packages use it to read per-call overrides.
func ResolveOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}
