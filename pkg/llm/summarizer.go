package llm

import (
	"context"
	"fmt"
	"strings"
)

const summaryPrompt = "Summarize this text:\n\n%s"

type chatSummarizer struct {
	provider LLMProvider
	options  []Option
}

// NewSummarizer adapts a chat provider into a Summarizer using a single user prompt.
func NewSummarizer(provider LLMProvider, options ...Option) Summarizer {
	return &chatSummarizer{provider: provider, options: options}
}

func (s *chatSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	out, err := s.provider.Generate(ctx, fmt.Sprintf(summaryPrompt, text), s.options...)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}
