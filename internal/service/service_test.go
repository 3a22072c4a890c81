package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/repository/memory"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/pkg/llm"
	"voice-notes-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
)

const testTopic = "note-events"

type fakeSummarizer struct {
	mu     sync.Mutex
	output string
	err    error
	block  bool
	inputs []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.output, f.err
}

type fakeTranscriber struct {
	text     string
	err      error
	mimeType string
	filename string
	calls    int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename, mimeType string, options ...llm.Option) (string, error) {
	f.calls++
	f.filename = filename
	f.mimeType = mimeType
	return f.text, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.NoteEventMessage
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event dto.NoteEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	factory    unitofwork.RepositoryFactory
	summarizer *fakeSummarizer
	publisher  *recordingPublisher
	notes      INoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	factory := memory.NewRepositoryFactory(memory.NewStore())
	summarizer := &fakeSummarizer{output: "a short summary"}
	publisher := &recordingPublisher{}

	notes := NewNoteService(factory, publisher, summarizer, logger.NewNopLogger(), metrics.Nop{}, NoteServiceOptions{
		AITimeout: time.Second,
	})

	return &testEnv{
		factory:    factory,
		summarizer: summarizer,
		publisher:  publisher,
		notes:      notes,
	}
}

// newPubSub returns a gochannel bus with the activity consumer already subscribed.
func newPubSub(t *testing.T, factory unitofwork.RepositoryFactory, forwarder EventForwarder) IPublisherService {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	consumer := NewConsumerService(pubSub, testTopic, factory, forwarder, logger.NewNopLogger(), metrics.Nop{})
	require.NoError(t, consumer.Consume(ctx))

	return NewPublisherService(testTopic, pubSub)
}
