package service

import (
	"context"
	"encoding/json"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/pkg/events"
	"voice-notes-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships events to an external bus. *nats.Publisher satisfies it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forwarder  EventForwarder
	logger     logger.ILogger
	metrics    metrics.MetricsCollector
}

// NewConsumerService builds the activity log writer. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forwarder EventForwarder,
	logger logger.ILogger,
	collector metrics.MetricsCollector,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forwarder:  forwarder,
		logger:     logger,
		metrics:    collector,
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: the activity log is best effort and a redelivery loop would spin while the DB is down.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var event dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal note event", map[string]interface{}{
			"error":      err,
			"message_id": msg.UUID,
		})
		return
	}
	if event.NoteId == uuid.Nil || event.UserId == uuid.Nil {
		cs.logger.Warn("ConsumerService", "dropping note event without ids", map[string]interface{}{"type": event.Type})
		return
	}

	activity := &entity.NoteActivity{
		Id:         uuid.New(),
		NoteId:     event.NoteId,
		UserId:     event.UserId,
		Type:       entity.NoteActivityType(event.Type),
		Payload:    event.Data,
		OccurredAt: event.OccurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteActivityRepository().Create(ctx, activity); err != nil {
		cs.logger.Error("ConsumerService", "failed to store note activity", map[string]interface{}{
			"error":   err,
			"note_id": event.NoteId.String(),
			"type":    event.Type,
		})
		return
	}
	cs.metrics.RecordNoteEvent(event.Type)

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "failed to forward note event", map[string]interface{}{
				"error": err,
				"type":  event.Type,
			})
		}
	}
}
