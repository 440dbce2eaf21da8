package order

import (
	"context"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const outboxTopic = "order-events"

// MessageWriter is the slice of *kafka.Writer the poller needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains unprocessed order events to Kafka. Events are written
// in the order transaction, so a crash between commit and publish only
// delays delivery, it never loses or duplicates an order.
type OutboxPoller struct {
	tick      time.Duration
	batchSize int
	repo      Repository
	writer    MessageWriter
	metrics   *metrics.Registry
}

func NewOutboxPoller(repo Repository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  outboxTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    w,
		metrics:   metrics.Default,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "publisher"),
		zap.String("method", "processUnpublishedEvents"),
	)

	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		log.Error("failed to fetch outbox events", zap.Error(err))
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			log.Error("failed to publish outbox event",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := p.repo.MarkEventAsProcessed(ctx, event.ID); err != nil {
			log.Error("failed to mark outbox event as processed",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		p.metrics.OutboxPublished.Inc()
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *OutboxEvent) error {
	msg := kafka.Message{
		// order_id as the key keeps per-order ordering in the topic.
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
