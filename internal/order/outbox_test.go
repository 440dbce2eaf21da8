package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func newTestPoller(repo Repository, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		tick:      time.Millisecond,
		batchSize: 100,
		repo:      repo,
		writer:    writer,
		metrics:   &metrics.Registry{},
	}
}

func TestOutboxPoller_ProcessUnpublishedEvents(t *testing.T) {
	ctx := context.Background()

	event := &OutboxEvent{
		ID:          1,
		AggregateID: "ord-1",
		EventType:   "order.placed",
		Payload:     []byte(`{"order_id":"ord-1"}`),
	}

	t.Run("Success - publishes and marks processed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		writer := &fakeWriter{}
		poller := newTestPoller(mockRepo, writer)

		mockRepo.On("GetUnprocessedEvents", ctx, 100).Return([]*OutboxEvent{event}, nil).Once()
		mockRepo.On("MarkEventAsProcessed", ctx, int64(1)).Return(nil).Once()

		poller.processUnpublishedEvents(ctx)

		require.Len(t, writer.messages, 1)
		assert.Equal(t, []byte("ord-1"), writer.messages[0].Key)
		assert.Equal(t, event.Payload, writer.messages[0].Value)
		require.Len(t, writer.messages[0].Headers, 1)
		assert.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
		assert.Equal(t, uint64(1), poller.metrics.OutboxPublished.Load())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Publish failure leaves event unprocessed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		writer := &fakeWriter{err: errors.New("broker down")}
		poller := newTestPoller(mockRepo, writer)

		mockRepo.On("GetUnprocessedEvents", ctx, 100).Return([]*OutboxEvent{event}, nil).Once()

		poller.processUnpublishedEvents(ctx)

		mockRepo.AssertNotCalled(t, "MarkEventAsProcessed")
		assert.Equal(t, uint64(0), poller.metrics.OutboxPublished.Load())
	})

	t.Run("Fetch failure is tolerated", func(t *testing.T) {
		mockRepo := new(MockRepository)
		poller := newTestPoller(mockRepo, &fakeWriter{})

		mockRepo.On("GetUnprocessedEvents", ctx, 100).Return(nil, errors.New("db error")).Once()

		poller.processUnpublishedEvents(ctx)
		mockRepo.AssertExpectations(t)
	})
}

func TestOutboxPoller_RunStopsOnContextCancel(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetUnprocessedEvents", mock.Anything, 100).Return([]*OutboxEvent{}, nil).Maybe()
	poller := newTestPoller(mockRepo, &fakeWriter{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
