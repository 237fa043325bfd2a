package database

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, err error) error {
	args := m.Called(ctx, id, err)
	return args.Error(0)
}

func newScrapeEvent() *OutboxEvent {
	return &OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "scrape",
		AggregateID:   uuid.New().String(),
		EventType:     "PRODUCT_SCRAPED",
		Payload:       json.RawMessage(`{"url":"https://www.amazon.com/dp/B000","title":"Wireless Mouse"}`),
		TargetStream:  "stream:scrape_results",
	}
}

func TestRelayProcessEvents(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("publishes pending events and marks them processed", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		mockOutbox := new(MockOutboxRepository)

		relay := &Relay{
			redis:     mockRedis,
			outbox:    mockOutbox,
			logger:    logger,
			batchSize: 10,
		}

		events := []*OutboxEvent{newScrapeEvent(), newScrapeEvent()}

		mockOutbox.On("GetPending", ctx, 10).Return(events, nil)
		for _, event := range events {
			mockRedis.On("XAdd", ctx, mock.MatchedBy(func(args *redis.XAddArgs) bool {
				return args.Stream == event.TargetStream
			})).Return(nil).Once()
			mockOutbox.On("MarkProcessed", ctx, event.ID).Return(nil).Once()
		}

		err := relay.processEvents(ctx)
		assert.NoError(t, err)

		mockRedis.AssertExpectations(t)
		mockOutbox.AssertExpectations(t)
	})

	t.Run("no pending events is a no-op", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		mockOutbox := new(MockOutboxRepository)

		relay := &Relay{
			redis:     mockRedis,
			outbox:    mockOutbox,
			logger:    logger,
			batchSize: 10,
		}

		mockOutbox.On("GetPending", ctx, 10).Return([]*OutboxEvent{}, nil)

		err := relay.processEvents(ctx)
		assert.NoError(t, err)

		mockRedis.AssertNotCalled(t, "XAdd")
	})

	t.Run("publish failure marks the event failed", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		mockOutbox := new(MockOutboxRepository)

		relay := &Relay{
			redis:     mockRedis,
			outbox:    mockOutbox,
			logger:    logger,
			batchSize: 10,
		}

		event := newScrapeEvent()
		redisErr := errors.New("connection refused")

		mockOutbox.On("GetPending", ctx, 10).Return([]*OutboxEvent{event}, nil)
		mockRedis.On("XAdd", ctx, mock.Anything).Return(redisErr).Once()
		mockOutbox.On("MarkFailed", ctx, event.ID, mock.Anything).Return(nil).Once()

		err := relay.processEvents(ctx)
		assert.NoError(t, err)

		mockOutbox.AssertNotCalled(t, "MarkProcessed", ctx, event.ID)
		mockOutbox.AssertExpectations(t)
	})

	t.Run("invalid payload goes to MarkFailed without publishing", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		mockOutbox := new(MockOutboxRepository)

		relay := &Relay{
			redis:     mockRedis,
			outbox:    mockOutbox,
			logger:    logger,
			batchSize: 10,
		}

		event := newScrapeEvent()
		event.Payload = json.RawMessage(`{not json`)

		mockOutbox.On("GetPending", ctx, 10).Return([]*OutboxEvent{event}, nil)
		mockOutbox.On("MarkFailed", ctx, event.ID, mock.Anything).Return(nil).Once()

		err := relay.processEvents(ctx)
		assert.NoError(t, err)

		mockRedis.AssertNotCalled(t, "XAdd")
		mockOutbox.AssertExpectations(t)
	})

	t.Run("GetPending failure is returned", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		mockOutbox := new(MockOutboxRepository)

		relay := &Relay{
			redis:     mockRedis,
			outbox:    mockOutbox,
			logger:    logger,
			batchSize: 10,
		}

		mockOutbox.On("GetPending", ctx, 10).Return(nil, errors.New("db down"))

		err := relay.processEvents(ctx)
		assert.Error(t, err)
	})
}

func TestNextRetryTimeBackoff(t *testing.T) {
	first := nextRetryTime(0)
	second := nextRetryTime(1)
	third := nextRetryTime(2)

	assert.True(t, second.After(first))
	assert.True(t, third.After(second))
}
