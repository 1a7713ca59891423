package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/observability"
)

// Handler processes one message value.
type Handler interface {
	Handle(ctx context.Context, value []byte) error
}

type HandlerFunc func(ctx context.Context, value []byte) error

func (f HandlerFunc) Handle(ctx context.Context, value []byte) error { return f(ctx, value) }

type Consumer struct {
	r           *kafka.Reader
	handler     Handler
	maxAttempts int
	backoff     time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, maxAttempts int, handler Handler) *Consumer {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		handler:     handler,
		maxAttempts: maxAttempts,
		backoff:     time.Second,
	}
}

// Start consumes until ctx is cancelled. Each message is handed to the
// handler up to maxAttempts times; its offset is committed afterwards either
// way, so handlers must record their own failure state.
func (c *Consumer) Start(ctx context.Context) {
	log := observability.GetLogger(ctx)
	log.Info("kafka consumer started", zap.String("topic", c.r.Config().Topic))
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("kafka consumer loop stopping: context canceled")
				return
			}
			log.Error("kafka fetch error", zap.Error(err))
			continue
		}

		mctx := otel.GetTextMapPropagator().Extract(ctx, headerCarrier{msg: &m})
		if !c.handle(mctx, m) {
			return
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			log.Error("kafka commit failed", zap.Error(err))
		}
	}
}

// handle runs the handler with retries. It returns false when ctx ended
// before the message was settled.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) bool {
	return retry(ctx, c.maxAttempts, c.backoff, func(attempt int) error {
		err := c.handler.Handle(ctx, m.Value)
		if err != nil {
			observability.GetLogger(ctx).Error("kafka handler failed",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	})
}

// retry calls fn until it succeeds or attempts are used up, sleeping backoff
// between tries. It returns false only when ctx is cancelled while waiting.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) bool {
	for i := 1; i <= attempts; i++ {
		if err := fn(i); err == nil || i == attempts {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff * time.Duration(i)):
		}
	}
	return true
}

func (c *Consumer) Close() error { return c.r.Close() }
