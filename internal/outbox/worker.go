package outbox

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Router picks the Kafka topic for an event type.
type Router func(eventType string) string

// TopicRouter sends import requests to importTopic and everything else to
// eventsTopic.
func TopicRouter(importTopic, eventsTopic string) Router {
	return func(eventType string) string {
		if eventType == model.EventProfileImportRequested {
			return importTopic
		}
		return eventsTopic
	}
}

type Worker struct {
	DB         *sql.DB
	Producer   Publisher
	Route      Router
	Service    string
	BatchSize  int
	PollDelay  time.Duration
	MaxRetries int
}

type event struct {
	id            int64
	aggregateType string
	aggregateID   string
	eventType     string
	payload       []byte
	createdAt     time.Time
	retryCount    int
}

// Start polls until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	log := observability.GetLogger(ctx)
	log.Info("outbox worker started", zap.Int("batch_size", w.BatchSize))
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := w.processBatch(ctx); err != nil && ctx.Err() == nil {
				log.Error("outbox error", zap.Error(err))
				sleep(ctx, time.Second)
			}
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) error {
	tx, err := w.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	events, err := w.lockBatch(ctx, tx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_ = tx.Rollback()
		sleep(ctx, w.PollDelay)
		return nil
	}

	var batchErr error
	for _, e := range events {
		pubErr := w.Producer.Publish(ctx, w.Route(e.eventType), []byte(e.aggregateID), e.payload)
		if pubErr == nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE outbox_events SET processed_at = now() WHERE id = $1`, e.id); err != nil {
				return err
			}
			continue
		}

		observability.OutboxPublishFailuresTotal.WithLabelValues(w.Service, e.eventType).Inc()
		if err := w.recordFailure(ctx, tx, e, pubErr); err != nil {
			return err
		}
		// Stop at the first failure so later events of the same aggregate
		// are not published ahead of it.
		batchErr = pubErr
		break
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return batchErr
}

func (w *Worker) lockBatch(ctx context.Context, tx *sql.Tx) ([]event, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, retry_count
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, w.BatchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []event
	for rows.Next() {
		var e event
		if err := rows.Scan(&e.id, &e.aggregateType, &e.aggregateID, &e.eventType,
			&e.payload, &e.createdAt, &e.retryCount); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (w *Worker) recordFailure(ctx context.Context, tx *sql.Tx, e event, pubErr error) error {
	if !deadLetter(e.retryCount, w.MaxRetries) {
		_, err := tx.ExecContext(ctx, `
			UPDATE outbox_events
			SET retry_count = retry_count + 1, error = $2
			WHERE id = $1
		`, e.id, pubErr.Error())
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_dlq (id, aggregate_type, aggregate_id, event_type, payload, created_at, failed_at, error, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, now(), $7, $8)
	`, e.id, e.aggregateType, e.aggregateID, e.eventType, e.payload, e.createdAt, pubErr.Error(), e.retryCount+1); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM outbox_events WHERE id = $1`, e.id); err != nil {
		return err
	}

	observability.OutboxDeadLetteredTotal.WithLabelValues(w.Service, e.eventType).Inc()
	observability.GetLogger(ctx).Warn("outbox event dead-lettered",
		zap.Int64("id", e.id),
		zap.String("event_type", e.eventType),
		zap.String("aggregate_id", e.aggregateID),
		zap.Error(pubErr),
	)
	return nil
}

// deadLetter reports whether an event that already failed retryCount times
// should leave the outbox.
func deadLetter(retryCount, maxRetries int) bool {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return retryCount >= maxRetries
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
