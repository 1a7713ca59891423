package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository writes events to the transactional outbox.
type Repository struct{ DB *sql.DB }

func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// InsertTx records an event inside the caller's transaction so it is
// published only if the business change commits.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	var q interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	} = r.DB
	if tx != nil {
		q = tx
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1, $2, $3, $4)
	`, aggregateType, aggregateID, eventType, body)
	return err
}
