// Package audit journals every processed webhook outcome into Postgres.
// Recording is best-effort: the relay never fails a delivery because the
// journal is unavailable.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one journaled webhook outcome.
type Entry struct {
	Endpoint      string
	CorrelationID string
	Status        string
	Message       string
	Meta          map[string]any
	At            time.Time
}

// Logger writes entries into relay_events.
type Logger struct {
	pool *pgxpool.Pool
}

// NewLogger returns a new Logger. A nil pool yields a logger whose Record is
// a no-op, so the journal can be disabled by configuration.
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// Record persists the entry.
func (l *Logger) Record(ctx context.Context, entry Entry) error {
	if l == nil || l.pool == nil {
		return nil
	}
	if entry.Endpoint == "" || entry.Status == "" {
		return errors.New("audit: entry requires endpoint and status")
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO relay_events (endpoint, correlation_id, status, message, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.Endpoint, entry.CorrelationID, entry.Status, entry.Message, metaJSON, at)
	return err
}
