// Package pending holds draft stock movements awaiting their completion
// event. At most one move is held per correlation ID; a draft that is never
// completed expires after its TTL.
package pending

import (
	"context"
	"errors"
	"time"

	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
)

// ErrNotFound is returned when no pending move exists for a correlation ID,
// including drafts dropped by TTL expiry.
var ErrNotFound = errors.New("pending: move not found")

// Move is a stored draft: the adjustment request built at draft time,
// keyed by the correlation ID linking draft and completion events.
type Move struct {
	CorrelationID string               `json:"correlation_id"`
	Request       inventory.Adjustment `json:"request"`
	StoredAt      time.Time            `json:"stored_at"`
}

// Store is the pending-move contract. Take is the only path by which a move
// transitions to completed and must be atomic per correlation ID, so two
// racing completion deliveries finalize at most once.
type Store interface {
	// Put stores a move under its correlation ID with the given TTL,
	// overwriting any previous draft for the same ID.
	Put(ctx context.Context, id string, req inventory.Adjustment, ttl time.Duration) error
	// Get returns the move without removing it.
	Get(ctx context.Context, id string) (Move, error)
	// Take atomically returns and removes the move.
	Take(ctx context.Context, id string) (Move, error)
	// Exists reports whether a move is held for the ID.
	Exists(ctx context.Context, id string) (bool, error)
	// ListIDs returns the held correlation IDs. Diagnostic only.
	ListIDs(ctx context.Context) ([]string, error)
}
