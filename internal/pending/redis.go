package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
)

// DefaultNamespace prefixes every pending-move key in Redis.
const DefaultNamespace = "stockbridge:pending"

// RedisStore is the TTL-backed Store implementation. Expiry is delegated to
// Redis key TTLs and Take relies on GETDEL for its atomicity guarantee.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore constructs a RedisStore. An empty namespace falls back to
// DefaultNamespace.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(id string) string {
	return s.namespace + ":" + id
}

// Put stores the move, overwriting any existing draft for the same ID.
func (s *RedisStore) Put(ctx context.Context, id string, req inventory.Adjustment, ttl time.Duration) error {
	if id == "" {
		return errors.New("pending: correlation id required")
	}
	move := Move{CorrelationID: id, Request: req, StoredAt: time.Now().UTC()}
	data, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("pending: encode move: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("pending: set %s: %w", id, err)
	}
	return nil
}

// Get returns the move without consuming it.
func (s *RedisStore) Get(ctx context.Context, id string) (Move, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Move{}, ErrNotFound
	}
	if err != nil {
		return Move{}, fmt.Errorf("pending: get %s: %w", id, err)
	}
	return decodeMove(id, data)
}

// Take atomically returns and removes the move. GETDEL makes the
// read-and-remove a single Redis command, so concurrent completions for the
// same ID resolve to exactly one winner.
func (s *RedisStore) Take(ctx context.Context, id string) (Move, error) {
	data, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Move{}, ErrNotFound
	}
	if err != nil {
		return Move{}, fmt.Errorf("pending: take %s: %w", id, err)
	}
	return decodeMove(id, data)
}

// Exists reports whether a move is held for the ID.
func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("pending: exists %s: %w", id, err)
	}
	return n > 0, nil
}

// ListIDs scans the namespace and returns the held correlation IDs.
func (s *RedisStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.namespace+":*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.namespace+":"))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("pending: scan: %w", err)
	}
	return ids, nil
}

func decodeMove(id string, data []byte) (Move, error) {
	var move Move
	if err := json.Unmarshal(data, &move); err != nil {
		return Move{}, fmt.Errorf("pending: decode move %s: %w", id, err)
	}
	return move, nil
}

var _ Store = (*RedisStore)(nil)
