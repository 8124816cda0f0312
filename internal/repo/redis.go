package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/rv-planner/internal/domain"
)

// redisDocumentStore stores documents as plain Redis strings under
// prefix+key. Documents never expire.
type redisDocumentStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisDocumentStore constructs a DocumentStore on top of a Redis client.
// prefix namespaces the keys, e.g. "rvplanner:".
func NewRedisDocumentStore(client redis.Cmdable, prefix string) DocumentStore {
	return &redisDocumentStore{client: client, prefix: prefix}
}

// Get reads a document. redis.Nil maps to domain.ErrNotFound.
func (r *redisDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.RedisDocumentStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.RedisDocumentStore.Get: %w", err)
	}
	return value, nil
}

// Put overwrites the document with no expiry.
func (r *redisDocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisDocumentStore.Put: %w", err)
	}
	return nil
}
