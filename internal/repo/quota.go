package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/rv-planner/internal/domain"
)

// quota rejects documents larger than limit bytes before they reach the
// wrapped store, the way browser storage rejects writes past its quota.
type quota struct {
	next  DocumentStore
	limit int
}

// NewQuota wraps next with a per-document size limit.
// A limit of zero or less disables the check.
func NewQuota(next DocumentStore, limit int) DocumentStore {
	if limit <= 0 {
		return next
	}
	return &quota{next: next, limit: limit}
}

func (q *quota) Get(ctx context.Context, key string) ([]byte, error) {
	return q.next.Get(ctx, key)
}

func (q *quota) Put(ctx context.Context, key string, value []byte) error {
	if len(value) > q.limit {
		return fmt.Errorf("repo.Quota.Put: %w: %q is %d bytes, limit is %d", domain.ErrStorageFull, key, len(value), q.limit)
	}
	return q.next.Put(ctx, key, value)
}
