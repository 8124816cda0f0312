package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pkordes/rv-planner/internal/domain"
)

// mirror pairs a remote store with a local copy.
//
// Reads prefer the remote; a failed or empty remote read falls back to the
// local copy, and a successful one refreshes it. Writes go to the remote
// and fall back to the local copy when the remote fails. The fallback is
// silent to callers and logged at warn level.
type mirror struct {
	remote DocumentStore
	local  DocumentStore
	log    *slog.Logger
}

// NewMirror returns a DocumentStore that keeps local in step with remote.
func NewMirror(remote, local DocumentStore, log *slog.Logger) DocumentStore {
	if log == nil {
		log = slog.Default()
	}
	return &mirror{remote: remote, local: local, log: log}
}

func (m *mirror) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := m.remote.Get(ctx, key)
	if err == nil {
		if perr := m.local.Put(ctx, key, value); perr != nil {
			m.log.WarnContext(ctx, "local mirror refresh failed", "key", key, "error", perr)
		}
		return value, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		m.log.WarnContext(ctx, "remote read failed, using local copy", "key", key, "error", err)
	}
	return m.local.Get(ctx, key)
}

func (m *mirror) Put(ctx context.Context, key string, value []byte) error {
	if err := m.remote.Put(ctx, key, value); err != nil {
		m.log.WarnContext(ctx, "remote write failed, saving locally", "key", key, "error", err)
		return m.local.Put(ctx, key, value)
	}
	if err := m.local.Put(ctx, key, value); err != nil {
		m.log.WarnContext(ctx, "local mirror write failed", "key", key, "error", err)
	}
	return nil
}
