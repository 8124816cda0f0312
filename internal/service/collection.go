// Package service contains the business logic for the RV Planner API.
// Services validate inputs, enforce business rules, ask the user through a
// Dialog where a flow needs an answer, and persist through the
// CollectionStore. No storage details live here.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/repo"
)

// Collection names. They appear in document keys and change events.
const (
	CollectionDestinations = "destinations"
	CollectionFolders      = "folders"
)

// Notifier is told about every successful save.
type Notifier interface {
	Publish(ctx context.Context, owner, collection string)
}

// DocumentKey returns the document key of an owner's collection.
func DocumentKey(owner, collection string) string {
	return "users/" + owner + "/" + collection
}

// snapshot is the last copy of an owner's collections that was read or
// written successfully.
type snapshot struct {
	destinations []domain.Destination
	folders      []domain.Folder
	hasDest      bool
	hasFolders   bool
}

// CollectionStore owns every user's destinations and folders.
//
// Each collection is stored as one document and replaced whole on every
// save. Mutations are read-modify-write with no locking: two writers of
// the same owner race and the last save wins.
type CollectionStore struct {
	docs   repo.DocumentStore
	notify Notifier
	log    *slog.Logger

	mu    sync.Mutex
	cache map[string]*snapshot
}

// NewCollectionStore constructs a CollectionStore. notify may be nil.
func NewCollectionStore(docs repo.DocumentStore, notify Notifier, log *slog.Logger) *CollectionStore {
	if log == nil {
		log = slog.Default()
	}
	return &CollectionStore{docs: docs, notify: notify, log: log, cache: map[string]*snapshot{}}
}

// Load returns the owner's destinations. When the backend read fails the
// last-known-good copy is returned instead; without one the error is
// returned so that nothing overwrites data that could not be read.
func (s *CollectionStore) Load(ctx context.Context, owner string) ([]domain.Destination, error) {
	out := []domain.Destination{}
	err := s.load(ctx, owner, CollectionDestinations, &out)
	if err == nil {
		if out == nil {
			out = []domain.Destination{}
		}
		s.remember(owner, func(sn *snapshot) {
			sn.destinations, sn.hasDest = slices.Clone(out), true
		})
		return out, nil
	}

	if cached, ok := s.cachedDestinations(owner); ok {
		s.log.WarnContext(ctx, "collection load failed, using last known good copy",
			"owner", owner, "collection", CollectionDestinations, "error", err)
		return cached, nil
	}
	return nil, fmt.Errorf("service.CollectionStore.Load: %w", err)
}

// Save replaces the owner's destinations.
func (s *CollectionStore) Save(ctx context.Context, owner string, ds []domain.Destination) error {
	if ds == nil {
		ds = []domain.Destination{}
	}
	if err := s.save(ctx, owner, CollectionDestinations, ds); err != nil {
		return fmt.Errorf("service.CollectionStore.Save: %w", err)
	}
	s.remember(owner, func(sn *snapshot) {
		sn.destinations, sn.hasDest = slices.Clone(ds), true
	})
	return nil
}

// Get returns one destination.
func (s *CollectionStore) Get(ctx context.Context, owner, id string) (domain.Destination, error) {
	ds, err := s.Load(ctx, owner)
	if err != nil {
		return domain.Destination{}, err
	}
	i := indexOf(ds, id)
	if i < 0 {
		return domain.Destination{}, fmt.Errorf("service.CollectionStore.Get: destination %q: %w", id, domain.ErrNotFound)
	}
	return ds[i], nil
}

// Add puts d at the front of the collection. It fails with
// domain.ErrConflict when the ID is already taken.
func (s *CollectionStore) Add(ctx context.Context, owner string, d domain.Destination) error {
	ds, err := s.Load(ctx, owner)
	if err != nil {
		return err
	}
	if indexOf(ds, d.ID) >= 0 {
		return fmt.Errorf("service.CollectionStore.Add: destination %q: %w", d.ID, domain.ErrConflict)
	}
	return s.Save(ctx, owner, append([]domain.Destination{d}, ds...))
}

// Update replaces the destination with the result of patch. It reports
// false and saves nothing when the ID is absent.
func (s *CollectionStore) Update(ctx context.Context, owner, id string, patch func(domain.Destination) domain.Destination) (domain.Destination, bool, error) {
	ds, err := s.Load(ctx, owner)
	if err != nil {
		return domain.Destination{}, false, err
	}
	i := indexOf(ds, id)
	if i < 0 {
		return domain.Destination{}, false, nil
	}
	updated := patch(ds[i])
	updated.ID = id
	ds[i] = updated
	if err := s.Save(ctx, owner, ds); err != nil {
		return domain.Destination{}, true, err
	}
	return updated, true, nil
}

// Remove deletes the destination. Removing an absent ID is a no-op and
// reports false.
func (s *CollectionStore) Remove(ctx context.Context, owner, id string) (bool, error) {
	ds, err := s.Load(ctx, owner)
	if err != nil {
		return false, err
	}
	i := indexOf(ds, id)
	if i < 0 {
		return false, nil
	}
	return true, s.Save(ctx, owner, slices.Delete(ds, i, i+1))
}

// LoadFolders returns the owner's folders, with the same fallback as Load.
func (s *CollectionStore) LoadFolders(ctx context.Context, owner string) ([]domain.Folder, error) {
	out := []domain.Folder{}
	err := s.load(ctx, owner, CollectionFolders, &out)
	if err == nil {
		if out == nil {
			out = []domain.Folder{}
		}
		s.remember(owner, func(sn *snapshot) {
			sn.folders, sn.hasFolders = slices.Clone(out), true
		})
		return out, nil
	}

	if cached, ok := s.cachedFolders(owner); ok {
		s.log.WarnContext(ctx, "collection load failed, using last known good copy",
			"owner", owner, "collection", CollectionFolders, "error", err)
		return cached, nil
	}
	return nil, fmt.Errorf("service.CollectionStore.LoadFolders: %w", err)
}

// SaveFolders replaces the owner's folders.
func (s *CollectionStore) SaveFolders(ctx context.Context, owner string, fs []domain.Folder) error {
	if fs == nil {
		fs = []domain.Folder{}
	}
	if err := s.save(ctx, owner, CollectionFolders, fs); err != nil {
		return fmt.Errorf("service.CollectionStore.SaveFolders: %w", err)
	}
	s.remember(owner, func(sn *snapshot) {
		sn.folders, sn.hasFolders = slices.Clone(fs), true
	})
	return nil
}

// load decodes a collection document into dst. A missing document is an
// empty collection.
func (s *CollectionStore) load(ctx context.Context, owner, collection string, dst any) error {
	raw, err := s.docs.Get(ctx, DocumentKey(owner, collection))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			raw = []byte(`[]`)
		} else {
			return err
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// save encodes and stores a collection. Any storage failure is reported
// as domain.ErrNotSaved, keeping the cause (e.g. domain.ErrStorageFull).
func (s *CollectionStore) save(ctx context.Context, owner, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.docs.Put(ctx, DocumentKey(owner, collection), raw); err != nil {
		s.log.WarnContext(ctx, "collection save failed", "owner", owner, "collection", collection, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrNotSaved, err)
	}
	if s.notify != nil {
		s.notify.Publish(ctx, owner, collection)
	}
	return nil
}

func (s *CollectionStore) remember(owner string, fn func(*snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.cache[owner]
	if !ok {
		sn = &snapshot{}
		s.cache[owner] = sn
	}
	fn(sn)
}

func (s *CollectionStore) cachedDestinations(owner string) ([]domain.Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.cache[owner]
	if !ok || !sn.hasDest {
		return nil, false
	}
	return slices.Clone(sn.destinations), true
}

func (s *CollectionStore) cachedFolders(owner string) ([]domain.Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.cache[owner]
	if !ok || !sn.hasFolders {
		return nil, false
	}
	return slices.Clone(sn.folders), true
}

func indexOf(ds []domain.Destination, id string) int {
	return slices.IndexFunc(ds, func(d domain.Destination) bool { return d.ID == id })
}
