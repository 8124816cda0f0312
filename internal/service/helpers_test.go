package service_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/repo"
	"github.com/pkordes/rv-planner/internal/service"
)

const owner = "4b0c1c3e-7f43-4d1e-9a39-2a3e7c1d9f00"

// mockDialog is a hand-written test double for service.Dialog.
// Each method is a function field; set only the ones the test expects to
// be called. An unset field fails the test when called.
type mockDialog struct {
	t          *testing.T
	confirm    func(ctx context.Context, message string) (bool, error)
	promptText func(ctx context.Context, title, message, def string) (string, bool, error)
	promptForm func(ctx context.Context, form domain.Form) (map[string]string, bool, error)
}

func (m *mockDialog) Confirm(ctx context.Context, message string) (bool, error) {
	if m.confirm == nil {
		m.t.Fatalf("unexpected Confirm(%q)", message)
	}
	return m.confirm(ctx, message)
}
func (m *mockDialog) PromptText(ctx context.Context, title, message, def string) (string, bool, error) {
	if m.promptText == nil {
		m.t.Fatalf("unexpected PromptText(%q)", title)
	}
	return m.promptText(ctx, title, message, def)
}
func (m *mockDialog) PromptForm(ctx context.Context, form domain.Form) (map[string]string, bool, error) {
	if m.promptForm == nil {
		m.t.Fatalf("unexpected PromptForm(%q)", form.Title)
	}
	return m.promptForm(ctx, form)
}

// compile-time check: mockDialog must satisfy service.Dialog.
var _ service.Dialog = (*mockDialog)(nil)

// noDialog fails the test on any question.
func noDialog(t *testing.T) *mockDialog { return &mockDialog{t: t} }

func confirmDialog(t *testing.T, answer bool) *mockDialog {
	return &mockDialog{t: t, confirm: func(context.Context, string) (bool, error) { return answer, nil }}
}

func formDialog(t *testing.T, values map[string]string, ok bool) *mockDialog {
	return &mockDialog{t: t, promptForm: func(context.Context, domain.Form) (map[string]string, bool, error) {
		return values, ok, nil
	}}
}

// mockNotifier records published events.
type mockNotifier struct {
	mu     sync.Mutex
	events []string
}

func (m *mockNotifier) Publish(_ context.Context, owner, collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, owner+"/"+collection)
}

var _ service.Notifier = (*mockNotifier)(nil)

// mockDocs wraps a memory store with overridable Get/Put.
type mockDocs struct {
	inner *repo.MemoryDocumentStore
	get   func(ctx context.Context, key string) ([]byte, error)
	put   func(ctx context.Context, key string, value []byte) error
}

func (m *mockDocs) Get(ctx context.Context, key string) ([]byte, error) {
	if m.get != nil {
		return m.get(ctx, key)
	}
	return m.inner.Get(ctx, key)
}
func (m *mockDocs) Put(ctx context.Context, key string, value []byte) error {
	if m.put != nil {
		return m.put(ctx, key, value)
	}
	return m.inner.Put(ctx, key, value)
}

var _ repo.DocumentStore = (*mockDocs)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) *service.CollectionStore {
	t.Helper()
	return service.NewCollectionStore(repo.NewMemoryDocumentStore(), nil, discardLogger())
}

const testCatalog = `
curated:
  - id: p1
    name: Zion
    state: Utah
    region: southwest
    type: national-park
    latitude: 37.2982
    longitude: -113.0263
discoverable:
  - id: arches
    name: Arches
    state: Utah
    region: southwest
    type: national-park
`

func newCatalog(t *testing.T) *catalog.Provider {
	t.Helper()
	p, err := catalog.Load(strings.NewReader(testCatalog))
	require.NoError(t, err)
	return p
}

func seed(t *testing.T, store *service.CollectionStore, ds ...domain.Destination) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), owner, ds))
}

func seedFolders(t *testing.T, store *service.CollectionStore, fs ...domain.Folder) {
	t.Helper()
	require.NoError(t, store.SaveFolders(context.Background(), owner, fs))
}
