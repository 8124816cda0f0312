package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/handler"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/service"
)

const owner = "6f1a3c9e-2b7d-4e8f-9a01-3c5d7e9f1b2a"

// ---- mock DestinationServicer ----------------------------------------------

// mockDestinations is a test double for handler.DestinationServicer.
// Set only the method fields your test needs.
type mockDestinations struct {
	list           func(ctx context.Context, owner string) ([]domain.Destination, error)
	get            func(ctx context.Context, owner, id string) (domain.Destination, error)
	add            func(ctx context.Context, owner string, d domain.Destination) (domain.Destination, error)
	addFromCatalog func(ctx context.Context, owner, entryID string, origin service.Origin) (domain.Destination, error)
	toggleVisited  func(ctx context.Context, owner, id string, dlg service.Dialog) (domain.Destination, error)
	update         func(ctx context.Context, owner, id string, patch domain.DestinationPatch) (domain.Destination, error)
	delete         func(ctx context.Context, owner, id string, dlg service.Dialog) error
	setFolder      func(ctx context.Context, owner, id, folderID string) (domain.Destination, error)
}

func (m *mockDestinations) List(ctx context.Context, o string) ([]domain.Destination, error) {
	return m.list(ctx, o)
}
func (m *mockDestinations) Get(ctx context.Context, o, id string) (domain.Destination, error) {
	return m.get(ctx, o, id)
}
func (m *mockDestinations) Add(ctx context.Context, o string, d domain.Destination) (domain.Destination, error) {
	return m.add(ctx, o, d)
}
func (m *mockDestinations) AddFromCatalog(ctx context.Context, o, entryID string, origin service.Origin) (domain.Destination, error) {
	return m.addFromCatalog(ctx, o, entryID, origin)
}
func (m *mockDestinations) ToggleVisited(ctx context.Context, o, id string, dlg service.Dialog) (domain.Destination, error) {
	return m.toggleVisited(ctx, o, id, dlg)
}
func (m *mockDestinations) Update(ctx context.Context, o, id string, p domain.DestinationPatch) (domain.Destination, error) {
	return m.update(ctx, o, id, p)
}
func (m *mockDestinations) Delete(ctx context.Context, o, id string, dlg service.Dialog) error {
	return m.delete(ctx, o, id, dlg)
}
func (m *mockDestinations) SetFolder(ctx context.Context, o, id, folderID string) (domain.Destination, error) {
	return m.setFolder(ctx, o, id, folderID)
}

// compile-time check: mockDestinations must satisfy handler.DestinationServicer.
var _ handler.DestinationServicer = (*mockDestinations)(nil)

// ---- mock FolderServicer ---------------------------------------------------

type mockFolders struct {
	list   func(ctx context.Context, owner string) ([]domain.Folder, error)
	create func(ctx context.Context, owner, name string) (domain.Folder, error)
	rename func(ctx context.Context, owner, folderID, name string) (domain.Folder, error)
	delete func(ctx context.Context, owner, folderID string, dlg service.Dialog) error
}

func (m *mockFolders) List(ctx context.Context, o string) ([]domain.Folder, error) {
	if m.list == nil {
		return []domain.Folder{}, nil
	}
	return m.list(ctx, o)
}
func (m *mockFolders) Create(ctx context.Context, o, name string) (domain.Folder, error) {
	return m.create(ctx, o, name)
}
func (m *mockFolders) Rename(ctx context.Context, o, folderID, name string) (domain.Folder, error) {
	return m.rename(ctx, o, folderID, name)
}
func (m *mockFolders) Delete(ctx context.Context, o, folderID string, dlg service.Dialog) error {
	return m.delete(ctx, o, folderID, dlg)
}

var _ handler.FolderServicer = (*mockFolders)(nil)

// ---- mock ExportServicer ---------------------------------------------------

type mockExport struct {
	export   func(ctx context.Context, owner string) (domain.ExportDocument, error)
	rows     func(ctx context.Context, owner string) ([]domain.ExportRow, error)
	doImport func(ctx context.Context, owner string, raw []byte, dlg service.Dialog) (service.ImportResult, error)
}

func (m *mockExport) Export(ctx context.Context, o string) (domain.ExportDocument, error) {
	return m.export(ctx, o)
}
func (m *mockExport) Rows(ctx context.Context, o string) ([]domain.ExportRow, error) {
	return m.rows(ctx, o)
}
func (m *mockExport) Import(ctx context.Context, o string, raw []byte, dlg service.Dialog) (service.ImportResult, error) {
	return m.doImport(ctx, o, raw, dlg)
}

var _ handler.ExportServicer = (*mockExport)(nil)

// ---- helpers ---------------------------------------------------------------

const testCatalog = `
curated:
  - id: cat-zion
    name: Zion National Park
    state: Utah
    region: southwest
    type: national-park
    latitude: 37.2982
    longitude: -113.0263
discoverable:
  - id: cat-arches
    name: Arches National Park
    state: Utah
    region: southwest
    type: national-park
  - id: cat-acadia
    name: Acadia National Park
    state: Maine
    region: east-coast
    type: national-park
`

func testProvider(t *testing.T) *catalog.Provider {
	t.Helper()
	p, err := catalog.Load(strings.NewReader(testCatalog))
	require.NoError(t, err)
	return p
}

type deps struct {
	destinations *mockDestinations
	folders      *mockFolders
	export       *mockExport
}

// newHTTPHandler wires a Server with the given mocks into the router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(t *testing.T, d deps) http.Handler {
	t.Helper()
	if d.destinations == nil {
		d.destinations = &mockDestinations{}
	}
	if d.folders == nil {
		d.folders = &mockFolders{}
	}
	if d.export == nil {
		d.export = &mockExport{}
	}
	return handler.Handler(handler.NewServer(d.destinations, d.folders, d.export, testProvider(t)))
}

// do sends a request as the test owner.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(middleware.OwnerHeader, owner)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func ptr[T any](v T) *T { return &v }

func destinationFixture(id, name string) domain.Destination {
	return domain.Destination{
		ID:        id,
		Name:      name,
		State:     "Utah",
		Region:    "southwest",
		Type:      domain.TypeNationalPark,
		Latitude:  ptr(37.0),
		Longitude: ptr(-112.0),
		Priority:  domain.PriorityWishlist,
		Season:    domain.SeasonAny,
	}
}

func collectionOf(ds ...domain.Destination) func(context.Context, string) ([]domain.Destination, error) {
	return func(_ context.Context, o string) ([]domain.Destination, error) {
		if o != owner {
			return nil, domain.ErrNotFound
		}
		return ds, nil
	}
}
