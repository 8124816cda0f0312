// Package handler implements the HTTP handlers for the RV Planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (destination.go, folder.go, etc.) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/rv-planner/api"
	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/service"
)

// DestinationServicer defines the destination operations the handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching storage.
type DestinationServicer interface {
	List(ctx context.Context, owner string) ([]domain.Destination, error)
	Get(ctx context.Context, owner, id string) (domain.Destination, error)
	Add(ctx context.Context, owner string, d domain.Destination) (domain.Destination, error)
	AddFromCatalog(ctx context.Context, owner, entryID string, origin service.Origin) (domain.Destination, error)
	ToggleVisited(ctx context.Context, owner, id string, dlg service.Dialog) (domain.Destination, error)
	Update(ctx context.Context, owner, id string, patch domain.DestinationPatch) (domain.Destination, error)
	Delete(ctx context.Context, owner, id string, dlg service.Dialog) error
	SetFolder(ctx context.Context, owner, id, folderID string) (domain.Destination, error)
}

// FolderServicer defines the folder operations the handlers depend on.
type FolderServicer interface {
	List(ctx context.Context, owner string) ([]domain.Folder, error)
	Create(ctx context.Context, owner, name string) (domain.Folder, error)
	Rename(ctx context.Context, owner, folderID, name string) (domain.Folder, error)
	Delete(ctx context.Context, owner, folderID string, dlg service.Dialog) error
}

// ExportServicer defines the backup operations the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context, owner string) (domain.ExportDocument, error)
	Rows(ctx context.Context, owner string) ([]domain.ExportRow, error)
	Import(ctx context.Context, owner string, raw []byte, dlg service.Dialog) (service.ImportResult, error)
}

// CatalogReader is the read side of the catalog. *catalog.Provider
// satisfies it, including when nil.
type CatalogReader interface {
	ListCurated() []domain.CatalogEntry
	ListDiscoverable(f catalog.DiscoverFilter) []domain.CatalogEntry
}

// Server holds the dependencies of every handler.
type Server struct {
	destinations DestinationServicer
	folders      FolderServicer
	export       ExportServicer
	catalog      CatalogReader
}

// NewServer constructs the Server with all its dependencies.
func NewServer(destinations DestinationServicer, folders FolderServicer, export ExportServicer, cat CatalogReader) *Server {
	return &Server{destinations: destinations, folders: folders, export: export, catalog: cat}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Handler returns the API routes. Everything except the health check and
// the API document requires a valid owner identifier.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)

		r.Get("/catalog/curated", s.ListCurated)
		r.Get("/catalog/discover", s.Discover)
		r.Post("/catalog/{id}/adopt", s.AdoptCatalogEntry)

		r.Get("/destinations", s.ListDestinations)
		r.Post("/destinations", s.CreateDestination)
		r.Get("/destinations/{id}", s.GetDestination)
		r.Put("/destinations/{id}", s.UpdateDestination)
		r.Delete("/destinations/{id}", s.DeleteDestination)
		r.Post("/destinations/{id}/visited", s.ToggleVisited)
		r.Put("/destinations/{id}/folder", s.AssignFolder)

		r.Get("/map", s.GetMap)

		r.Get("/folders", s.GetSidebar)
		r.Post("/folders", s.CreateFolder)
		r.Patch("/folders/{id}", s.RenameFolder)
		r.Delete("/folders/{id}", s.DeleteFolder)

		r.Get("/export", s.GetExport)
		r.Post("/import", s.PostImport)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
