package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/internal/view"
)

// ListCurated handles GET /catalog/curated.
func (s *Server) ListCurated(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.ListCurated())
}

// Discover handles GET /catalog/discover. Nothing is returned until a
// region or type is chosen; entries already in the collection are left
// out.
func (s *Server) Discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var region, typ, search *string
	for name, dest := range map[string]**string{"region": &region, "type": &typ, "search": &search} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			requestError(w, err.Error())
			return
		}
	}

	entries := s.catalog.ListDiscoverable(catalog.DiscoverFilter{Region: deref(region), Type: deref(typ)})
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, []domain.CatalogEntry{})
		return
	}
	collection, err := s.destinations.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Discover(collection, entries, deref(search)))
}

// AdoptCatalogEntry handles POST /catalog/{id}/adopt. ?origin=map logs the
// place as visited; the default, origin=list, adds it to the wishlist.
func (s *Server) AdoptCatalogEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "origin", r.URL.Query(), &raw); err != nil {
		requestError(w, err.Error())
		return
	}
	origin, err := service.ParseOrigin(deref(raw))
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.destinations.AddFromCatalog(r.Context(), middleware.Owner(r.Context()), id, origin)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
