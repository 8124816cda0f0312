package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/internal/view"
)

// DestinationRequest is the body of POST /destinations and
// PUT /destinations/{id}. On update, absent fields are left unchanged.
type DestinationRequest struct {
	Name             *string  `json:"name"`
	State            *string  `json:"state"`
	Region           *string  `json:"region"`
	Type             *string  `json:"type"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Notes            *string  `json:"notes"`
	Priority         *string  `json:"priority"`
	Season           *string  `json:"season"`
	BestSeason       *string  `json:"bestSeason"`
	EstimatedCost    *string  `json:"estimatedCost"`
	RVCamping        *bool    `json:"rvCamping"`
	RVCampingDetails *string  `json:"rvCampingDetails"`
	MustSee          *string  `json:"mustSee"`
}

// VisitedRequest is the optional body of POST /destinations/{id}/visited.
type VisitedRequest struct {
	Confirm bool `json:"confirm"`
	Visit   *struct {
		Date  string `json:"date"`
		Notes string `json:"notes"`
	} `json:"visit"`
}

// FolderAssignment is the body of PUT /destinations/{id}/folder.
// An empty FolderID unfiles the destination.
type FolderAssignment struct {
	FolderID string `json:"folderId"`
}

// ListDestinations handles GET /destinations.
// Supports folder, type, region and search filters plus ?page= and ?limit=
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListDestinations(w http.ResponseWriter, r *http.Request) {
	params, err := bindFilterParams(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}
	owner := middleware.Owner(r.Context())

	collection, folders, err := s.load(r.Context(), owner)
	if err != nil {
		respondError(w, r, err)
		return
	}

	f := params.state()
	working := view.Merge(collection, s.catalog.ListCurated(), f)
	writeJSON(w, http.StatusOK, view.RenderList(working.List, folders, f, params.page()))
}

// GetMap handles GET /map. It takes the same filters as the list; curated
// catalog pins ignore them.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	params, err := bindFilterParams(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}
	collection, err := s.destinations.List(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	working := view.Merge(collection, s.catalog.ListCurated(), params.state())
	writeJSON(w, http.StatusOK, view.RenderMap(working.Pins))
}

// CreateDestination handles POST /destinations.
func (s *Server) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var body DestinationRequest
	if !decodeBody(w, r, &body) {
		return
	}
	d, err := requestToDestination(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.destinations.Add(r.Context(), middleware.Owner(r.Context()), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetDestination handles GET /destinations/{id}.
func (s *Server) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.destinations.Get(r.Context(), middleware.Owner(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateDestination handles PUT /destinations/{id}.
func (s *Server) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body DestinationRequest
	if !decodeBody(w, r, &body) {
		return
	}
	patch, err := requestToPatch(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.destinations.Update(r.Context(), middleware.Owner(r.Context()), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDestination handles DELETE /destinations/{id}. Without
// ?confirm=true the response is 409 carrying the confirmation question.
func (s *Server) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	confirmed, err := bindConfirm(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}

	dlg := &requestDialog{confirmed: confirmed}
	if err := s.destinations.Delete(r.Context(), middleware.Owner(r.Context()), id, dlg); err != nil {
		respondDialogError(w, r, err, dlg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleVisited handles POST /destinations/{id}/visited. Marking visited
// takes the optional visit date and notes from the body. Moving a visited
// destination back to the wishlist needs confirm, in the body or as
// ?confirm=true.
func (s *Server) ToggleVisited(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	confirmed, err := bindConfirm(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}

	var body VisitedRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := decodeOptional(r.Body, &body); err != nil {
			respondBodyError(w, r, err)
			return
		}
	}

	dlg := &requestDialog{confirmed: confirmed || body.Confirm, answers: map[string]string{}}
	if body.Visit != nil {
		dlg.answers[service.FieldVisitDate] = body.Visit.Date
		dlg.answers[service.FieldVisitNotes] = body.Visit.Notes
	}

	updated, err := s.destinations.ToggleVisited(r.Context(), middleware.Owner(r.Context()), id, dlg)
	if err != nil {
		respondDialogError(w, r, err, dlg)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// AssignFolder handles PUT /destinations/{id}/folder.
func (s *Server) AssignFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body FolderAssignment
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.destinations.SetFolder(r.Context(), middleware.Owner(r.Context()), id, body.FolderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// load reads the collection and the folders the list and sidebar need.
func (s *Server) load(ctx context.Context, owner string) ([]domain.Destination, []domain.Folder, error) {
	collection, err := s.destinations.List(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	folders, err := s.folders.List(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	return collection, folders, nil
}

// --- mapping helpers --------------------------------------------------------

// requestToDestination converts a create body into a domain.Destination.
// Name and state presence are checked by the service.
func requestToDestination(body DestinationRequest) (domain.Destination, error) {
	patch, err := requestToPatch(body)
	if err != nil {
		return domain.Destination{}, err
	}
	return patch.Apply(domain.Destination{}), nil
}

// requestToPatch converts a request body into a patch. Enumerated fields
// are validated here so a typo never reaches storage.
func requestToPatch(body DestinationRequest) (domain.DestinationPatch, error) {
	p := domain.DestinationPatch{
		Name:             body.Name,
		State:            body.State,
		Region:           body.Region,
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		Notes:            body.Notes,
		BestSeason:       body.BestSeason,
		EstimatedCost:    body.EstimatedCost,
		RVCamping:        body.RVCamping,
		RVCampingDetails: body.RVCampingDetails,
		MustSee:          body.MustSee,
	}
	if body.Type != nil {
		t, err := domain.ParseDestinationType(*body.Type)
		if err != nil {
			return domain.DestinationPatch{}, err
		}
		p.Type = &t
	}
	if body.Priority != nil {
		pr, err := domain.ParsePriority(*body.Priority)
		if err != nil {
			return domain.DestinationPatch{}, err
		}
		p.Priority = &pr
	}
	if body.Season != nil {
		se, err := domain.ParseSeason(*body.Season)
		if err != nil {
			return domain.DestinationPatch{}, err
		}
		p.Season = &se
	}
	return p, nil
}

// decodeOptional decodes a body that may be empty.
func decodeOptional(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
