package handler

import (
	"net/http"

	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/view"
)

// FolderRequest is the body of POST /folders and PATCH /folders/{id}.
type FolderRequest struct {
	Name string `json:"name"`
}

// GetSidebar handles GET /folders: the pseudo-folder totals and every
// folder with its member count.
func (s *Server) GetSidebar(w http.ResponseWriter, r *http.Request) {
	collection, folders, err := s.load(r.Context(), middleware.Owner(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.FolderCounts(collection, folders))
}

// CreateFolder handles POST /folders.
func (s *Server) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var body FolderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	f, err := s.folders.Create(r.Context(), middleware.Owner(r.Context()), body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// RenameFolder handles PATCH /folders/{id}.
func (s *Server) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body FolderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	f, err := s.folders.Rename(r.Context(), middleware.Owner(r.Context()), id, body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFolder handles DELETE /folders/{id}. Members are unfiled. Without
// ?confirm=true the response is 409 carrying the confirmation question.
func (s *Server) DeleteFolder(w http.ResponseWriter, r *http.Request) {
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
	if err := s.folders.Delete(r.Context(), middleware.Owner(r.Context()), id, dlg); err != nil {
		respondDialogError(w, r, err, dlg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
