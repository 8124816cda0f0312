package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/rv-planner/internal/domain"
)

// pathID binds the {id} path parameter. It returns false after writing
// the error response.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		requestError(w, "invalid id: "+err.Error())
		return "", false
	}
	return id, true
}

// filterParams are the query parameters shared by the list and map views.
type filterParams struct {
	Folder *string
	Type   *string
	Region *string
	Search *string
	Page   *int
	Limit  *int
}

func bindFilterParams(q url.Values) (filterParams, error) {
	var p filterParams
	for _, b := range []struct {
		name string
		dest any
	}{
		{"folder", &p.Folder},
		{"type", &p.Type},
		{"region", &p.Region},
		{"search", &p.Search},
		{"page", &p.Page},
		{"limit", &p.Limit},
	} {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return filterParams{}, err
		}
	}
	return p, nil
}

func (p filterParams) state() domain.FilterState {
	return domain.FilterState{
		Folder: deref(p.Folder),
		Type:   deref(p.Type),
		Region: deref(p.Region),
		Search: deref(p.Search),
	}.Normalize()
}

func (p filterParams) page() domain.PaginationParams {
	return domain.NewPaginationParams(p.Page, p.Limit)
}

// bindConfirm reads the optional ?confirm= flag.
func bindConfirm(q url.Values) (bool, error) {
	var confirm *bool
	if err := runtime.BindQueryParameter("form", true, false, "confirm", q, &confirm); err != nil {
		return false, err
	}
	return confirm != nil && *confirm, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
