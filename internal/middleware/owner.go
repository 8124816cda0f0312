package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// OwnerHeader carries the per-browser user identifier. Websocket requests,
// which cannot set headers from a browser, pass it as ?user= instead.
const OwnerHeader = "X-Planner-User"

type ownerKey struct{}

// OwnerFromRequest reads the owner identifier from the header or the
// user query parameter. ok is false unless it is a UUID.
func OwnerFromRequest(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get(OwnerHeader))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get("user"))
	}
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Owner returns the owner stored by RequireOwner.
func Owner(ctx context.Context) string {
	s, _ := ctx.Value(ownerKey{}).(string)
	return s
}

// WithOwner returns ctx carrying owner. Handlers under RequireOwner never
// need it; tests do.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// RequireOwner rejects requests without a valid owner identifier with 401
// and stores the owner in the request context otherwise.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_user", "a valid "+OwnerHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// writeError writes the API's standard error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
