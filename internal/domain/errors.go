package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource (document, destination, folder, catalog entry) does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty destination name, unknown destination type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when adding a destination whose ID is already in
// the user's collection. Callers are expected to check first; there is no
// atomic upsert.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("already exists")

// ErrCancelled is returned when a dialog resolves to "cancel".
// A cancelled flow leaves the stored collection untouched.
var ErrCancelled = errors.New("cancelled")

// ErrNotSaved is returned when a change could not be persisted.
// The change is lost; the caller must tell the user.
// Handlers should map this to HTTP 503.
var ErrNotSaved = errors.New("change was not saved")

// ErrStorageFull is returned when a document exceeds the configured storage
// quota. It always travels wrapped together with ErrNotSaved.
var ErrStorageFull = errors.New("storage is full")

// ErrInvalidImport is returned when an import file is malformed, misses the
// version field, or holds invalid records. Nothing is imported.
// Handlers should map this to HTTP 400.
var ErrInvalidImport = errors.New("invalid import file")
