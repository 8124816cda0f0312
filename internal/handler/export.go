// Package handler: export.go implements GET /export and POST /import.
// Export supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "name", "state", "region", "type", "latitude", "longitude",
	"visited", "visited_date", "visited_notes",
	"folder", "priority", "season", "notes", "created",
}

// GetExport implements GET /export.
// The JSON backup is the file Import reads back; ?format=csv gives a flat
// table with one row per destination.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		requestError(w, err.Error())
		return
	}
	owner := middleware.Owner(r.Context())

	switch f := strings.ToLower(deref(format)); f {
	case "", "json":
		doc, err := s.export.Export(r.Context(), owner)
		if err != nil {
			respondError(w, r, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="`+service.Filename(doc.ExportDate)+`"`)
		writeJSON(w, http.StatusOK, doc)
	case "csv":
		rows, err := s.export.Rows(r.Context(), owner)
		if err != nil {
			respondError(w, r, err)
			return
		}
		buf := buildCSV(rows)
		name := strings.TrimSuffix(service.Filename(time.Now()), ".json") + ".csv"
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	default:
		requestError(w, "format must be json or csv")
	}
}

// PostImport implements POST /import. The body is a backup file. Without
// ?confirm=true nothing is replaced and the response is 409 carrying the
// confirmation question, which names the record count and backup date.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	confirmed, err := bindConfirm(r.URL.Query())
	if err != nil {
		requestError(w, err.Error())
		return
	}
	if r.Body == nil || r.Body == http.NoBody {
		requestError(w, "request body is required")
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondBodyError(w, r, err)
		return
	}

	dlg := &requestDialog{confirmed: confirmed}
	res, err := s.export.Import(r.Context(), middleware.Owner(r.Context()), raw, dlg)
	if err != nil {
		respondDialogError(w, r, err, dlg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// buildCSV encodes rows as CSV.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Missing coordinates are encoded as empty strings.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.ID,
		r.Name,
		r.State,
		r.Region,
		string(r.Type),
		formatOptionalFloat(r.Latitude),
		formatOptionalFloat(r.Longitude),
		strconv.FormatBool(r.Visited),
		r.VisitedDate,
		r.VisitedNotes,
		r.FolderName,
		string(r.Priority),
		string(r.Season),
		r.Notes,
		formatDate(r.CreatedAt),
	}
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// formatDate renders t as an API date (YYYY-MM-DD), or "" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return openapi_types.Date{Time: t.UTC()}.String()
}
