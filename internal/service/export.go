package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/rv-planner/internal/domain"
)

// ExportService writes and restores full backups of an owner's collection.
type ExportService struct {
	store *CollectionStore
	now   func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(store *CollectionStore) *ExportService {
	return &ExportService{store: store, now: time.Now}
}

// Export returns the backup document of the owner's destinations and
// folders.
func (s *ExportService) Export(ctx context.Context, owner string) (domain.ExportDocument, error) {
	ds, err := s.store.Load(ctx, owner)
	if err != nil {
		return domain.ExportDocument{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return domain.ExportDocument{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return domain.ExportDocument{
		Version:    domain.ExportVersion,
		ExportDate: s.now().UTC(),
		Page:       domain.ExportPage,
		Data:       ds,
		Folders:    folders,
	}, nil
}

// Rows returns one flat row per destination for the CSV export, with the
// folder name resolved. A folder that no longer exists exports as empty.
func (s *ExportService) Rows(ctx context.Context, owner string) ([]domain.ExportRow, error) {
	doc, err := s.Export(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	names := make(map[string]string, len(doc.Folders))
	for _, f := range doc.Folders {
		names[f.ID] = f.Name
	}

	rows := make([]domain.ExportRow, 0, len(doc.Data))
	for _, d := range doc.Data {
		row := domain.ExportRow{
			ID:         d.ID,
			Name:       d.Name,
			State:      d.State,
			Region:     d.Region,
			Type:       d.Type,
			Latitude:   d.Latitude,
			Longitude:  d.Longitude,
			FolderName: names[d.FolderID],
			Priority:   d.Priority,
			Season:     d.Season,
			Notes:      d.Notes,
			CreatedAt:  d.CreatedAt,
		}
		if d.Visited() {
			row.Visited = true
			row.VisitedDate = d.Visit.Date
			row.VisitedNotes = d.Visit.Notes
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Filename returns the download name of a backup taken at t.
func Filename(t time.Time) string {
	return domain.ExportPage + "-backup-" + t.UTC().Format(time.DateOnly) + ".json"
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Destinations int  `json:"destinations"`
	Folders      int  `json:"folders"`
	FoldersKept  bool `json:"foldersKept"`
}

// importFile accepts both the page backup ({version, page, data}) and the
// older whole-site backup that keeps destinations under their own key.
type importFile struct {
	Version      *string              `json:"version"`
	ExportDate   string               `json:"exportDate"`
	Page         string               `json:"page"`
	Data         []domain.Destination `json:"data"`
	Destinations []domain.Destination `json:"destinations"`
	Folders      *[]domain.Folder     `json:"folders"`
}

// Import validates a backup file, asks the user to confirm, and replaces
// the owner's destinations with its contents. Folders are replaced only
// when the file carries them. Nothing is written if any record is
// invalid.
func (s *ExportService) Import(ctx context.Context, owner string, raw []byte, dlg Dialog) (ImportResult, error) {
	const op = "service.ExportService.Import"

	var file importFile
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&file); err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidImport, err)
	}
	if file.Version == nil || strings.TrimSpace(*file.Version) == "" {
		return ImportResult{}, fmt.Errorf("%s: %w: missing version", op, domain.ErrInvalidImport)
	}

	var records []domain.Destination
	switch {
	case file.Page != "" && file.Page != domain.ExportPage:
		return ImportResult{}, fmt.Errorf("%s: %w: file holds %q data, not destinations", op, domain.ErrInvalidImport, file.Page)
	case file.Data != nil:
		records = file.Data
	case file.Destinations != nil:
		records = file.Destinations
	default:
		return ImportResult{}, fmt.Errorf("%s: %w: no destinations in file", op, domain.ErrInvalidImport)
	}

	var folders []domain.Folder
	foldersKept := file.Folders == nil
	if foldersKept {
		current, err := s.store.LoadFolders(ctx, owner)
		if err != nil {
			return ImportResult{}, fmt.Errorf("%s: %w", op, err)
		}
		folders = current
	} else {
		folders = *file.Folders
	}

	records, err := cleanRecords(records, folders)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if !foldersKept {
		if err := checkFolders(folders); err != nil {
			return ImportResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	ok, err := dlg.Confirm(ctx, confirmMessage(file.ExportDate, len(records)))
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ImportResult{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
	}

	// Folders first, so no saved destination points at a folder that is
	// not there yet.
	if !foldersKept {
		if err := s.store.SaveFolders(ctx, owner, folders); err != nil {
			return ImportResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := s.store.Save(ctx, owner, records); err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return ImportResult{Destinations: len(records), Folders: len(folders), FoldersKept: foldersKept}, nil
}

// cleanRecords validates imported destinations and unfiles records whose
// folder is not in folders.
func cleanRecords(records []domain.Destination, folders []domain.Folder) ([]domain.Destination, error) {
	known := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		known[f.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]domain.Destination, 0, len(records))
	for i, d := range records {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("%w: record %d has no id", domain.ErrInvalidImport, i+1)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidImport, d.ID)
		}
		seen[d.ID] = struct{}{}

		t, err := domain.ParseDestinationType(string(d.Type))
		if err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", domain.ErrInvalidImport, d.ID, err)
		}
		d.Type = t
		d = d.WithDefaults()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", domain.ErrInvalidImport, d.ID, err)
		}
		if _, ok := known[d.FolderID]; d.FolderID != "" && !ok {
			d.FolderID = ""
		}
		out = append(out, d)
	}
	return out, nil
}

func checkFolders(folders []domain.Folder) error {
	seen := make(map[string]struct{}, len(folders))
	for i, f := range folders {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("%w: folder %d has no id", domain.ErrInvalidImport, i+1)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate folder id %q", domain.ErrInvalidImport, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

func confirmMessage(exportDate string, n int) string {
	from := "backup file"
	if t, err := time.Parse(time.RFC3339, exportDate); err == nil {
		from = t.Format("Jan 2, 2006") + " backup"
	}
	return fmt.Sprintf("Import %d destination(s) from %s?\n\nThis will REPLACE your current data. Make sure you have a backup first!", n, from)
}
