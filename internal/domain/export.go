package domain

import "time"

// ExportVersion is written to every export and required on import.
const ExportVersion = "1.0"

// ExportPage names the collection an export document belongs to.
const ExportPage = "destinations"

// ExportDocument is the JSON backup file of a user's collection.
// Folders is optional so that files written by the browser app, which only
// carry destinations, still import.
type ExportDocument struct {
	Version    string        `json:"version"`
	ExportDate time.Time     `json:"exportDate"`
	Page       string        `json:"page,omitempty"`
	Data       []Destination `json:"data"`
	Folders    []Folder      `json:"folders,omitempty"`
}

// ExportRow is a single row in the flat CSV export: one row per
// destination, with the folder name resolved and the visit fields spread
// into columns. Unvisited destinations have empty visit columns.
type ExportRow struct {
	ID        string
	Name      string
	State     string
	Region    string
	Type      DestinationType
	Latitude  *float64
	Longitude *float64

	Visited      bool
	VisitedDate  string
	VisitedNotes string

	FolderName string // empty when unfiled
	Priority   Priority
	Season     Season
	Notes      string
	CreatedAt  time.Time
}
