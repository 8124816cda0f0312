package domain

import "time"

// Folder is a user-defined label that groups destinations.
// Folders are flat: no nesting, and names need not be unique.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
