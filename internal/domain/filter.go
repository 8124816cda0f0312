package domain

import "strings"

// Pseudo folders accepted by FilterState.Folder besides real folder IDs.
const (
	FolderAll      = "all"
	FolderWishlist = "wishlist" // not yet visited
	FolderVisited  = "visited"

	// folderUnfiledBucket is the older name of the wishlist pseudo folder.
	folderUnfiledBucket = "unfiled-bucket"
)

// FilterAll disables the type or region filter.
const FilterAll = "all"

// FilterState is the user's current filter selection.
// Empty fields behave like "all".
type FilterState struct {
	Folder string
	Type   string
	Region string
	Search string
}

// Normalize fills empty selections with "all", maps legacy pseudo-folder
// names, and lowercases and trims the search text.
func (f FilterState) Normalize() FilterState {
	f.Folder = strings.TrimSpace(f.Folder)
	switch f.Folder {
	case "":
		f.Folder = FolderAll
	case folderUnfiledBucket:
		f.Folder = FolderWishlist
	}
	if f.Type = strings.TrimSpace(f.Type); f.Type == "" {
		f.Type = FilterAll
	}
	if f.Region = strings.TrimSpace(f.Region); f.Region == "" {
		f.Region = FilterAll
	}
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	return f
}
