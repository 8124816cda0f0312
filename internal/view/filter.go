// Package view turns a user's collection and the catalog into declarative
// view descriptions: the filtered working set, list cards, map pins and the
// folder sidebar. Everything here is a pure function of its inputs; the
// HTTP handlers serialise the results and the terminal client draws them.
package view

import (
	"strings"

	"github.com/pkordes/rv-planner/internal/domain"
)

// Apply returns the destinations matching f, in collection order.
// The result is never nil.
func Apply(collection []domain.Destination, f domain.FilterState) []domain.Destination {
	f = f.Normalize()
	out := make([]domain.Destination, 0, len(collection))
	for _, d := range collection {
		if matches(d, f) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d domain.Destination, f domain.FilterState) bool {
	switch f.Folder {
	case domain.FolderAll:
	case domain.FolderWishlist:
		if d.Visited() {
			return false
		}
	case domain.FolderVisited:
		if !d.Visited() {
			return false
		}
	default:
		if d.FolderID != f.Folder {
			return false
		}
	}

	if f.Type != domain.FilterAll && string(d.Type) != f.Type {
		return false
	}
	if f.Region != domain.FilterAll && d.Region != f.Region {
		return false
	}
	if f.Search == "" {
		return true
	}
	return containsFold(d.Name, f.Search) ||
		containsFold(d.State, f.Search) ||
		containsFold(d.Notes, f.Search)
}

// containsFold reports whether needle, already lowercased, occurs in s
// ignoring case.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// WorkingSet is the output of Merge: what the list shows and what the map
// pins, computed from the same filter pass.
type WorkingSet struct {
	List []domain.Destination
	Pins []Pin
}

// Merge filters the collection and adds the curated catalog entries the
// user has not adopted to the map pins.
//
// A catalog entry whose ID is anywhere in the collection is suppressed,
// even when the user's copy is filtered out: the user's record always wins
// and nothing is ever pinned twice.
func Merge(collection []domain.Destination, curated []domain.CatalogEntry, f domain.FilterState) WorkingSet {
	list := Apply(collection, f)

	pins := make([]Pin, 0, len(list)+len(curated))
	for _, d := range list {
		if p, ok := destinationPin(d); ok {
			pins = append(pins, p)
		}
	}

	adopted := idSet(collection)
	for _, e := range curated {
		if _, ok := adopted[e.ID]; ok {
			continue
		}
		if p, ok := catalogPin(e); ok {
			pins = append(pins, p)
		}
	}

	return WorkingSet{List: list, Pins: pins}
}

// Discover returns the discoverable entries the user has not adopted yet,
// narrowed by a case-insensitive search on name and state.
func Discover(collection []domain.Destination, entries []domain.CatalogEntry, search string) []domain.CatalogEntry {
	search = strings.ToLower(strings.TrimSpace(search))
	adopted := idSet(collection)

	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := adopted[e.ID]; ok {
			continue
		}
		if search != "" && !containsFold(e.Name, search) && !containsFold(e.State, search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func idSet(collection []domain.Destination) map[string]struct{} {
	ids := make(map[string]struct{}, len(collection))
	for _, d := range collection {
		ids[d.ID] = struct{}{}
	}
	return ids
}

// FolderCount is one folder row of the sidebar.
type FolderCount struct {
	Folder domain.Folder `json:"folder"`
	Count  int           `json:"count"`
}

// Sidebar holds the pseudo-folder totals and the per-folder member counts.
type Sidebar struct {
	All      int           `json:"all"`
	Wishlist int           `json:"wishlist"`
	Visited  int           `json:"visited"`
	Folders  []FolderCount `json:"folders"`
}

// FolderCounts builds the sidebar. Members pointing at a folder that no
// longer exists are counted in the totals only.
func FolderCounts(collection []domain.Destination, folders []domain.Folder) Sidebar {
	s := Sidebar{All: len(collection), Folders: make([]FolderCount, 0, len(folders))}
	perFolder := make(map[string]int, len(folders))
	for _, d := range collection {
		if d.Visited() {
			s.Visited++
		} else {
			s.Wishlist++
		}
		if d.FolderID != "" {
			perFolder[d.FolderID]++
		}
	}
	for _, f := range folders {
		s.Folders = append(s.Folders, FolderCount{Folder: f, Count: perFolder[f.ID]})
	}
	return s
}
