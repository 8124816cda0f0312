package domain

// Page size limits for list views.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams selects one page of a filtered, sorted working set.
// Page counts from 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams resolves optional page and limit query values. Missing
// or non-positive values take the defaults; Limit is clamped to MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	return PaginationParams{
		Page:  positiveOr(page, 1),
		Limit: min(positiveOr(limit, DefaultPageLimit), MaxPageLimit),
	}
}

func positiveOr(v *int, def int) int {
	if v == nil || *v < 1 {
		return def
	}
	return *v
}

// Offset is the index of the first destination on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Bounds returns the half-open slice range of the page within n items.
// A page past the end is empty, however large Page is.
func (p PaginationParams) Bounds(n int) (start, end int) {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > n/p.Limit {
		return n, n
	}
	start = min(p.Offset(), n)
	end = min(start+p.Limit, n)
	return start, end
}
