package domain

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PaginationParams is a 1-indexed page window over the driver roster.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalises optional page and limit query values.
// Missing or non-positive values fall back to page 1 and a limit of 20;
// limits above 100 are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Offset is the number of rows skipped before this page starts.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
