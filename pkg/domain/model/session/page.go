package session

// PageSize is the number of sessions per page, as the mobile client shows them.
const PageSize = 10

// Page is one page of a user's sessions, newest first. Page is zero-based.
type Page struct {
	Sessions   []*Session `json:"sessions" yaml:"sessions"`
	Page       int        `json:"page" yaml:"page"`
	TotalPages int        `json:"total_pages" yaml:"total_pages"`
	TotalCount int        `json:"total_count" yaml:"total_count"`
}

// TotalPages returns how many pages count items fill.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
