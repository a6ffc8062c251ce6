// Package shared holds list plumbing common to the master data packages.
package shared

// ListFilters represents standard list endpoint filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	IsActive   *bool
	CategoryID *int64
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Normalize clamps pagination to sane defaults.
func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

// Offset converts page/limit into a SQL offset.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
