package shared

// Filter holds common list query options shared by repositories
type Filter struct {
	Search   string
	Filters  map[string]interface{}
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the row limit for the current page, or 0 for no limit
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 0
	}
	return f.PageSize
}
