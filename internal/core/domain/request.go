package domain

// SortOrder is the direction of a sorted fetch.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FetchRequest fully describes one query against the reporting endpoint.
// It is constructed per UI interaction and not reused; the cache key is
// derived from its canonical JSON serialization.
type FetchRequest struct {
	Filters   FilterSet `json:"filters"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
	SortField string    `json:"sort_field,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
	Chunked   bool      `json:"chunked,omitempty"`
}

// Normalized returns a copy with paging defaults applied.
func (r FetchRequest) Normalized() FetchRequest {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 50
	}
	if r.SortOrder == "" {
		r.SortOrder = SortDesc
	}
	return r
}
