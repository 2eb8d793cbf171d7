package interfaces

import "context"

// ContentSearchRequest is the query issued to the content-search backend.
// Query is the request body (filters, limit and search params); Headers are
// forwarded verbatim.
type ContentSearchRequest struct {
	Query   map[string]any
	Headers map[string]string
}

// ContentSearchResult carries the fields returned by the content-search
// backend. Fields holds the result payload (content, count, facets...).
// APIID and ResMsgID are the response envelope markers.
type ContentSearchResult struct {
	APIID    string
	ResMsgID string
	Fields   map[string]any
}

// ContentSearcher resolves content sections.
type ContentSearcher interface {
	Search(ctx context.Context, req ContentSearchRequest) (*ContentSearchResult, error)
}

// IndexQuery is the query issued to the search-index backend.
type IndexQuery struct {
	TypeName string
	Query    string
	Filters  map[string]any
	Limit    int
	SortBy   map[string]string
}

// IndexResult is the search-index backend response.
type IndexResult struct {
	Count   int64
	Content []map[string]any
}

// SearchIndex resolves batch sections. Calls are synchronous.
type SearchIndex interface {
	Search(ctx context.Context, query IndexQuery) (*IndexResult, error)
}
