package db

// Query is the input for a raw FT.SEARCH call. Text is passed to the engine as-is.
type Query struct {
	IndexName    string
	Text         string
	Offset       int
	Limit        int
	ReturnFields []string // nil returns every stored field
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
