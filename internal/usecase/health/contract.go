package health

import "context"

// DBPinger checks index store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the search index exists.
type IndexChecker interface {
	Exists(ctx context.Context) (bool, error)
}
