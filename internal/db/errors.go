package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	// ErrInvalidQuery is returned when the engine rejects a query (syntax, unknown field).
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Op constants map to Redis command names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHGetAll     = "HGETALL"
	OpHSet        = "HSET"
	OpPing        = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// QueryError carries the engine's rejection message for a query. It matches ErrInvalidQuery.
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string { return ErrInvalidQuery.Error() + ": " + e.Reason }
func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }
