package domain

import "errors"

var (
	// ErrMalformedEvent signals a change event whose envelope or nested details failed to decode.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrIndexUnavailable signals that the index store could not be reached for a write or schema setup.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrInvalidDocument signals a document that cannot be written (no key or no fields).
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrBadQuery signals a query rejected by the search engine.
	ErrBadQuery = errors.New("bad query")
	// ErrServiceUnavailable signals that a query could not reach the index store.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// BadQueryError is a query the engine rejected, with the engine's own message.
// It matches ErrBadQuery.
type BadQueryError struct {
	Reason string
}

func (e *BadQueryError) Error() string { return ErrBadQuery.Error() + ": " + e.Reason }

// Is reports ErrBadQuery as the error's kind.
func (e *BadQueryError) Is(target error) bool { return target == ErrBadQuery }
