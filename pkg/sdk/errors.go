package productsearch

import "github.com/kailas-cloud/productsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMalformedEvent     = domain.ErrMalformedEvent
	ErrIndexUnavailable   = domain.ErrIndexUnavailable
	ErrInvalidDocument    = domain.ErrInvalidDocument
	ErrDocumentNotFound   = domain.ErrDocumentNotFound
	ErrBadQuery           = domain.ErrBadQuery
	ErrServiceUnavailable = domain.ErrServiceUnavailable
)
