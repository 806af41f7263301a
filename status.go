package docsift

import (
	"context"
	"errors"
	"net/http"
)

// StatusCode classifies a service error as an HTTP status. Transports that
// carry numeric codes, such as NATS micro error headers, reuse it.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, ErrInvalidPDF),
		errors.Is(err, ErrNoFiles),
		errors.Is(err, ErrDuplicateFilename),
		errors.Is(err, ErrDocumentRejected),
		errors.Is(err, ErrInvalidMetadataQuery),
		errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
