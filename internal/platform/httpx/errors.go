package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// StatusFor maps domain error kinds to HTTP status codes.
func StatusFor(err error) int {
	if errors.Is(err, shared.ErrNotFound) {
		return http.StatusNotFound
	}
	// Validation, stock and store failures all surface as 400.
	return http.StatusBadRequest
}

// RespondBindError writes the response for a failed Bind call.
func RespondBindError(w http.ResponseWriter, err error) {
	var fieldErr *shared.FieldError
	if errors.As(err, &fieldErr) {
		Error(w, http.StatusBadRequest, fieldErr.Error())
		return
	}
	Fail(w, http.StatusBadRequest, "invalid request body", err)
}

// InvalidID writes the response for a malformed path identifier.
func InvalidID(w http.ResponseWriter) {
	Message(w, http.StatusBadRequest, "invalid id")
}
