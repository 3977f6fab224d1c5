package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// ErrorResponse is the uniform envelope for all HTTP failures.
type ErrorResponse struct {
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Message    string    `json:"message"`
	Errors     []string  `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, fieldErrors []string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
		Method:     r.Method,
		Message:    message,
		Errors:     fieldErrors,
	})
}

// renderError maps domain errors onto the error envelope. Unknown errors are
// reported as a generic internal error so no internals leak to clients.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simpleobjects.ErrInvalidImageType),
		errors.Is(err, simpleobjects.ErrImageTooLarge),
		errors.Is(err, simpleobjects.ErrEmptyImage):
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, simpleobjects.ErrObjectNotFound):
		writeError(w, r, http.StatusNotFound, "object not found", nil)
	default:
		var storageErr *simpleobjects.StorageError
		if errors.As(err, &storageErr) {
			writeError(w, r, http.StatusInternalServerError, "failed to store image", nil)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error", nil)
	}
}
