// Package api exposes the object lifecycle over HTTP: multipart create,
// list, get, and delete, with explicit request validation and a uniform
// error envelope.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	"github.com/tendant/simple-objects/pkg/simpleobjects/imagestore"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger parts spill to temp files.
const maxMultipartMemory = 8 << 20

// ObjectsHandler handles HTTP requests for objects
type ObjectsHandler struct {
	service simpleobjects.Service
	logger  zerolog.Logger
}

// NewObjectsHandler creates a new objects handler
func NewObjectsHandler(service simpleobjects.Service, logger zerolog.Logger) *ObjectsHandler {
	return &ObjectsHandler{
		service: service,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Routes returns the routes for objects
func (h *ObjectsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateObject)
	r.Get("/", h.ListObjects)
	r.Get("/{id}", h.GetObject)
	r.Delete("/{id}", h.DeleteObject)

	return r
}

// validateCreateObject checks the DTO shape before any side effect occurs.
// It returns one message per violated constraint.
func validateCreateObject(title, description string) []string {
	var violations []string

	if n := utf8.RuneCountInString(title); n < simpleobjects.TitleMinLength || n > simpleobjects.TitleMaxLength {
		violations = append(violations, fmt.Sprintf("title must be between %d and %d characters",
			simpleobjects.TitleMinLength, simpleobjects.TitleMaxLength))
	}
	if n := utf8.RuneCountInString(description); n < simpleobjects.DescriptionMinLength || n > simpleobjects.DescriptionMaxLength {
		violations = append(violations, fmt.Sprintf("description must be between %d and %d characters",
			simpleobjects.DescriptionMinLength, simpleobjects.DescriptionMaxLength))
	}

	return violations
}

// CreateObject creates a new object from a multipart form with title,
// description, and an optional image file
func (h *ObjectsHandler) CreateObject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")

	if violations := validateCreateObject(title, description); len(violations) > 0 {
		writeError(w, r, http.StatusBadRequest, "validation failed", violations)
		return
	}

	req := simpleobjects.CreateObjectRequest{
		Title:       title,
		Description: description,
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		// Read at most one byte past the limit so oversized uploads are
		// rejected by validation without buffering the whole payload.
		data, readErr := io.ReadAll(io.LimitReader(file, imagestore.MaxImageBytes+1))
		if readErr != nil {
			writeError(w, r, http.StatusBadRequest, "failed to read uploaded file", nil)
			return
		}
		req.Image = &simpleobjects.ImageUpload{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
			FileName:    header.Filename,
		}
	case errors.Is(err, http.ErrMissingFile):
		// File is optional.
	default:
		writeError(w, r, http.StatusBadRequest, "invalid file field", nil)
		return
	}

	record, err := h.service.CreateObject(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create object")
		renderError(w, r, err)
		return
	}

	h.logger.Info().Str("object_id", record.ID.String()).Bool("has_image", record.ImageURL != nil).Msg("object created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// ListObjects returns all objects, most recent first
func (h *ObjectsHandler) ListObjects(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListObjects(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list objects")
		renderError(w, r, err)
		return
	}

	if records == nil {
		records = []*simpleobjects.ObjectRecord{}
	}
	render.JSON(w, r, records)
}

// GetObject returns a single object by ID
func (h *ObjectsHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// An unparseable ID cannot match any record.
		writeError(w, r, http.StatusNotFound, "object not found", nil)
		return
	}

	record, err := h.service.GetObject(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, record)
}

// DeleteObject deletes an object by ID
func (h *ObjectsHandler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "object not found", nil)
		return
	}

	if err := h.service.DeleteObject(r.Context(), id); err != nil {
		if !errors.Is(err, simpleobjects.ErrObjectNotFound) {
			h.logger.Error().Err(err).Str("object_id", id.String()).Msg("failed to delete object")
		}
		renderError(w, r, err)
		return
	}

	h.logger.Info().Str("object_id", id.String()).Msg("object deleted")
	render.NoContent(w, r)
}
