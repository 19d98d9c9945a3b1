package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/service"
	"github.com/programpal/pathfinder/internal/service/search"
	"github.com/programpal/pathfinder/internal/storage"
)

// maxJSONBody bounds every JSON request body.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", service.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: malformed JSON: %w", service.ErrInvalidRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", service.ErrInvalidRequest)
	}
	return nil
}

// writeServiceError maps domain errors to status codes. Unexpected errors are
// logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProgramNotFound),
		errors.Is(err, repository.ErrDocumentNotFound),
		errors.Is(err, repository.ErrEmailNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, repository.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, search.ErrInvalidQuery),
		errors.Is(err, repository.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "message could not be delivered")
	case errors.Is(err, storage.ErrStorageExhausted):
		slog.Error("document storage exhausted", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "could not store file, please rename it and try again")
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pageFromQuery reads skip and limit, applying defaultLimit when limit is absent.
func pageFromQuery(r *http.Request, defaultLimit int) (repository.Page, error) {
	page := repository.Page{Limit: defaultLimit}
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, fmt.Errorf("%w: skip must be an integer", service.ErrInvalidRequest)
		}
		page.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, fmt.Errorf("%w: limit must be an integer", service.ErrInvalidRequest)
		}
		page.Limit = n
	}

	return page, page.Validate()
}
