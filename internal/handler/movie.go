package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

// GET /api/movies
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		h.serviceError(w, err, "list movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// GET /api/movies/{id}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "get movie")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GET /api/movies/category/{category}
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(chi.URLParam(r, "category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Category is required")
		return
	}

	movies, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		h.serviceError(w, err, "list movies by category")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// POST /api/movies
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var in domain.NewMovie
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a movie object")
		return
	}
	if err := validateStruct(in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	m, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.serviceError(w, err, "create movie")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/movies/%d", m.ID))
	writeJSON(w, http.StatusCreated, m)
}

// PUT /api/movies/{id}
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	var patch domain.MoviePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a movie object")
		return
	}
	if err := validateStruct(patch); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	m, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, err, "update movie")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DELETE /api/movies/{id}
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.serviceError(w, err, "delete movie")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Parse and validate the id path parameter
func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie id parameter")
		return 0, false
	}
	return id, true
}

func (h *Handler) serviceError(w http.ResponseWriter, err error, op string) {
	switch {
	// Movie not found
	case errors.Is(err, domain.ErrMovieNotFound):
		writeError(w, http.StatusNotFound, "movie_not_found", "Movie does not exist")
	case errors.Is(err, domain.ErrInvalidMovie), errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	// Request timeout
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
