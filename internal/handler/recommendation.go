package handler

import (
	"net/http"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

// POST /api/movies/recommendations
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", `Request body must be {"user_age": n}`)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// The service never fails; degraded results carry a fallback tier instead.
	writeJSON(w, http.StatusOK, h.service.Recommend(r.Context(), *req.UserAge))
}

// POST /api/movies/recommendations/batch
func (h *Handler) RecommendBatch(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", `Request body must be {"user_ages": [n, ...]}`)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.service.RecommendBatch(r.Context(), req.UserAges)
	if err != nil {
		h.serviceError(w, err, "batch recommendations")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
