package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// GET /api/movies/category/{category}/stream
//
// Server-sent events, one movie per event, paced by the stream. The stream
// stops when the client goes away.
func (h *Handler) StreamByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(chi.URLParam(r, "category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Category is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s := h.service.StreamByCategory(r.Context(), category)
	defer s.Stop()

	for m := range s.All() {
		payload, err := json.Marshal(m)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}

	<-s.Done()
	if err := s.Err(); err != nil {
		h.logger.Error().Err(err).Str("category", category).Msg("category stream failed")
		payload, _ := json.Marshal(ErrorResponse{Error: "stream_failed", Message: "Stream ended unexpectedly"})
		_, _ = fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
	}
}
