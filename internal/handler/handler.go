package handler

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
	"github.com/actuallystonmai/movie-catalog-service/internal/stream"
)

// MovieService is what the handlers need from the service layer.
type MovieService interface {
	List(ctx context.Context) ([]domain.Movie, error)
	Get(ctx context.Context, id int64) (*domain.Movie, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Movie, error)
	Create(ctx context.Context, in domain.NewMovie) (*domain.Movie, error)
	Update(ctx context.Context, id int64, patch domain.MoviePatch) (*domain.Movie, error)
	Delete(ctx context.Context, id int64) error
	StreamByCategory(ctx context.Context, category string) *stream.Stream
	Recommend(ctx context.Context, age int) *domain.RecommendationResult
	RecommendBatch(ctx context.Context, ages []int) (*domain.BatchResponse, error)
}

type Handler struct {
	service MovieService
	logger  zerolog.Logger
}

func NewHandler(svc MovieService, logger zerolog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// decodeJSON reads a request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
