package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
	"github.com/actuallystonmai/movie-catalog-service/internal/recommend"
	"github.com/actuallystonmai/movie-catalog-service/internal/stream"
)

const batchConcurrency = 4

type MovieStore interface {
	FetchAll(ctx context.Context) ([]domain.Movie, error)
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Movie, error)
	Create(ctx context.Context, in domain.NewMovie) (*domain.Movie, error)
	Update(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	Delete(ctx context.Context, id int64) error
}

// CacheInvalidator drops cached recommendations after a catalog change.
type CacheInvalidator interface {
	ClearRecommendations(ctx context.Context) error
}

type Recommender interface {
	Recommend(ctx context.Context, age int) *domain.RecommendationResult
}

type Streamer interface {
	Stream(ctx context.Context, category string) *stream.Stream
}

type Service struct {
	store       MovieStore
	cache       CacheInvalidator
	recommender Recommender
	streamer    Streamer
	logger      zerolog.Logger
}

// NewService wires the catalog service. cache may be nil.
func NewService(store MovieStore, cache CacheInvalidator, recommender Recommender, streamer Streamer, logger zerolog.Logger) *Service {
	return &Service{
		store:       store,
		cache:       cache,
		recommender: recommender,
		streamer:    streamer,
		logger:      logger,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Movie, error) {
	return s.store.FetchAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Movie, error) {
	return s.store.GetByCategory(ctx, category)
}

func (s *Service) Create(ctx context.Context, in domain.NewMovie) (*domain.Movie, error) {
	m, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info().Int64("movie_id", m.ID).Str("title", m.Title).Msg("movie created")
	return m, nil
}

// Update applies patch to the stored movie. Fields the patch leaves nil are
// kept as they are.
func (s *Service) Update(ctx context.Context, id int64, patch domain.MoviePatch) (*domain.Movie, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(current)
	updated, err := s.store.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info().Int64("movie_id", id).Msg("movie deleted")
	return nil
}

// StreamByCategory starts a paced stream of one category's movies.
func (s *Service) StreamByCategory(ctx context.Context, category string) *stream.Stream {
	return s.streamer.Stream(ctx, category)
}

func (s *Service) Recommend(ctx context.Context, age int) *domain.RecommendationResult {
	return s.recommender.Recommend(ctx, age)
}

// RecommendBatch runs one recommendation pass per age with bounded
// concurrency. Results keep the order of ages.
func (s *Service) RecommendBatch(ctx context.Context, ages []int) (*domain.BatchResponse, error) {
	if len(ages) == 0 || len(ages) > domain.MaxBatchAges {
		return nil, fmt.Errorf("%w: batch must hold 1 to %d ages", domain.ErrInvalidRequest, domain.MaxBatchAges)
	}
	start := time.Now()

	// Process ages concurrently with bounded worker pool
	results := make([]domain.BatchAgeResult, len(ages))
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency) // semaphore

	for i, age := range ages {
		wg.Add(1)
		go func(idx, age int) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Interface("panic", r).Int("user_age", age).Msg("batch recommendation panicked")
					results[idx] = domain.BatchAgeResult{
						UserAge: age,
						Result: &domain.RecommendationResult{
							Movies:    []domain.Movie{},
							Reasoning: recommend.MsgFallbackTopRated,
							Tier:      domain.TierFullFallback,
						},
					}
				}
			}()

			results[idx] = domain.BatchAgeResult{
				UserAge: age,
				Result:  s.recommender.Recommend(ctx, age),
			}
		}(i, age)
	}
	wg.Wait()

	// summary
	byTier := make(map[domain.Tier]int)
	for _, r := range results {
		byTier[r.Result.Tier]++
	}

	return &domain.BatchResponse{
		Results: results,
		Summary: domain.BatchSummary{
			Count:            len(results),
			ByTier:           byTier,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Cache invalidation errors are logged only; stale entries expire with the TTL.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ClearRecommendations(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
}
