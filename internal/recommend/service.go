package recommend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
	"github.com/actuallystonmai/movie-catalog-service/internal/evaluator"
	"github.com/actuallystonmai/movie-catalog-service/internal/metrics"
)

const (
	MsgNoAgeAppropriate = "No age-appropriate movies found."
	MsgFallbackForAge   = "Fallback: Top rated movies for your age."
	MsgFallbackTopRated = "Fallback: Top rated movies."
)

type CatalogFetcher interface {
	FetchAll(ctx context.Context) ([]domain.Movie, error)
}

// Dispatcher fans a prompt out to evaluator roles. *Pool implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, roles []evaluator.Role, prompt string) ([]RawResponse, error)
}

// ResultCache stores finished results per requester age.
type ResultCache interface {
	Get(ctx context.Context, age int) (*domain.RecommendationResult, bool, error)
	Set(ctx context.Context, age int, res *domain.RecommendationResult) error
}

type Service struct {
	catalog CatalogFetcher
	pool    Dispatcher
	roles   []evaluator.Role
	cache   ResultCache
	logger  zerolog.Logger
}

// NewService wires a recommendation service. cache may be nil.
func NewService(catalog CatalogFetcher, pool Dispatcher, roles []evaluator.Role, cache ResultCache, logger zerolog.Logger) *Service {
	return &Service{
		catalog: catalog,
		pool:    pool,
		roles:   roles,
		cache:   cache,
		logger:  logger,
	}
}

// Recommend always returns a result. Failures are absorbed into one of the
// fallback tiers and logged.
func (s *Service) Recommend(ctx context.Context, age int) (result *domain.RecommendationResult) {
	logger := s.logger.With().
		Str("request_id", uuid.NewString()).
		Int("user_age", age).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("recommendation pass panicked")
			result = s.topRated(ctx, age, logger)
		}
		metrics.Recommendations.WithLabelValues(string(result.Tier)).Inc()
	}()

	// Check cache
	if cached, ok := s.lookup(ctx, age, logger); ok {
		return cached
	}

	res, cacheable, err := s.recommend(ctx, age, logger)
	if err != nil {
		logger.Error().Err(err).Msg("recommendation pass failed")
		return s.topRated(ctx, age, logger)
	}

	if cacheable {
		s.store(ctx, age, res, logger)
	}
	logger.Info().
		Str("tier", string(res.Tier)).
		Int("count", len(res.Movies)).
		Msg("recommendation generated")
	return res
}

func (s *Service) recommend(ctx context.Context, age int, logger zerolog.Logger) (*domain.RecommendationResult, bool, error) {
	movies, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch catalog: %w", err)
	}

	filtered := FilterByAge(movies, age)
	if len(filtered) == 0 {
		return &domain.RecommendationResult{
			Movies:    []domain.Movie{},
			Reasoning: MsgNoAgeAppropriate,
			Tier:      domain.TierEmpty,
		}, false, nil
	}

	prompt := BuildPrompt(DescribeCatalog(filtered, age))
	responses, err := s.pool.Dispatch(ctx, s.roles, prompt)
	orchestrationFailed := err != nil
	if orchestrationFailed {
		logger.Warn().Err(err).Msg("concurrent evaluation failed, using fallback")
		responses = nil
	}

	list, fallbackUsed := Assemble(responses, filtered)
	if len(list) == 0 {
		return &domain.RecommendationResult{
			Movies:    TopRated(filtered, domain.MaxRecommendations),
			Reasoning: MsgFallbackForAge,
			Tier:      domain.TierFullFallback,
		}, false, nil
	}

	if orchestrationFailed {
		return &domain.RecommendationResult{
			Movies:    list,
			Reasoning: MsgFallbackForAge,
			Tier:      domain.TierPartialFallback,
		}, false, nil
	}

	tier := domain.TierDirect
	if fallbackUsed {
		tier = domain.TierPartialFallback
	}
	return &domain.RecommendationResult{
		Movies:    list,
		Reasoning: FormatReasoning(list),
		Tier:      tier,
	}, true, nil
}

// topRated is the last resort: the best rated age-appropriate movies,
// without asking any evaluator.
// It runs inside Recommend's recover, so it must not panic itself.
func (s *Service) topRated(ctx context.Context, age int, logger zerolog.Logger) (res *domain.RecommendationResult) {
	res = &domain.RecommendationResult{
		Movies:    []domain.Movie{},
		Reasoning: MsgFallbackTopRated,
		Tier:      domain.TierFullFallback,
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("fallback catalog fetch panicked")
			res.Movies = []domain.Movie{}
		}
	}()

	movies, err := s.catalog.FetchAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("fallback catalog fetch failed")
		return res
	}
	res.Movies = TopRated(FilterByAge(movies, age), domain.MaxRecommendations)
	return res
}

func (s *Service) lookup(ctx context.Context, age int, logger zerolog.Logger) (*domain.RecommendationResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, found, err := s.cache.Get(ctx, age)
	if err != nil {
		metrics.RecommendationCache.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Msg("cache get failed")
		return nil, false
	}
	if !found {
		metrics.RecommendationCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.RecommendationCache.WithLabelValues("hit").Inc()
	cached.CacheHit = true
	return cached, true
}

func (s *Service) store(ctx context.Context, age int, res *domain.RecommendationResult, logger zerolog.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, age, res); err != nil {
		logger.Warn().Err(err).Msg("cache set failed")
	}
}
