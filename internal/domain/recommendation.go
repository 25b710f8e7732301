package domain

// Tier records which path produced a recommendation result.
type Tier string

const (
	// TierEmpty means no movie passed the age gate.
	TierEmpty Tier = "empty"
	// TierDirect means every movie came from evaluator answers.
	TierDirect Tier = "direct"
	// TierPartialFallback means the fallback rules appended at least one movie.
	TierPartialFallback Tier = "partial_fallback"
	// TierFullFallback means the result is the top rated age-appropriate movies.
	TierFullFallback Tier = "full_fallback"
)

const MaxRecommendations = 3

type RecommendationResult struct {
	Movies    []Movie `json:"recommended_movies"`
	Reasoning string  `json:"reasoning"`
	Tier      Tier    `json:"tier"`
	CacheHit  bool    `json:"cache_hit"`
}

// RecommendationRequest is the body of a recommendation call. UserAge is a
// pointer so a missing age is rejected instead of read as zero.
type RecommendationRequest struct {
	UserAge *int `json:"user_age" validate:"required,gte=0,lte=120"`
}
