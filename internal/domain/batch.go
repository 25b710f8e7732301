package domain

const MaxBatchAges = 50

type BatchRequest struct {
	UserAges []int `json:"user_ages" validate:"required,min=1,max=50,dive,gte=0,lte=120"`
}

type BatchAgeResult struct {
	UserAge int                   `json:"user_age"`
	Result  *RecommendationResult `json:"result"`
}

type BatchSummary struct {
	Count            int          `json:"count"`
	ByTier           map[Tier]int `json:"by_tier"`
	ProcessingTimeMs int64        `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Results  []BatchAgeResult `json:"results"`
	Summary  BatchSummary     `json:"summary"`
	Metadata BatchMeta        `json:"metadata"`
}
