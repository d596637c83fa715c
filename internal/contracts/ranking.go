package contracts

// RiskLevel is the qualitative label derived from a composite score
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// BidSignal is one ranking candidate: a bid plus its contractor's signals.
// Nil, non-finite or negative signal fields fall back to the scorer defaults.
// BidID is the numeric bids.id and must be unique within one ranking.
// ⭐ SSOT: 스코어러 입력 형식
type BidSignal struct {
	BidID            int64    `json:"bidId" yaml:"bid_id"`
	Amount           float64  `json:"amount" yaml:"amount"`
	ContractorRating *float64 `json:"contractorRating,omitempty" yaml:"contractor_rating"`
	YearsExperience  *int     `json:"yearsExperience,omitempty" yaml:"years_experience"`
	TotalProjects    *int     `json:"totalProjects,omitempty" yaml:"total_projects"`
	EstimatedDays    *int     `json:"estimatedDays,omitempty" yaml:"estimated_days"` // passthrough, not scored
}

// Recommendation is the scored view of one candidate
type Recommendation struct {
	BidID           int64     `json:"bidId"`
	Score           float64   `json:"score"`
	PriceScore      float64   `json:"priceScore"`
	RatingScore     float64   `json:"ratingScore"`
	ExperienceScore float64   `json:"experienceScore"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Reasons         []string  `json:"reasons"`
	EstimatedDays   *int      `json:"estimatedDays,omitempty"`
}

// Ranking is the output of one ranking pass.
// Recommendations keep input order; TopRecommendationBidID is nil for an empty set.
type Ranking struct {
	Recommendations        []Recommendation `json:"recommendations"`
	TopRecommendationBidID *int64           `json:"topRecommendationBidId"`
	Excluded               map[int64]string `json:"excluded,omitempty"` // bid id → reason
	ConfigHash             string           `json:"configHash,omitempty"`
}

// Top returns the top recommendation, or nil
func (r *Ranking) Top() *Recommendation {
	if r.TopRecommendationBidID == nil {
		return nil
	}
	for i := range r.Recommendations {
		if r.Recommendations[i].BidID == *r.TopRecommendationBidID {
			return &r.Recommendations[i]
		}
	}
	return nil
}
