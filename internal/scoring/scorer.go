package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/wonny/buildbid/backend/internal/contracts"
)

// ExcludedInvalidAmount is the Ranking.Excluded reason for a bad amount
const ExcludedInvalidAmount = "amount must be a positive finite number"

// Scorer ranks bids with a fixed Config. It holds no mutable state and is safe
// for concurrent use.
// ⭐ SSOT: 입찰 점수 계산은 여기서만
type Scorer struct {
	cfg  Config
	hash string
}

// NewScorer validates cfg and returns a Scorer bound to it
func NewScorer(cfg Config) (*Scorer, error) {
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}

	hash, err := Hash(&cfg)
	if err != nil {
		return nil, fmt.Errorf("hash scoring config: %w", err)
	}

	return &Scorer{cfg: cfg, hash: hash}, nil
}

var defaultScorer = mustDefaultScorer()

func mustDefaultScorer() *Scorer {
	s, err := NewScorer(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the scorer built from DefaultConfig
func Default() *Scorer {
	return defaultScorer
}

// RankBids ranks candidates with the default configuration
func RankBids(budgetReference float64, candidates []contracts.BidSignal) contracts.Ranking {
	return defaultScorer.Rank(budgetReference, candidates)
}

// Config returns a copy of the scorer's configuration
func (s *Scorer) Config() Config {
	return s.cfg
}

// ConfigHash identifies the configuration that produced a ranking
func (s *Scorer) ConfigHash() string {
	return s.hash
}

// resolved is a candidate with defaults applied
type resolved struct {
	signal   contracts.BidSignal
	rating   float64
	years    int
	projects int
}

// Rank scores every eligible candidate and picks the top recommendation.
//
// Candidates must already be restricted to decidable (pending) bids; see
// EligibleSignals. A budgetReference <= 0, NaN or Inf means "no anchor" and
// price is normalized across the candidates instead. Candidates with an
// invalid amount are left out and reported in Ranking.Excluded.
func (s *Scorer) Rank(budgetReference float64, candidates []contracts.BidSignal) contracts.Ranking {
	ranking := contracts.Ranking{
		Recommendations: make([]contracts.Recommendation, 0, len(candidates)),
		ConfigHash:      s.hash,
	}

	eligible := make([]resolved, 0, len(candidates))
	for _, c := range candidates {
		if !validAmount(c.Amount) {
			if ranking.Excluded == nil {
				ranking.Excluded = make(map[int64]string)
			}
			ranking.Excluded[c.BidID] = ExcludedInvalidAmount
			continue
		}
		eligible = append(eligible, s.resolve(c))
	}

	anchor := hasAnchor(budgetReference)
	minAmount, maxAmount := amountRange(eligible)

	top := -1
	for _, c := range eligible {
		var price float64
		if anchor {
			price = s.anchoredPriceScore(c.signal.Amount, budgetReference)
		} else {
			price = relativePriceScore(c.signal.Amount, minAmount, maxAmount)
		}

		rating := s.ratingScore(c.rating)
		experience := s.experienceScore(c.years, c.projects)
		score := clamp(s.cfg.Weights.Price*price +
			s.cfg.Weights.Rating*rating +
			s.cfg.Weights.Experience*experience)

		rec := contracts.Recommendation{
			BidID:           c.signal.BidID,
			Score:           score,
			PriceScore:      price,
			RatingScore:     rating,
			ExperienceScore: experience,
			RiskLevel:       s.RiskLevelFor(score),
			Reasons:         s.reasons(c, price, budgetReference, anchor),
			EstimatedDays:   c.signal.EstimatedDays,
		}
		ranking.Recommendations = append(ranking.Recommendations, rec)

		// strictly greater: 동점이면 먼저 나온 입찰 유지
		if top < 0 || rec.Score > ranking.Recommendations[top].Score {
			top = len(ranking.Recommendations) - 1
		}
	}

	if top >= 0 {
		id := ranking.Recommendations[top].BidID
		ranking.TopRecommendationBidID = &id
	}

	return ranking
}

// RiskLevelFor maps a composite score onto High / Medium / Low
func (s *Scorer) RiskLevelFor(score float64) contracts.RiskLevel {
	switch {
	case score >= s.cfg.Thresholds.LowRisk:
		return contracts.RiskLow
	case score >= s.cfg.Thresholds.MediumRisk:
		return contracts.RiskMedium
	default:
		return contracts.RiskHigh
	}
}

// resolve substitutes defaults for missing, non-finite or negative signals
func (s *Scorer) resolve(c contracts.BidSignal) resolved {
	r := resolved{
		signal:   c,
		rating:   s.cfg.Defaults.ContractorRating,
		years:    s.cfg.Defaults.YearsExperience,
		projects: s.cfg.Defaults.TotalProjects,
	}
	if c.ContractorRating != nil && isFinite(*c.ContractorRating) {
		r.rating = *c.ContractorRating
	}
	if c.YearsExperience != nil && *c.YearsExperience >= 0 {
		r.years = *c.YearsExperience
	}
	if c.TotalProjects != nil && *c.TotalProjects >= 0 {
		r.projects = *c.TotalProjects
	}
	return r
}

// anchoredPriceScore: 100 at the budget, falling linearly to 0 at PriceBand*budget away
func (s *Scorer) anchoredPriceScore(amount, budget float64) float64 {
	diff := math.Abs(amount - budget)
	maxDiff := budget * s.cfg.Thresholds.PriceBand
	return clamp(100 - diff/maxDiff*100)
}

// relativePriceScore: cheapest candidate 100, most expensive 0
func relativePriceScore(amount, minAmount, maxAmount float64) float64 {
	spread := maxAmount - minAmount
	if spread == 0 {
		spread = 1
	}
	return clamp(100 - (amount-minAmount)/spread*100)
}

func (s *Scorer) ratingScore(rating float64) float64 {
	return clamp(rating / RatingScale * 100)
}

func (s *Scorer) experienceScore(years, projects int) float64 {
	e := s.cfg.Experience
	return clamp(float64(years)/e.YearsScale*50 + float64(projects)/e.ProjectsScale*50)
}

func amountRange(candidates []resolved) (minAmount, maxAmount float64) {
	for i, c := range candidates {
		if i == 0 || c.signal.Amount < minAmount {
			minAmount = c.signal.Amount
		}
		if i == 0 || c.signal.Amount > maxAmount {
			maxAmount = c.signal.Amount
		}
	}
	return minAmount, maxAmount
}

func validAmount(amount float64) bool {
	return isFinite(amount) && amount > 0
}

func hasAnchor(budget float64) bool {
	return isFinite(budget) && budget > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// EligibleSignals builds ranking candidates from a project's bids.
// Only pending bids are decidable, so every other status is dropped here.
// signals is keyed by contractor id; a missing entry leaves every signal nil.
func EligibleSignals(bids []contracts.Bid, signals map[int64]*contracts.ContractorSignals) []contracts.BidSignal {
	out := make([]contracts.BidSignal, 0, len(bids))
	for _, b := range bids {
		if b.Status != contracts.BidPending {
			continue
		}

		c := contracts.BidSignal{
			BidID:         b.ID,
			Amount:        b.Amount,
			EstimatedDays: b.TimelineDays,
		}
		if sig, ok := signals[b.ContractorID]; ok && sig != nil {
			c.ContractorRating = sig.Rating
			c.YearsExperience = sig.YearsExperience
			c.TotalProjects = sig.TotalProjects
		}
		out = append(out, c)
	}
	return out
}

// Fingerprint identifies a ranking input so results can be memoized.
// Candidate order matters because it decides ties.
func Fingerprint(budgetReference float64, candidates []contracts.BidSignal, configHash string) (string, error) {
	payload := struct {
		Budget     float64               `json:"budget"`
		Candidates []contracts.BidSignal `json:"candidates"`
		ConfigHash string                `json:"config_hash"`
	}{budgetReference, candidates, configHash}

	if !isFinite(budgetReference) {
		payload.Budget = 0
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
