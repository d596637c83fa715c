package scoring

import (
	"fmt"
	"math"
)

// Baseline signals for a contractor whose profile is unknown or unreadable.
// They describe a neutral, mid-career contractor so a failed lookup neither
// rewards nor sinks a bid.
const (
	DefaultContractorRating = 3.5
	DefaultYearsExperience  = 5
	DefaultTotalProjects    = 10
)

// RatingScale is the top of the contractor rating scale
const RatingScale = 5.0

// Config holds every tunable of the bid scorer
// ⭐ SSOT: 입찰 스코어링 파라미터는 여기서만
type Config struct {
	Weights    Weights    `yaml:"weights" json:"weights"`
	Defaults   Defaults   `yaml:"defaults" json:"defaults"`
	Experience Experience `yaml:"experience" json:"experience"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Weights of the composite score (합 = 1.0)
type Weights struct {
	Price      float64 `yaml:"price" json:"price"`
	Rating     float64 `yaml:"rating" json:"rating"`
	Experience float64 `yaml:"experience" json:"experience"`
}

// Defaults substituted for missing contractor signals
type Defaults struct {
	ContractorRating float64 `yaml:"contractor_rating" json:"contractor_rating"`
	YearsExperience  int     `yaml:"years_experience" json:"years_experience"`
	TotalProjects    int     `yaml:"total_projects" json:"total_projects"`
}

// Experience scales: each half of the experience score saturates at its scale
type Experience struct {
	YearsScale    float64 `yaml:"years_scale" json:"years_scale"`
	ProjectsScale float64 `yaml:"projects_scale" json:"projects_scale"`
}

// Thresholds for price banding, reasons and risk labels
type Thresholds struct {
	PriceBand        float64 `yaml:"price_band" json:"price_band"`               // fraction of budget where price score hits 0
	CloseToBudget    float64 `yaml:"close_to_budget" json:"close_to_budget"`     // relative distance for the "very close" reason
	CompetitivePrice float64 `yaml:"competitive_price" json:"competitive_price"` // price score above which pricing is competitive
	ExcellentRating  float64 `yaml:"excellent_rating" json:"excellent_rating"`
	ExtensiveYears   int     `yaml:"extensive_years" json:"extensive_years"`
	ManyProjects     int     `yaml:"many_projects" json:"many_projects"`
	MediumRisk       float64 `yaml:"medium_risk" json:"medium_risk"` // score >= this → Medium
	LowRisk          float64 `yaml:"low_risk" json:"low_risk"`       // score >= this → Low
}

// DefaultConfig returns the production scoring parameters
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Price:      0.40,
			Rating:     0.35,
			Experience: 0.25,
		},
		Defaults: Defaults{
			ContractorRating: DefaultContractorRating,
			YearsExperience:  DefaultYearsExperience,
			TotalProjects:    DefaultTotalProjects,
		},
		Experience: Experience{
			YearsScale:    10,
			ProjectsScale: 50,
		},
		Thresholds: Thresholds{
			PriceBand:        0.5,
			CloseToBudget:    0.10,
			CompetitivePrice: 75,
			ExcellentRating:  4.5,
			ExtensiveYears:   10,
			ManyProjects:     20,
			MediumRisk:       60,
			LowRisk:          75,
		},
	}
}

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const weightTolerance = 0.001

// Validate checks the config is usable by the scorer
func Validate(cfg *Config) error {
	w := cfg.Weights
	for field, v := range map[string]float64{
		"weights.price":      w.Price,
		"weights.rating":     w.Rating,
		"weights.experience": w.Experience,
	} {
		if v < 0 || math.IsNaN(v) {
			return ValidationError{field, "must be >= 0"}
		}
	}
	if sum := w.Price + w.Rating + w.Experience; math.Abs(sum-1.0) > weightTolerance {
		return ValidationError{"weights", fmt.Sprintf("must sum to 1.0, got %.4f", sum)}
	}

	d := cfg.Defaults
	if d.ContractorRating < 0 || d.ContractorRating > RatingScale {
		return ValidationError{"defaults.contractor_rating", fmt.Sprintf("must be in [0, %.0f]", RatingScale)}
	}
	if d.YearsExperience < 0 {
		return ValidationError{"defaults.years_experience", "must be >= 0"}
	}
	if d.TotalProjects < 0 {
		return ValidationError{"defaults.total_projects", "must be >= 0"}
	}

	if cfg.Experience.YearsScale <= 0 {
		return ValidationError{"experience.years_scale", "must be > 0"}
	}
	if cfg.Experience.ProjectsScale <= 0 {
		return ValidationError{"experience.projects_scale", "must be > 0"}
	}

	t := cfg.Thresholds
	if t.PriceBand <= 0 {
		return ValidationError{"thresholds.price_band", "must be > 0"}
	}
	if t.CloseToBudget <= 0 || t.CloseToBudget >= 1 {
		return ValidationError{"thresholds.close_to_budget", "must be in (0, 1)"}
	}
	if t.CompetitivePrice < 0 || t.CompetitivePrice > 100 {
		return ValidationError{"thresholds.competitive_price", "must be in [0, 100]"}
	}
	if t.MediumRisk <= 0 || t.MediumRisk >= t.LowRisk || t.LowRisk > 100 {
		return ValidationError{"thresholds", "need 0 < medium_risk < low_risk <= 100"}
	}

	return nil
}
