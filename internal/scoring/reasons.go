package scoring

import "math"

// Reason strings shown next to a recommendation
const (
	ReasonCloseToBudget    = "Bid amount is very close to your project budget."
	ReasonCompetitivePrice = "Competitive pricing within market range."
	ReasonExcellentRating  = "Contractor has excellent track record."
	ReasonExtensiveYears   = "Extensive industry experience."
	ReasonManyProjects     = "Proven track record with many completed projects."
	ReasonSolidProfile     = "Solid overall profile and bid competitiveness."
)

// reasons appends every matching explanation in a fixed order
func (s *Scorer) reasons(c resolved, priceScore, budget float64, anchor bool) []string {
	t := s.cfg.Thresholds
	out := make([]string, 0, 4)

	if anchor && math.Abs(c.signal.Amount-budget)/budget < t.CloseToBudget {
		out = append(out, ReasonCloseToBudget)
	} else if priceScore > t.CompetitivePrice {
		out = append(out, ReasonCompetitivePrice)
	}

	if c.rating >= t.ExcellentRating {
		out = append(out, ReasonExcellentRating)
	}
	if c.years >= t.ExtensiveYears {
		out = append(out, ReasonExtensiveYears)
	}
	if c.projects >= t.ManyProjects {
		out = append(out, ReasonManyProjects)
	}

	if len(out) == 0 {
		out = append(out, ReasonSolidProfile)
	}
	return out
}
