package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/wonny/buildbid/backend/internal/contracts"
)

// Filters is what a contractor searches jobs with
type Filters struct {
	JobTitle        string   `json:"jobTitle"`
	Location        string   `json:"location"`
	Categories      []string `json:"categories"`
	ExperienceLevel string   `json:"experienceLevel"`
	MinBudget       float64  `json:"minBudget" validate:"gte=0"`
	MaxBudget       float64  `json:"maxBudget" validate:"gte=0"` // 0 = no upper bound
	Distance        float64  `json:"distance" validate:"gte=0"`
}

// HasCriteria reports whether any narrowing filter was given
func (f Filters) HasCriteria() bool {
	return f.JobTitle != "" || len(f.Categories) > 0 || f.ExperienceLevel != ""
}

// Candidate is a job with its distance from the searcher
type Candidate struct {
	Job      contracts.Job
	Distance float64
}

// Match is a scored job
type Match struct {
	contracts.Job
	Distance   float64 `json:"distance"`
	MatchScore int     `json:"matchScore"`
}

// experienceRank orders experience levels; unknown levels rank 0
var experienceRank = map[string]int{
	"Entry Level":  1,
	"Intermediate": 2,
	"Advanced":     3,
	"Expert":       4,
}

const (
	budgetBand   = 0.2 // ±20%
	distanceBand = 1.5
)

// Points per criterion: full / partial / neutral (criterion not given)
const (
	titleMax, titlePartial, titleNeutral            = 30, 10, 15
	categoryMax, categoryPartial, categoryNeutral   = 25, 5, 12
	budgetMax, budgetPartial, budgetMiss            = 20, 10, 2
	distanceMax, distancePartial, distanceMiss      = 15, 8, 2
	experienceMax, experienceAbove, experienceBelow = 10, 8, 4
	experienceNeutral                               = 5
	totalPoints                                     = titleMax + categoryMax + budgetMax + distanceMax + experienceMax
)

// CalculateMatchScore rates how well a job fits the filters, as a rounded percent
// ⭐ SSOT: 잡 매칭 점수 계산은 여기서만
func CalculateMatchScore(c Candidate, f Filters) int {
	score := 0

	if f.JobTitle != "" {
		needle := strings.ToLower(f.JobTitle)
		if strings.Contains(strings.ToLower(c.Job.Title), needle) ||
			strings.Contains(strings.ToLower(c.Job.Description), needle) {
			score += titleMax
		} else {
			score += titlePartial
		}
	} else {
		score += titleNeutral
	}

	if len(f.Categories) > 0 {
		if containsCategory(f.Categories, c.Job.Category) {
			score += categoryMax
		} else {
			score += categoryPartial
		}
	} else {
		score += categoryNeutral
	}

	budget := jobBudget(c.Job)
	switch {
	case inBudget(budget, f.MinBudget, f.MaxBudget, 0):
		score += budgetMax
	case inBudget(budget, f.MinBudget, f.MaxBudget, budgetBand):
		score += budgetPartial
	default:
		score += budgetMiss
	}

	switch {
	case c.Distance <= f.Distance:
		score += distanceMax
	case c.Distance <= f.Distance*distanceBand:
		score += distancePartial
	default:
		score += distanceMiss
	}

	if f.ExperienceLevel != "" {
		want := experienceRank[f.ExperienceLevel]
		got := experienceRank[c.Job.ExperienceLevel]
		switch {
		case got == want:
			score += experienceMax
		case got > want:
			score += experienceAbove
		default:
			score += experienceBelow
		}
	} else {
		score += experienceNeutral
	}

	return int(math.Round(float64(score) / totalPoints * 100))
}

// MatchJobs scores every candidate and returns them best first.
// Without criteria every job is returned; otherwise jobs outside the distance
// band, the budget band or the requested categories are dropped.
func MatchJobs(candidates []Candidate, f Filters) []Match {
	out := make([]Match, 0, len(candidates))
	narrow := f.HasCriteria()

	for _, c := range candidates {
		if narrow {
			if c.Distance > f.Distance*distanceBand {
				continue
			}
			if !inBudget(jobBudget(c.Job), f.MinBudget, f.MaxBudget, budgetBand) {
				continue
			}
			if len(f.Categories) > 0 && !containsCategory(f.Categories, c.Job.Category) {
				continue
			}
		}

		out = append(out, Match{
			Job:        c.Job,
			Distance:   c.Distance,
			MatchScore: CalculateMatchScore(c, f),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})

	return out
}

func inBudget(budget, minBudget, maxBudget, band float64) bool {
	if budget < minBudget*(1-band) {
		return false
	}
	if maxBudget > 0 && budget > maxBudget*(1+band) {
		return false
	}
	return true
}

func jobBudget(j contracts.Job) float64 {
	if j.Budget == nil {
		return 0
	}
	return *j.Budget
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
