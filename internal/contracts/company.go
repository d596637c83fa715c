package contracts

import (
	"strings"
	"time"
)

// Company is the profile row behind a company account
type Company struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Website     string `json:"website,omitempty"`
	Verified    bool   `json:"verified"`
}

// Contractor is the profile row behind a contractor account.
// Rating, YearsExperience and TotalProjects are nullable and feed the bid scorer.
type Contractor struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	Specializations string    `json:"specializations,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	HourlyRate      *float64  `json:"hourlyRate,omitempty"`
	YearsExperience *int      `json:"yearsExperience"`
	Rating          *float64  `json:"rating"`
	TotalProjects   *int      `json:"totalProjects"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FullName joins first and last name
func (c *Contractor) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Signals extracts the scoring inputs of a contractor
func (c *Contractor) Signals() ContractorSignals {
	return ContractorSignals{
		ContractorID:    c.ID,
		Rating:          c.Rating,
		YearsExperience: c.YearsExperience,
		TotalProjects:   c.TotalProjects,
	}
}

// ContractorSignals are the contractor-level inputs of the bid scorer.
// Nil means unknown; the scorer substitutes its defaults.
// ⭐ SSOT: 디렉터리 API 응답 형식
type ContractorSignals struct {
	ContractorID    int64    `json:"contractorId"`
	Rating          *float64 `json:"rating"`
	YearsExperience *int     `json:"yearsExperience"`
	TotalProjects   *int     `json:"totalProjects"`
}

// ContractorProfileUpdate is the editable part of a contractor profile
type ContractorProfileUpdate struct {
	ContractorID    int64
	FirstName       string
	LastName        string
	Phone           string
	City            string
	State           string
	Specializations string
	Bio             string
	YearsExperience *int
	HourlyRate      *float64
}

// SplitFullName splits "Jane Q Doe" into ("Jane", "Q Doe")
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// SplitLocation splits "Austin, TX" into ("Austin", "TX")
func SplitLocation(location string) (city, state string) {
	parts := strings.SplitN(location, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
