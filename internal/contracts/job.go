package contracts

import "time"

// JobStatus mirrors jobs.status
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
	JobFilled JobStatus = "filled"
)

// Job is a job posting
type Job struct {
	ID              int64      `json:"id"`
	CompanyID       int64      `json:"companyId"`
	CompanyName     string     `json:"companyName,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category,omitempty"`
	Skills          []string   `json:"skills"`
	Location        string     `json:"location,omitempty"`
	Budget          *float64   `json:"budget"`
	ExperienceLevel string     `json:"experienceLevel,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Website         string     `json:"website,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Status          JobStatus  `json:"status"`
	PostedDate      time.Time  `json:"postedDate"`
}

// JobFilter narrows GET /api/jobs
type JobFilter struct {
	Location        string
	ExperienceLevel string
	Category        string
	MinBudget       *float64
	MaxBudget       *float64
	Limit           int
}

// NewJob is the input of POST /api/jobs/post
type NewJob struct {
	CompanyID       int64
	Title           string
	Description     string
	Category        string
	Skills          []string
	Location        string
	Budget          *float64
	ExperienceLevel string
	Phone           string
	Website         string
	Deadline        *time.Time
}
