package contracts

import "time"

// ProjectStatus mirrors projects.status
type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Project is a company's posted construction project
type Project struct {
	ID            int64         `json:"id"`
	CompanyID     int64         `json:"companyId"`
	CompanyName   string        `json:"companyName,omitempty"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Category      string        `json:"category,omitempty"`
	BudgetMin     *float64      `json:"budgetMin"`
	BudgetMax     *float64      `json:"budgetMax"`
	TimelineStart *time.Time    `json:"timelineStart,omitempty"`
	TimelineEnd   *time.Time    `json:"timelineEnd,omitempty"`
	Location      string        `json:"location,omitempty"`
	Status        ProjectStatus `json:"status"`
	BidCount      int           `json:"bidCount"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// BudgetReference is the price anchor for ranking: budget_max, else budget_min, else 0.
func (p *Project) BudgetReference() float64 {
	if p.BudgetMax != nil && *p.BudgetMax > 0 {
		return *p.BudgetMax
	}
	if p.BudgetMin != nil && *p.BudgetMin > 0 {
		return *p.BudgetMin
	}
	return 0
}

// NewProject is the input of project creation
type NewProject struct {
	CompanyID     int64
	Title         string
	Description   string
	Category      string
	BudgetMin     *float64
	BudgetMax     *float64
	TimelineStart *time.Time
	TimelineEnd   *time.Time
	Location      string
}
