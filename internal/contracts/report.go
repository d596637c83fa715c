package contracts

import "time"

// StatusCount is one row of a GROUP BY status/role count
type StatusCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// MonthlyActivity is one month of platform activity
type MonthlyActivity struct {
	Month           time.Time `json:"month"`
	ProjectsCreated int64     `json:"projectsCreated"`
	Companies       int64     `json:"companies"`
	JobsPosted      int64     `json:"jobsPosted"`
}

// Report is the admin platform report
type Report struct {
	GeneratedAt  time.Time         `json:"generatedAt"`
	TotalRevenue float64           `json:"totalRevenue"` // sum of accepted bid amounts
	ProjectStats []StatusCount     `json:"projectStats"`
	JobStats     []StatusCount     `json:"jobStats"`
	BidStats     []StatusCount     `json:"bidStats"`
	UserStats    []StatusCount     `json:"userStats"`
	Monthly      []MonthlyActivity `json:"monthlyData"` // newest first, up to 12
}

// DashboardStats are the admin dashboard counters
type DashboardStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	ActiveProjects    int64 `json:"activeProjects"`
	PendingBids       int64 `json:"pendingBids"`
	CompletedProjects int64 `json:"completedProjects"`
}

// GrowthPoint is one month of user signups
type GrowthPoint struct {
	Month       time.Time `json:"month"`
	Companies   int64     `json:"companies"`
	Contractors int64     `json:"contractors"`
	Total       int64     `json:"total"`
}

// Dashboard is the admin landing page payload
type Dashboard struct {
	Stats       DashboardStats `json:"stats"`
	RecentUsers []User         `json:"recentUsers"`
	GrowthData  []GrowthPoint  `json:"growthData"` // oldest first
}
