package api

import (
	"context"
	"errors"
	"sync"

	"github.com/wonny/buildbid/backend/internal/api/handlers"
	"github.com/wonny/buildbid/backend/internal/bids"
	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/matching"
	"github.com/wonny/buildbid/backend/internal/scoring"
	"github.com/wonny/buildbid/backend/internal/users"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

type fakeAuth struct{}

func (fakeAuth) Signup(_ context.Context, in users.SignupInput) (*contracts.Session, error) {
	if in.Email == "taken@example.com" {
		return nil, contracts.ErrEmailTaken
	}
	return &contracts.Session{
		User:      contracts.User{ID: 1, Name: in.Name, Email: in.Email, Role: in.Role, Status: contracts.UserActive},
		CompanyID: ptr(int64(10)),
	}, nil
}

func (fakeAuth) Login(_ context.Context, email, password string) (*contracts.Session, error) {
	switch {
	case email == "locked@example.com":
		return nil, contracts.ErrTooManyAttempts
	case password != "correct-horse":
		return nil, contracts.ErrInvalidCredentials
	}
	return &contracts.Session{User: contracts.User{ID: 1, Email: email}}, nil
}

func (fakeAuth) ChangePassword(context.Context, int64, string, string) error { return nil }

type fakeProjects struct {
	panicOnListAll bool
}

func (f *fakeProjects) ListByCompany(_ context.Context, companyID int64) ([]contracts.Project, error) {
	return []contracts.Project{{ID: 10, CompanyID: companyID, Title: "Warehouse roof"}}, nil
}

func (f *fakeProjects) ListOpen(context.Context) ([]contracts.Project, error) {
	return []contracts.Project{{ID: 10, Title: "Warehouse roof", Status: contracts.ProjectOpen, BidCount: 3}}, nil
}

func (f *fakeProjects) ListAll(context.Context) ([]contracts.Project, error) {
	if f.panicOnListAll {
		panic("boom")
	}
	return []contracts.Project{}, nil
}

func (f *fakeProjects) Get(_ context.Context, id int64) (*contracts.Project, error) {
	if id != 10 {
		return nil, contracts.ErrNotFound
	}
	return &contracts.Project{ID: 10, Title: "Warehouse roof"}, nil
}

func (f *fakeProjects) Create(_ context.Context, in contracts.NewProject) (*contracts.Project, error) {
	return &contracts.Project{ID: 11, CompanyID: in.CompanyID, Title: in.Title, BudgetMax: in.BudgetMax}, nil
}

func (f *fakeProjects) Delete(context.Context, int64) error { return nil }

type fakeBids struct {
	mu        sync.Mutex
	submitted []contracts.NewBid
}

func (f *fakeBids) ListByContractor(_ context.Context, id int64) ([]contracts.Bid, error) {
	return []contracts.Bid{{ID: 1, ContractorID: id}}, nil
}

func (f *fakeBids) ListByCompany(context.Context, int64) ([]contracts.Bid, error) {
	return []contracts.Bid{}, nil
}

func (f *fakeBids) Submit(_ context.Context, in contracts.NewBid) (*contracts.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, in)
	return &contracts.Bid{ID: 5, ProjectID: in.ProjectID, Amount: in.Amount, Status: contracts.BidPending}, nil
}

func (f *fakeBids) Decide(_ context.Context, d contracts.BidDecision) (*contracts.Bid, error) {
	if d.BidID == 99 {
		return nil, contracts.ErrBidNotPending
	}
	return &contracts.Bid{ID: d.BidID, Status: contracts.BidAccepted}, nil
}

type fakeRecommender struct {
	scorer *scoring.Scorer
}

func (f fakeRecommender) Recommend(_ context.Context, projectID int64) (*bids.ProjectRanking, error) {
	if projectID != 10 {
		return nil, contracts.ErrNotFound
	}
	ranking := f.scorer.Rank(50_000, []contracts.BidSignal{
		{BidID: 1, Amount: 49_000, ContractorRating: ptr(4.8)},
		{BidID: 2, Amount: 60_000},
	})
	return &bids.ProjectRanking{ProjectID: projectID, BudgetReference: 50_000, Ranking: ranking}, nil
}

func (f fakeRecommender) Rank(budget float64, candidates []contracts.BidSignal) contracts.Ranking {
	return f.scorer.Rank(budget, candidates)
}

type fakeContractors struct {
	updated []contracts.ContractorProfileUpdate
}

func (f *fakeContractors) List(context.Context) ([]contracts.Contractor, error) {
	return []contracts.Contractor{{ID: 5, FirstName: "Sam", LastName: "Rivera"}}, nil
}

func (f *fakeContractors) Get(_ context.Context, id int64) (*contracts.Contractor, error) {
	return &contracts.Contractor{ID: id, FirstName: "Sam"}, nil
}

func (f *fakeContractors) Signals(_ context.Context, id int64) (*contracts.ContractorSignals, error) {
	if id != 5 {
		return nil, contracts.ErrNotFound
	}
	return &contracts.ContractorSignals{ContractorID: 5, Rating: ptr(4.2), YearsExperience: ptr(7)}, nil
}

func (f *fakeContractors) UpdateProfile(_ context.Context, in contracts.ContractorProfileUpdate) error {
	f.updated = append(f.updated, in)
	return nil
}

type fakeJobs struct{}

func (fakeJobs) List(_ context.Context, f contracts.JobFilter) ([]contracts.Job, error) {
	if f.MinBudget != nil && *f.MinBudget > 1_000_000 {
		return []contracts.Job{}, nil
	}
	return []contracts.Job{{ID: 1, Title: "Roofer", Skills: []string{"Roofing"}}}, nil
}

func (fakeJobs) ListAll(context.Context) ([]contracts.Job, error) { return []contracts.Job{}, nil }

func (fakeJobs) Create(_ context.Context, in contracts.NewJob) (*contracts.Job, error) {
	return &contracts.Job{ID: 2, Title: in.Title, Category: in.Category, Skills: in.Skills}, nil
}

func (fakeJobs) Delete(_ context.Context, id int64) error {
	if id == 404 {
		return contracts.ErrNotFound
	}
	return nil
}

func (fakeJobs) Match(_ context.Context, f matching.Filters) ([]matching.Match, error) {
	return matching.MatchJobs([]matching.Candidate{
		{Job: contracts.Job{ID: 1, Title: "Roof crew lead", Category: "Roofing", Budget: ptr(5000.0), ExperienceLevel: "Expert"}},
		{Job: contracts.Job{ID: 2, Title: "Painter", Category: "Painting", Budget: ptr(900.0)}},
	}, f), nil
}

type fakeUsers struct{}

func (fakeUsers) List(context.Context) ([]contracts.User, error) {
	return []contracts.User{{ID: 1, Email: "a@example.com", PasswordHash: "secret-hash"}}, nil
}

func (fakeUsers) Delete(_ context.Context, id int64) error {
	if id == 404 {
		return contracts.ErrNotFound
	}
	return nil
}

type fakeReports struct {
	dashboardErr error
}

func (f fakeReports) Build(context.Context) (*contracts.Report, error) {
	return &contracts.Report{
		TotalRevenue: 1500,
		ProjectStats: []contracts.StatusCount{{Key: "open", Count: 2}},
	}, nil
}

func (f fakeReports) Dashboard(context.Context) (*contracts.Dashboard, error) {
	if f.dashboardErr != nil {
		return nil, f.dashboardErr
	}
	return &contracts.Dashboard{Stats: contracts.DashboardStats{TotalUsers: 3}}, nil
}

type fakeMaintenance struct {
	mu     sync.Mutex
	active bool
}

func (f *fakeMaintenance) Active(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeMaintenance) SetActive(_ context.Context, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
	return nil
}

type testDeps struct {
	projects    *fakeProjects
	bids        *fakeBids
	contractors *fakeContractors
	reports     fakeReports
	maintenance *fakeMaintenance
}

func newTestDeps() *testDeps {
	return &testDeps{
		projects:    &fakeProjects{},
		bids:        &fakeBids{},
		contractors: &fakeContractors{},
		maintenance: &fakeMaintenance{},
	}
}

func (d *testDeps) router() *routerUnderTest {
	log := logger.Nop()
	h := Handlers{
		Auth:            handlers.NewAuthHandler(fakeAuth{}, log),
		Projects:        handlers.NewProjectHandler(d.projects, log),
		Bids:            handlers.NewBidHandler(d.bids, d.bids, log),
		Recommendations: handlers.NewRecommendationHandler(fakeRecommender{scorer: scoring.Default()}, log),
		Contractors:     handlers.NewContractorHandler(d.contractors, log),
		Jobs:            handlers.NewJobHandler(fakeJobs{}, log),
		Admin:           handlers.NewAdminHandler(fakeUsers{}, d.reports, log),
		Maintenance:     handlers.NewMaintenanceHandler(d.maintenance, log),
	}
	return &routerUnderTest{handler: NewRouter(h, d.maintenance, log)}
}

var errDashboard = errors.New("dashboard query failed")
