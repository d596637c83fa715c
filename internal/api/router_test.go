package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/scoring"
	"github.com/wonny/buildbid/backend/pkg/metrics"
)

type routerUnderTest struct {
	handler http.Handler
}

func (r *routerUnderTest) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), "body: %s", rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

func TestHealth(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ServiceName)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newTestDeps().router()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestUnmatchedRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		msg    string
	}{
		{"unknown path", "GET", "/api/nope", http.StatusNotFound, "Not found"},
		{"wrong method", "DELETE", "/health", http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestDeps().router()
			counter := metrics.HTTPRequestsTotal.WithLabelValues(unmatchedRoute, tt.method, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(counter)

			rec := r.do(t, tt.method, tt.path, "")

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
			assert.Equal(t, tt.msg, errorMessage(t, rec))
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestRequestMetricsUseRouteTemplate(t *testing.T) {
	r := newTestDeps().router()
	counter := metrics.HTTPRequestsTotal.WithLabelValues("/api/rank", "POST", "200")
	before := testutil.ToFloat64(counter)

	rec := r.do(t, "POST", "/api/rank", `{"budgetReference": 0, "candidates": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestAuth(t *testing.T) {
	r := newTestDeps().router()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"signup", "/api/auth/signup", `{"name":"Acme","email":"new@example.com","password":"longenough","role":"company"}`, http.StatusCreated},
		{"signup duplicate", "/api/auth/signup", `{"name":"Acme","email":"taken@example.com","password":"longenough","role":"company"}`, http.StatusConflict},
		{"signup admin role", "/api/auth/signup", `{"name":"Eve","email":"eve@example.com","password":"longenough","role":"admin"}`, http.StatusBadRequest},
		{"signup short password", "/api/auth/signup", `{"name":"Eve","email":"eve@example.com","password":"short","role":"contractor"}`, http.StatusBadRequest},
		{"signup bad json", "/api/auth/signup", `{"name":`, http.StatusBadRequest},
		{"login", "/api/auth/login", `{"email":"a@example.com","password":"correct-horse"}`, http.StatusOK},
		{"login wrong password", "/api/auth/login", `{"email":"a@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"login throttled", "/api/auth/login", `{"email":"locked@example.com","password":"x"}`, http.StatusTooManyRequests},
		{"change password", "/api/auth/change-password", `{"userId":1,"oldPassword":"a","newPassword":"longenough"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := r.do(t, "POST", tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSignupResponseHasProfileID(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "POST", "/api/auth/signup", `{"name":"Acme","email":"new@example.com","password":"longenough","role":"company"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session contracts.Session
	decode(t, rec, &session)
	require.NotNil(t, session.CompanyID)
	assert.Equal(t, int64(10), *session.CompanyID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRank(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "POST", "/api/rank", `{
		"budgetReference": 50000,
		"candidates": [
			{"bidId": 1, "amount": 49000, "contractorRating": 4.8, "yearsExperience": 12, "totalProjects": 30, "estimatedDays": 45},
			{"bidId": 2, "amount": 0},
			{"bidId": 3, "amount": 45000}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ranking contracts.Ranking
	decode(t, rec, &ranking)

	require.Len(t, ranking.Recommendations, 2)
	require.NotNil(t, ranking.TopRecommendationBidID)
	assert.Equal(t, int64(1), *ranking.TopRecommendationBidID)
	assert.Equal(t, 45, *ranking.Recommendations[0].EstimatedDays)
	assert.Equal(t, scoring.ExcludedInvalidAmount, ranking.Excluded[2])
}

func TestRank_Empty(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "POST", "/api/rank", `{"budgetReference": 0, "candidates": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var ranking contracts.Ranking
	decode(t, rec, &ranking)
	assert.Empty(t, ranking.Recommendations)
	assert.Nil(t, ranking.TopRecommendationBidID)
}

func TestRank_RejectsBadCandidateIDs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "duplicate ids",
			body: `{"budgetReference": 1000, "candidates": [{"bidId": 1, "amount": 900}, {"bidId": 1, "amount": 950}]}`,
			want: "candidates (unique)",
		},
		{
			name: "string id",
			body: `{"budgetReference": 1000, "candidates": [{"bidId": "b-1", "amount": 900}]}`,
			want: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestDeps().router()

			rec := r.do(t, "POST", "/api/rank", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.want)
		})
	}
}

func TestProjectRecommendations(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "GET", "/api/company/projects/10/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ProjectID       int64                      `json:"projectId"`
		Recommendations []contracts.Recommendation `json:"recommendations"`
	}
	decode(t, rec, &body)
	assert.Equal(t, int64(10), body.ProjectID)
	assert.Len(t, body.Recommendations, 2)

	rec = r.do(t, "GET", "/api/company/projects/77/recommendations", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := r.do(t, "GET", "/api/company/projects?companyId=3", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = r.do(t, "GET", "/api/company/projects", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "GET", "/api/company/projects/12", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = r.do(t, "POST", "/api/company/projects", `{"companyId":3,"name":"Deck rebuild","budget":"$12,000","deadline":"2026-09-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Project contracts.Project `json:"project"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "Deck rebuild", created.Project.Title)
	require.NotNil(t, created.Project.BudgetMax)
	assert.Equal(t, 12_000.0, *created.Project.BudgetMax)

	rec = r.do(t, "POST", "/api/company/projects", `{"companyId":3,"name":"Deck","deadline":"next week"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "DELETE", "/api/admin/projects/10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBids(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := r.do(t, "POST", "/api/contractor/bids", `{"projectId":10,"contractorId":5,"amount":"$1,200"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, deps.bids.submitted, 1)
	assert.Equal(t, 1200.0, deps.bids.submitted[0].Amount)

	rec = r.do(t, "POST", "/api/contractor/bids", `{"projectId":10,"contractorId":5,"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "POST", "/api/contractor/bids", `{"projectId":10,"contractorId":5,"amount":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "POST", "/api/company/bids", `{"bidId":1,"action":"accept","method":"ai"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = r.do(t, "POST", "/api/company/bids", `{"bidId":99,"action":"accept"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = r.do(t, "POST", "/api/company/bids", `{"bidId":1,"action":"withdraw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "GET", "/api/contractor/bids?contractorId=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContractors(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := r.do(t, "GET", "/api/contractors/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var signals contracts.ContractorSignals
	decode(t, rec, &signals)
	assert.Equal(t, 4.2, *signals.Rating)
	assert.Nil(t, signals.TotalProjects)

	rec = r.do(t, "GET", "/api/contractors/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = r.do(t, "POST", "/api/contractor/profile", `{"contractorId":5,"fullName":"Sam de la Rivera","location":"Austin, TX","hourlyRate":"$85"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, deps.contractors.updated, 1)
	upd := deps.contractors.updated[0]
	assert.Equal(t, "Sam", upd.FirstName)
	assert.Equal(t, "de la Rivera", upd.LastName)
	assert.Equal(t, "Austin", upd.City)
	assert.Equal(t, "TX", upd.State)
	assert.Equal(t, 85.0, *upd.HourlyRate)
	assert.Nil(t, upd.YearsExperience)
}

func TestJobs(t *testing.T) {
	r := newTestDeps().router()

	rec := r.do(t, "GET", "/api/jobs?location=austin&minBudget=1000", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = r.do(t, "GET", "/api/jobs?minBudget=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "POST", "/api/jobs/post", `{"company_id":3,"title":"Roofer","description":"Crew","skills":["Roofing"],"location":"Austin, TX","experienceLevel":"Expert","budget":"5,000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"category":"Roofing"`)

	rec = r.do(t, "POST", "/api/jobs/post", `{"company_id":3,"title":"Roofer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "POST", "/api/jobs/match", `{"categories":["Roofing"],"minBudget":4000,"maxBudget":6000,"distance":25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var matched struct {
		Jobs []struct {
			ID         int64 `json:"id"`
			MatchScore int   `json:"matchScore"`
		} `json:"jobs"`
		Total int `json:"total"`
	}
	decode(t, rec, &matched)
	require.Equal(t, 1, matched.Total)
	assert.Equal(t, int64(1), matched.Jobs[0].ID)

	rec = r.do(t, "POST", "/api/jobs/match", `{"distance":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = r.do(t, "DELETE", "/api/admin/jobs/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := r.do(t, "GET", "/api/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	rec = r.do(t, "DELETE", "/api/admin/users/delete", `{"userId":404}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = r.do(t, "GET", "/api/admin/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalRevenue":1500`)

	rec = r.do(t, "GET", "/api/admin/reports/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report-`)
	assert.Contains(t, rec.Body.String(), "PROJECT STATISTICS\nStatus,Count\nopen,2\n")
}

func TestAdminDashboardDegrades(t *testing.T) {
	deps := newTestDeps()
	deps.reports.dashboardErr = errDashboard
	r := deps.router()

	rec := r.do(t, "GET", "/api/admin/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var d contracts.Dashboard
	decode(t, rec, &d)
	assert.Zero(t, d.Stats.TotalUsers)
	assert.Empty(t, d.RecentUsers)
}

func TestMaintenanceGate(t *testing.T) {
	deps := newTestDeps()
	r := deps.router()

	rec := r.do(t, "GET", "/api/maintenance", "")
	assert.JSONEq(t, `{"isActive":false}`, rec.Body.String())

	rec = r.do(t, "PUT", "/api/maintenance", `{"isActive":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = r.do(t, "GET", "/api/contractor/projects", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Platform is under maintenance", errorMessage(t, rec))

	assert.Equal(t, http.StatusOK, r.do(t, "GET", "/api/admin/projects", "").Code)
	assert.Equal(t, http.StatusOK, r.do(t, "GET", "/api/maintenance", "").Code)
	assert.Equal(t, http.StatusOK, r.do(t, "GET", "/health", "").Code)

	rec = r.do(t, "PUT", "/api/maintenance", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r.do(t, "PUT", "/api/maintenance", `{"isActive":false}`)
	assert.Equal(t, http.StatusOK, r.do(t, "GET", "/api/contractor/projects", "").Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	deps := newTestDeps()
	deps.projects.panicOnListAll = true
	r := deps.router()

	rec := r.do(t, "GET", "/api/admin/projects", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, rec))
}
