package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/buildbid/backend/pkg/logger"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildbid_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "buildbid_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	RankingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildbid_rankings_total",
			Help: "Rankings computed, by where the result came from",
		},
		[]string{"source"}, // computed | cache
	)
	ExcludedCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "buildbid_ranking_excluded_candidates_total",
			Help: "Bids left out of a ranking because of an invalid amount",
		},
	)
	TopScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buildbid_ranking_top_score",
			Help:    "Distribution of the top recommendation's composite score",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 75, 80, 90, 100},
		},
	)
	SignalFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "buildbid_contractor_signal_fallbacks_total",
			Help: "Contractor lookups that failed and degraded to default signals",
		},
	)

	BidDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildbid_bid_decisions_total",
			Help: "Bid accept/reject decisions by selection method",
		},
		[]string{"action", "method"},
	)

	SchedulerJobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildbid_scheduler_job_runs_total",
			Help: "Scheduled job runs by outcome",
		},
		[]string{"job", "status"},
	)
)

var registerOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			RankingsTotal,
			ExcludedCandidatesTotal,
			TopScoreHistogram,
			SignalFallbacksTotal,
			BidDecisionsTotal,
			SchedulerJobRunsTotal,
		)
	})
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server serves /metrics on its own port
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates a metrics server listening on :port
func NewServer(port string, log *logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Start blocks until the server stops
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting metrics server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the metrics server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
