package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/buildbid/backend/internal/api"
	"github.com/wonny/buildbid/backend/internal/api/handlers"
	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/metrics"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작 (PORT, default 8090)
- /metrics 서버 시작 (METRICS_ENABLED, METRICS_PORT)
- SCHEDULER_ENABLED=true 이면 스케줄러도 같은 프로세스에서 실행

Endpoints:
  GET  /health
  POST /api/auth/signup | /api/auth/login
  GET  /api/company/projects/{id}/recommendations
  POST /api/rank
  ...  see internal/api/router.go

Example:
  go run ./cmd/buildbid api
  go run ./cmd/buildbid api --port 8080 --migrate`,
	RunE: runAPIServer,
}

var (
	apiPort    string
	apiMigrate bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiMigrate, "migrate", false, "apply pending migrations before serving")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiMigrate {
		if err := applyMigrations(cmd.Context(), a, log); err != nil {
			return err
		}
	}

	h := api.Handlers{
		Auth:            handlers.NewAuthHandler(a.auth, log),
		Projects:        handlers.NewProjectHandler(a.projects, log),
		Bids:            handlers.NewBidHandler(a.bids, a.bidService, log),
		Recommendations: handlers.NewRecommendationHandler(a.recommender, log),
		Contractors:     handlers.NewContractorHandler(a.contractors, log),
		Jobs:            handlers.NewJobHandler(a.jobs, log),
		Admin:           handlers.NewAdminHandler(a.users, a.reports, log),
		Maintenance:     handlers.NewMaintenanceHandler(a.maintenance, log),
	}
	server := api.New(cfg, log, api.NewRouter(h, a.maintenance, log))

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.Start()
	}()

	var metricsServer *metrics.Server
	if cfg.MetricsEnabled {
		metrics.Init()
		metricsServer = metrics.NewServer(cfg.MetricsPort, log)
		go func() {
			if err := metricsServer.Start(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	if cfg.SchedulerEnabled {
		sched, err := a.newScheduler()
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(ctx)
		}()
	}

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
