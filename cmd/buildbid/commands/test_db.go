package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/buildbid/backend/pkg/database"
	"github.com/wonny/buildbid/backend/pkg/redis"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL / Redis 연결 테스트",
	Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- Ping 및 Health Check 실행
- Connection Pool 통계 표시
- 적용되지 않은 마이그레이션 표시
- REDIS_ENABLED=true 이면 Redis Ping

Example:
  go run ./cmd/buildbid test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== BuildBid Database Connection Test ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("Config loaded (ENV: %s)", cfg.Env))
	PrintKeyValue("Database URL", maskPassword(cfg.Database.URL), 14)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	PrintSuccess("Database connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	PrintSuccess("Health Check Results:")
	PrintKeyValue("Healthy", fmt.Sprint(status.Healthy), 20)
	PrintKeyValue("Response Time", status.ResponseTime.String(), 20)

	fmt.Println("\n📊 Connection Pool Statistics:")
	PrintKeyValue("Max Connections", fmt.Sprint(status.Stats.MaxConns), 20)
	PrintKeyValue("Total Connections", fmt.Sprint(status.Stats.TotalConns), 20)
	PrintKeyValue("Acquired", fmt.Sprint(status.Stats.AcquiredConns), 20)
	PrintKeyValue("Idle", fmt.Sprint(status.Stats.IdleConns), 20)
	PrintKeyValue("Acquire Count", fmt.Sprint(status.Stats.AcquireCount), 20)

	if err := reportPendingMigrations(ctx, db.Pool); err != nil {
		PrintWarning(err.Error())
	}

	rc, err := redis.New(cfg)
	switch {
	case err != nil:
		PrintError(err.Error())
	case rc.Enabled():
		PrintSuccess("Redis ping successful")
		_ = rc.Close()
	default:
		PrintInfo("Redis disabled (REDIS_ENABLED=false)")
	}

	fmt.Println("\n✅ All tests passed!")
	return nil
}

func reportPendingMigrations(ctx context.Context, pool database.Pool) error {
	names, err := database.MigrationNames()
	if err != nil {
		return err
	}

	applied := make(map[string]bool)
	rows, err := pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err == nil {
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err == nil {
				applied[name] = true
			}
		}
		rows.Close()
	}

	var pending []string
	for _, n := range names {
		if !applied[n] {
			pending = append(pending, n)
		}
	}

	if len(pending) == 0 {
		PrintSuccess("Schema is up to date")
		return nil
	}
	return fmt.Errorf("%d pending migration(s), run `buildbid migrate`: %v", len(pending), pending)
}

// maskPassword hides the password in the database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
