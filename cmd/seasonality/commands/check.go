package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/pkg/config"
	"github.com/wonny/seasonality/pkg/database"
	"github.com/wonny/seasonality/pkg/redis"
)

// checkCmd verifies that every configured backend is reachable
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the holiday directory, database and cache connections",
	Long: `Check every configured backend:
- holiday directory (country listing)
- Postgres feature-table store (when DATABASE_URL is set)
- Redis directory cache (when REDIS_ENABLED is true)

Example:
  go run ./cmd/seasonality check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	out := cmd.OutOrStdout()

	a, err := newApp(ctx, storeNone)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintDoubleSeparator(out)
	PrintKeyValue(out, "ENV", a.cfg.Env, 8)
	PrintKeyValue(out, "Source", a.cfg.HolidayAPI.Source, 8)
	if a.cfg.HolidayAPI.Source == config.SourceNager {
		PrintKeyValue(out, "API", a.cfg.HolidayAPI.BaseURL, 8)
	}
	PrintSeparator(out)

	start := time.Now()
	countries, err := a.builder.Countries(ctx)
	if err != nil {
		return fmt.Errorf("holiday directory: %w", err)
	}
	PrintSuccess(out, fmt.Sprintf("Holiday directory: %d countries in %v", len(countries), time.Since(start).Round(time.Millisecond)))

	if a.cfg.Database.Enabled() {
		if err := checkDatabase(ctx, out, a.cfg); err != nil {
			return err
		}
	} else {
		PrintInfo(out, "Database: not configured")
	}

	if a.cfg.Redis.Enabled {
		if err := checkRedis(ctx, out, a.cfg); err != nil {
			return err
		}
	} else {
		PrintInfo(out, "Redis: disabled")
	}

	return nil
}

func checkDatabase(ctx context.Context, out io.Writer, cfg *config.Config) error {
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database %s: %w", redactURL(cfg.Database.URL), err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	PrintSuccess(out, fmt.Sprintf("Database: %s in %v", redactURL(cfg.Database.URL), status.ResponseTime.Round(time.Millisecond)))
	PrintKeyValue(out, "Max", fmt.Sprintf("%d", status.Stats.MaxConns), 8)
	PrintKeyValue(out, "Total", fmt.Sprintf("%d", status.Stats.TotalConns), 8)
	PrintKeyValue(out, "Idle", fmt.Sprintf("%d", status.Stats.IdleConns), 8)
	return nil
}

func checkRedis(ctx context.Context, out io.Writer, cfg *config.Config) error {
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer rc.Close()

	start := time.Now()
	if err := rc.Redis().Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	PrintSuccess(out, fmt.Sprintf("Redis: %s in %v", rc.Addr(), time.Since(start).Round(time.Millisecond)))
	PrintKeyValue(out, "Prefix", rc.KeyPrefix(), 8)
	return nil
}

// redactURL hides the password of a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
