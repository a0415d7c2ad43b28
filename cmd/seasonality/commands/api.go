package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/internal/api"
	"github.com/wonny/seasonality/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Start the REST API server.

Endpoints:
  GET    /health              - Health check
  GET    /metrics             - Prometheus metrics (METRICS_ENABLED)
  GET    /api/seasonality     - Build a table from query parameters
  POST   /api/seasonality     - Build a table from a JSON body
  GET    /api/countries       - Available country codes
  GET    /api/anchor          - Anchor a date to its week start
  GET    /api/runs            - Stored runs (DATABASE_URL)
  GET    /api/runs/{id}       - One stored run
  DELETE /api/runs/{id}       - Delete a stored run

Example:
  go run ./cmd/seasonality api
  go run ./cmd/seasonality api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), storeOptional)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	var runStore handlers.RunStore
	var runs *handlers.RunsHandler
	if a.repo != nil {
		runStore = a.repo
		runs = handlers.NewRunsHandler(a.repo, a.log)
	}

	seasonality := handlers.NewSeasonalityHandler(a.builder, runStore, a.log)
	router := api.NewRouter(seasonality, runs, a.metrics, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	PrintInfo(out, "Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
