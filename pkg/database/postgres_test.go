package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wonny/seasonality/pkg/config"
)

func TestNew_RequiresURL(t *testing.T) {
	if _, err := New(context.Background(), &config.Config{}); err == nil {
		t.Error("Expected error without DATABASE_URL")
	}
}

func TestNew_BadURL(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{URL: "://not a url"}}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("Expected parse error for a malformed DATABASE_URL")
	}
}

func TestHealthCheck(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}

	if !status.Healthy {
		t.Error("Expected database to be healthy")
	}

	if status.Stats.MaxConns == 0 {
		t.Error("Expected MaxConns to be reported")
	}
}
