package redis

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/seasonality/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false, KeyPrefix: "seasonality"}}

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}

	if client.KeyPrefix() != "seasonality" {
		t.Errorf("KeyPrefix() = %q", client.KeyPrefix())
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(context.Background(), &config.Config{})
	cache := NewCache(client, "test")
	ctx := context.Background()

	var result []string
	found, err := cache.Get(ctx, CountriesKey(), &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(ctx, CountriesKey(), []string{"GB"}, TTLDaily); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, CountriesKey()); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestKeys(t *testing.T) {
	if got := HolidaysKey("gb", 2024); got != "holidays:GB:2024" {
		t.Errorf("HolidaysKey() = %q", got)
	}

	cache := NewCache(&Client{}, "seasonality")
	if got := cache.key(CountriesKey()); got != "seasonality:cache:holidays:countries" {
		t.Errorf("key() = %q", got)
	}
}

func TestOptions(t *testing.T) {
	opts := options(config.RedisConfig{
		Host:      "cache",
		Port:      "6380",
		DB:        2,
		KeyPrefix: "seasonality",
		Timeout:   3 * time.Second,
	})

	if opts.Addr != "cache:6380" {
		t.Errorf("Addr = %q", opts.Addr)
	}
	if opts.DB != 2 || opts.ClientName != "seasonality" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.DialTimeout != 3*time.Second || opts.ReadTimeout != 3*time.Second || opts.WriteTimeout != 3*time.Second {
		t.Errorf("timeouts not applied: %+v", opts)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection test in short mode")
	}

	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1", Timeout: time.Second}}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("Expected connection error for an unreachable Redis")
	}
}
