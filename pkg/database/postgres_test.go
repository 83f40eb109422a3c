package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/openclaw/stock/pkg/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestNewAndPing(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		t.Fatalf("health check: %v", err)
	}

	if !status.Healthy {
		t.Error("expected database to be healthy")
	}
	if status.Stats.MaxConns == 0 {
		t.Error("expected MaxConns to be greater than 0")
	}
}

func TestNewWithInvalidURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:             "invalid://url",
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}

	if _, err := New(cfg); err == nil {
		t.Error("expected error with invalid database URL, got nil")
	}
}

func TestDoubleClose(t *testing.T) {
	db := openTestDB(t)

	// Close twice must not panic; Cleanup adds a third.
	db.Close()
	db.Close()
}
