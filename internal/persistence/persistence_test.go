package persistence

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunMigrations_NoPool(t *testing.T) {
	if err := RunMigrations(context.Background(), nil, "does-not-exist", zap.NewNop()); err != nil {
		t.Fatalf("expected nil without a pool, got %v", err)
	}
}

func TestNilHandles(t *testing.T) {
	var pg *Postgres
	if err := pg.Ping(context.Background()); err == nil {
		t.Error("expected error pinging nil postgres")
	}
	if pg.PoolHandle() != nil {
		t.Error("expected nil pool")
	}
	pg.Close()

	var r *Redis
	if err := r.Ping(context.Background()); err == nil {
		t.Error("expected error pinging nil redis")
	}
	if _, err := r.IncrementWindow(context.Background(), "k", time.Minute); err == nil {
		t.Error("expected error incrementing without redis")
	}
	r.Close()
}
