package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Errorf("unexpected port %q", cfg.Port)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("expected redis backend, got %q", cfg.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Timeout != 2*time.Second {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Match.CacheTTL != 24*time.Hour || cfg.Match.SearchDefaultLimit != 20 {
		t.Errorf("unexpected match config %+v", cfg.Match)
	}
	if cfg.Worker.ReconcileWorkers != 8 {
		t.Errorf("expected 8 reconcile workers, got %d", cfg.Worker.ReconcileWorkers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "9090",
		"BACKEND":         "memory",
		"LOG_PRETTY":      "true",
		"REDIS_TIMEOUT":   "500ms",
		"MATCH_CACHE_TTL": "0s",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendMemory || !cfg.LogPretty {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Redis.Timeout != 500*time.Millisecond {
		t.Errorf("expected 500ms timeout, got %v", cfg.Redis.Timeout)
	}
	if cfg.Match.CacheTTL != 0 {
		t.Errorf("expected disabled cache TTL, got %v", cfg.Match.CacheTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND":           "postgres",
		"RECONCILE_WORKERS": "0",
	}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"BACKEND", "RECONCILE_WORKERS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in error, got %v", want, err)
		}
	}
}

func TestLoad_Unparseable(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"REDIS_DB": "zero"}))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
