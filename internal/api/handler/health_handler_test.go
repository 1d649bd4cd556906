package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/health", nil)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/health/ready", nil)
	if err := NewHealthDependenciesHandler(&stubBackend{}, "redis").Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
}

func TestHealthDependenciesHandler_Degraded(t *testing.T) {
	backend := &stubBackend{pingErr: domain.ErrBackendUnavailable}

	c, rec := newContext(t, http.MethodGet, "/health/ready", nil)
	if err := NewHealthDependenciesHandler(backend, "redis").Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusServiceUnavailable)

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestAdminHandler_Reconcile(t *testing.T) {
	rc := &stubReconciler{report: ports.ReconcileReport{
		PartitionsScanned: 4,
		MembersChecked:    9,
		Evicted:           map[string]int{"tasks_by_project": 2, "users_by_wallet_address": 1},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/admin/reconcile", nil)
	if err := NewAdminHandler(rc, zerolog.Nop()).Reconcile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["evictedTotal"] != float64(3) || resp["partitionsScanned"] != float64(4) {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestAdminHandler_Reconcile_Failure(t *testing.T) {
	rc := &stubReconciler{err: domain.ErrBackendTimeout}

	c, _ := newContext(t, http.MethodPost, "/v1/admin/reconcile", nil)
	if err := NewAdminHandler(rc, zerolog.Nop()).Reconcile(c); !errors.Is(err, domain.ErrBackendTimeout) {
		t.Fatalf("expected ErrBackendTimeout, got %v", err)
	}
}
