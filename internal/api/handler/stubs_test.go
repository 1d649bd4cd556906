package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

// newContext builds an echo context for a request with a JSON body and the
// given path parameters.
func newContext(t *testing.T, method, target string, body io.Reader, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

type stubUserStore struct {
	createFn     func(ctx context.Context, u domain.User) (*domain.User, error)
	getFn        func(ctx context.Context, id string) (*domain.User, error)
	updateFn     func(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	byIdentityFn func(ctx context.Context, externalID string) (*domain.User, error)
	byWalletFn   func(ctx context.Context, address string) (*domain.User, error)
	searchFn     func(ctx context.Context, query string, limit int) ([]*domain.User, error)
}

func (s *stubUserStore) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	return s.createFn(ctx, u)
}

func (s *stubUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserStore) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubUserStore) GetByExternalIdentity(ctx context.Context, externalID string) (*domain.User, error) {
	return s.byIdentityFn(ctx, externalID)
}

func (s *stubUserStore) GetByWalletAddress(ctx context.Context, address string) (*domain.User, error) {
	return s.byWalletFn(ctx, address)
}

func (s *stubUserStore) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	return s.searchFn(ctx, query, limit)
}

type stubProjectStore struct {
	ports.ProjectStore
	listByCreatorFn func(ctx context.Context, creatorID string) ([]*domain.Project, error)
	searchFn        func(ctx context.Context, query string, limit int) ([]*domain.Project, error)
}

func (s *stubProjectStore) ListByCreator(ctx context.Context, creatorID string) ([]*domain.Project, error) {
	return s.listByCreatorFn(ctx, creatorID)
}

func (s *stubProjectStore) Search(ctx context.Context, query string, limit int) ([]*domain.Project, error) {
	return s.searchFn(ctx, query, limit)
}

type stubTaskStore struct {
	ports.TaskStore
	updateFn func(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
}

func (s *stubTaskStore) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	return s.updateFn(ctx, id, patch)
}

type stubRequestService struct {
	sendFn    func(ctx context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error)
	respondFn func(ctx context.Context, id string, status domain.RequestStatus) (*domain.CollaborationRequest, error)
}

func (s *stubRequestService) Send(ctx context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error) {
	return s.sendFn(ctx, r)
}

func (s *stubRequestService) Respond(ctx context.Context, id string, status domain.RequestStatus) (*domain.CollaborationRequest, error) {
	return s.respondFn(ctx, id, status)
}

type stubMatchService struct {
	findFn   func(ctx context.Context, in ports.FindMatchesInput) ([]domain.MatchScore, error)
	teamFn   func(ctx context.Context, projectID string) ([]domain.MatchScore, error)
	cachedFn func(ctx context.Context, subjectID string) ([]domain.MatchScore, error)
}

func (s *stubMatchService) FindMatches(ctx context.Context, in ports.FindMatchesInput) ([]domain.MatchScore, error) {
	return s.findFn(ctx, in)
}

func (s *stubMatchService) ScoreProjectTeam(ctx context.Context, projectID string) ([]domain.MatchScore, error) {
	return s.teamFn(ctx, projectID)
}

func (s *stubMatchService) Cached(ctx context.Context, subjectID string) ([]domain.MatchScore, error) {
	return s.cachedFn(ctx, subjectID)
}

type stubOnboardingService struct {
	onboardFn func(ctx context.Context, rec domain.IdentityRecord) (*domain.User, bool, error)
}

func (s *stubOnboardingService) Onboard(ctx context.Context, rec domain.IdentityRecord) (*domain.User, bool, error) {
	return s.onboardFn(ctx, rec)
}

type stubReconciler struct {
	report ports.ReconcileReport
	err    error
}

func (s *stubReconciler) Reconcile(context.Context) (ports.ReconcileReport, error) {
	return s.report, s.err
}

// stubBackend answers Ping only; the embedded nil interface panics on any
// other call.
type stubBackend struct {
	ports.KVBackend
	pingErr error
}

func (s *stubBackend) Ping(context.Context) error {
	return s.pingErr
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d (%s)", want, rec.Code, rec.Body.String())
	}
}
