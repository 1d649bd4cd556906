package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/api/handler"
	"github.com/collabhub/network/internal/api/middleware"
	"github.com/collabhub/network/internal/core/ports"
)

// Dependencies are the stores and services the HTTP layer serves.
type Dependencies struct {
	Backend     ports.KVBackend
	BackendName string

	Users          ports.UserStore
	Projects       ports.ProjectStore
	Collaborations ports.CollaborationStore
	Tasks          ports.TaskStore
	Requests       ports.RequestStore

	Matches    ports.MatchService
	Onboarding ports.OnboardingService
	RequestSvc ports.RequestService
	Reconciler ports.Reconciler

	// Registry receives the HTTP request metrics and backs /metrics. Nil
	// selects the default Prometheus registry, where the store metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "network",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	users := handler.NewUserHandler(deps.Users)
	projects := handler.NewProjectHandler(deps.Projects)
	collabs := handler.NewCollaborationHandler(deps.Collaborations)
	tasks := handler.NewTaskHandler(deps.Tasks)
	requests := handler.NewRequestHandler(deps.RequestSvc, deps.Requests)
	matches := handler.NewMatchHandler(deps.Matches)
	onboarding := handler.NewOnboardingHandler(deps.Onboarding)
	admin := handler.NewAdminHandler(deps.Reconciler, log)

	v1 := e.Group("/v1")

	// --- Users ---
	v1.POST("/users", users.Create)
	v1.GET("/users", users.Search)
	v1.GET("/users/by-identity/:externalId", users.GetByExternalIdentity)
	v1.GET("/users/by-wallet/:address", users.GetByWalletAddress)
	v1.GET("/users/:id", users.Get)
	v1.PATCH("/users/:id", users.Update)
	v1.GET("/users/:id/matches", matches.Find)
	v1.GET("/users/:id/matches/cached", matches.Cached)
	v1.GET("/users/:id/requests", requests.ListByRecipient)
	v1.GET("/users/:id/collaborations", collabs.ListByUser)
	v1.POST("/onboarding", onboarding.Onboard)

	// --- Projects ---
	v1.POST("/projects", projects.Create)
	v1.GET("/projects", projects.List)
	v1.GET("/projects/:id", projects.Get)
	v1.PATCH("/projects/:id", projects.Update)
	v1.GET("/projects/:id/collaborations", collabs.ListByProject)
	v1.GET("/projects/:id/tasks", tasks.ListByProject)
	v1.GET("/projects/:id/team-scores", matches.TeamScores)

	// --- Collaborations and tasks ---
	v1.POST("/collaborations", collabs.Create)
	v1.GET("/collaborations/:id", collabs.Get)
	v1.PATCH("/collaborations/:id", collabs.Update)
	v1.POST("/tasks", tasks.Create)
	v1.GET("/tasks/:id", tasks.Get)
	v1.PATCH("/tasks/:id", tasks.Update)

	// --- Collaboration requests ---
	v1.POST("/requests", requests.Send)
	v1.GET("/requests/:id", requests.Get)
	v1.PATCH("/requests/:id", requests.Respond)

	v1.POST("/admin/reconcile", admin.Reconcile)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Backend, deps.BackendName)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: is the backend up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}
