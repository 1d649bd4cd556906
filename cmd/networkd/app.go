package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/api"
	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/core/service"
	"github.com/collabhub/network/internal/infrastructure/db/kvstore"
	"github.com/collabhub/network/internal/infrastructure/db/memory"
	redisdb "github.com/collabhub/network/internal/infrastructure/db/redis"
	"github.com/collabhub/network/internal/pkg/config"
	"github.com/collabhub/network/pkg/logger"
)

// app holds everything a command needs, wired from configuration.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	kv    ports.KVBackend
	store *kvstore.Store

	matches    *service.MatchService
	onboarding *service.OnboardingService
	requests   *service.RequestService
	reconciler *kvstore.Reconciler

	close func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "networkd",
	})

	kv, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", cfg.Backend).Msg("backend ready")

	st := kvstore.New(kv, log, kvstore.Options{
		MatchCacheTTL: cfg.Match.CacheTTL,
		SearchLimit:   cfg.Match.SearchDefaultLimit,
	})

	return &app{
		cfg:        cfg,
		log:        log,
		kv:         kv,
		store:      st,
		matches:    service.NewMatchService(st.Users, st.Projects, st.MatchCache, log),
		onboarding: service.NewOnboardingService(st.Users, log),
		requests:   service.NewRequestService(st.Requests, st.Users, st.Collaborations, log),
		reconciler: kvstore.NewReconciler(kv, cfg.Worker.ReconcileWorkers, log),
		close:      closeFn,
	}, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (ports.KVBackend, func() error, error) {
	if cfg.Backend == config.BackendMemory {
		return memory.NewBackend(), func() error { return nil }, nil
	}

	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return redisdb.NewBackend(client, cfg.Redis.Timeout), client.Close, nil
}

func (a *app) routerDeps() api.Dependencies {
	return api.Dependencies{
		Backend:        a.kv,
		BackendName:    a.cfg.Backend,
		Users:          a.store.Users,
		Projects:       a.store.Projects,
		Collaborations: a.store.Collaborations,
		Tasks:          a.store.Tasks,
		Requests:       a.store.Requests,
		Matches:        a.matches,
		Onboarding:     a.onboarding,
		RequestSvc:     a.requests,
		Reconciler:     a.reconciler,
	}
}

func (a *app) shutdown() {
	if err := a.close(); err != nil {
		a.log.Warn().Err(err).Msg("closing backend failed")
	}
}
