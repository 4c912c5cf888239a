package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorgate/internal/github"
	"mentorgate/internal/platform/config"
	"mentorgate/internal/platform/database"
	"mentorgate/internal/platform/httpserver"
	"mentorgate/internal/platform/logger"
	"mentorgate/internal/platform/middleware"
	"mentorgate/internal/platform/redis"
	"mentorgate/internal/profile"
	httptransport "mentorgate/internal/transport/http"
	"mentorgate/internal/verification/document"
	"mentorgate/internal/verification/document/ocr"
	"mentorgate/internal/verification/identity"
	"mentorgate/internal/verification/metrics"
	"mentorgate/internal/verification/ownership"
	"mentorgate/internal/verification/service"
	"mentorgate/internal/verification/store/challenge"
	"mentorgate/internal/verification/store/record"
	"mentorgate/internal/verification/tracer"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing mentorgate",
		"addr", cfg.Addr,
		"proof_repo", cfg.GitHubProofRepo,
		"challenge_ttl", cfg.ChallengeTTL,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close() //nolint:errcheck
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	var challenges challenge.Store
	if redisClient != nil {
		challenges = challenge.NewRedis(redisClient.Client)
	} else {
		memory := challenge.NewMemoryStore()
		memory.StartCleanup(5 * time.Minute)
		defer memory.Stop()
		challenges = memory
	}

	var records record.Store
	if pool != nil {
		records = record.NewPostgres(pool.DB())
	} else {
		records = record.NewMemoryStore()
	}

	ghClient := github.New(
		cfg.GitHubAPIBase,
		cfg.GitHubGraphQLURL,
		cfg.GitHubToken,
		cfg.OutboundTimeout,
		github.WithLogger(log),
		github.WithRateLimit(cfg.OutboundRateLimit),
	)

	documents := document.New(
		ocr.NewClient(cfg.OCRServiceURL, cfg.OutboundTimeout),
		document.WithLogger(log),
		document.WithMinConfidence(cfg.MinOCRConfidence),
	)

	m := metrics.New()
	go sampleActiveSessions(challenges, m)

	identitySvc := identity.NewService(
		identity.NewMemoryStore(),
		identity.NewLogSender(log),
		identity.WithLogger(log),
		identity.WithTokenTTL(cfg.IdentityTokenTTL),
	)

	svc := service.New(
		challenges,
		records,
		ghClient,
		ownership.New(ghClient, cfg.GitHubProofRepo, ownership.WithLogger(log)),
		documents,
		identitySvc,
		profile.NewMemoryPromoter(),
		service.Config{
			Requirements:         cfg.Requirements,
			ChallengeTTL:         cfg.ChallengeTTL,
			AllowStatusDowngrade: cfg.AllowStatusDowngrade,
		},
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Verification: svc,
		Auth:         middleware.NewAuth(cfg.JWTSigningKey, log),
		Health:       httptransport.NewHealth(pool, redisClient),
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// sampleActiveSessions keeps the active-session gauge in step with the
// store, so sessions evicted by the background sweep or by Redis TTLs
// are reflected without an observing request.
func sampleActiveSessions(challenges challenge.Store, m *metrics.Metrics) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := challenges.Count(ctx); err == nil {
			m.ActiveSessions.Set(float64(n))
		}
		cancel()
	}
}
