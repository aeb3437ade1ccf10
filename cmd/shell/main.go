package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/config"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/form"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/handler"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/cache"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/resilience"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/notice"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/orchestrator"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/repository"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/service"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/session"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/upload"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	baseURL := cfg.ResolveBaseURL()
	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_base_url", baseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.String("session_store", cfg.SessionStore),
		zap.Duration("preview_ttl", cfg.PreviewTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Session ---
	store, closeStore, err := openSessionStore(cfg)
	if err != nil {
		logger.Fatal("failed to open session store", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	defer closeStore()

	sess := session.New(store, cfg.SessionKey, logger)
	if err := sess.Restore(); err != nil {
		logger.Warn("session not restored", zap.Error(err))
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxConcurrency: cfg.MaxConcurrency,
		BreakerTimeout: cfg.BreakerTimeout,
	}
	cb := resilience.NewCircuitBreaker("inventory-api", resilienceCfg, client.IsTransportFailure)
	bulkhead := resilience.NewBulkhead(resilienceCfg.MaxConcurrency)

	// --- Client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := client.New(httpClient, baseURL, sess, cb, bulkhead, metrics, logger)

	// --- Components ---
	feed := notice.NewFeed(cfg.NoticeCapacity, logger)
	repos := repository.NewSet(api, metrics, logger)
	orch := orchestrator.New(sess, repos, feed, logger)
	forms := form.New(form.Creators{
		Addresses: repos.Addresses,
		Customers: repos.Customers,
		Suppliers: repos.Suppliers,
		Products:  repos.Products,
		Materials: repos.Materials,
		Phones:    repos.Phones,
	}, feed, metrics, logger)

	previews := cache.New[upload.Preview](cfg.PreviewTTL)
	defer previews.Close()
	uploader := upload.New(api, previews, "/v1/previews", feed, metrics, logger)

	authSvc := service.NewAuthService(api, sess, logger)

	sess.Subscribe(orch.OnAuthChange)
	sess.Subscribe(func(authenticated bool) {
		if !authenticated {
			forms.ResetAll()
		}
	})

	// a restored token loads the landing page right away
	if sess.IsAuthenticated() {
		orch.OnAuthChange(true)
	}

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Session:      sess,
		Auth:         authSvc,
		Orchestrator: orch,
		Repos:        repos,
		Forms:        forms,
		Uploader:     uploader,
		Notices:      feed,
		Metrics:      metrics,
		BaseURL:      baseURL,
		Logger:       logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}
	orch.Wait()

	logger.Info("server stopped")
}

func openSessionStore(cfg *config.Config) (port.KeyValueStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), func() {}, nil
	case config.SessionStoreRedis:
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	default:
		return session.NewFileStore(cfg.SessionFile), func() {}, nil
	}
}
