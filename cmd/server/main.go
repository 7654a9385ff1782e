package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/adapters"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/config"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/database"
	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/middleware"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/monitoring"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/ratelimit"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/resilience"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/risk"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/security"
)

const serviceName = "hmpps-arns-risk-actuarial-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownTracing, err := monitoring.SetupTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.Version)
	if err != nil {
		slog.Warn("Tracing disabled", "error", err)
	}

	db, err := database.Open(ctx, database.DefaultConfig(cfg.DBDriver, cfg.DatabaseURL))
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer apperrors.SafeClose(db, "database")

	store := offence.NewStore(offence.NewSQLRepository(db), appLogger.Logger)
	if err := store.Load(ctx); err != nil {
		slog.Error("Failed to load offence codes", "error", err)
		os.Exit(1)
	}

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")

	auth, err := security.NewAuthenticator(security.AuthConfig{
		HMACSecret:   cfg.JWTSecret,
		RSAPublicKey: cfg.JWTPublicKey,
		Issuer:       cfg.JWTIssuer,
		Leeway:       30 * time.Second,
	})
	if err != nil {
		slog.Error("Failed to configure authentication", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()

	secConfig := security.DefaultSecurityConfig()
	secConfig.AllowedOrigins = cfg.AllowedOrigins
	secConfig.EnableHSTS = cfg.EnableHSTS

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.ClientLimitPerMin = cfg.RateLimitPerMinute
	limiterConfig.AdminLimitPerMin = cfg.AdminRateLimit
	limiter := ratelimit.NewRateLimiter(redisClient, limiterConfig, appMetrics)
	defer limiter.Close()

	a := &app{
		version: cfg.Version,
		logger:  appLogger,
		metrics: appMetrics,
		db:      db,
		store:   store,
		service: risk.NewService(store,
			risk.WithLogger(appLogger.Logger),
			risk.WithRecorder(appMetrics)),
		redis:       redisClient,
		limiter:     limiter,
		auth:        auth,
		security:    security.NewSecurityMiddleware(secConfig),
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}

	if cfg.OffenceAPIURL != "" {
		a.upstream = adapters.NewOffenceClient(adapters.OffenceClientConfig{
			BaseURL: cfg.OffenceAPIURL,
			Token:   cfg.OffenceAPIToken,
			Retry:   resilience.SlowRetryPolicy.Config,
			Breaker: resilience.CircuitBreakerConfig{
				FailureThreshold: 3,
				RecoveryTimeout:  time.Minute,
				SuccessThreshold: 1,
			},
		})
		a.refresher, err = offence.NewRefresher(store, observedFetcher{a.upstream, appMetrics, appLogger},
			cfg.OffenceRefreshCron, appLogger.Logger)
		if err != nil {
			slog.Error("Failed to schedule offence refresh", "error", err)
			os.Exit(1)
		}
		a.refresher.OnRefresh(a.observeRefresh)
		a.refresher.Start()
	} else {
		slog.Warn("OFFENCE_API_URL not set, offence codes will not be refreshed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "offence_codes", store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if a.refresher != nil {
		a.refresher.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if err := monitoring.FlushTracing(shutdownCtx, shutdownTracing); err != nil {
		slog.Warn("Failed to flush traces", "error", err)
	}

	slog.Info("Server exited")
}

// observedFetcher records upstream calls in metrics and the log.
type observedFetcher struct {
	next    offence.Fetcher
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
}

func (f observedFetcher) FetchAll(ctx context.Context) ([]offence.Record, error) {
	start := time.Now()
	records, err := f.next.FetchAll(ctx)

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	f.metrics.RecordExternalAPIRequest("offence-api", err == nil)
	f.logger.ExternalAPILogger("offence-api", http.MethodGet, "/offence-mappings", status, time.Since(start), err == nil)
	return records, err
}
