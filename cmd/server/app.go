package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/adapters"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/database"
	_ "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/docs"
	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/middleware"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/monitoring"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/ratelimit"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/risk"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/security"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

// app holds the wired dependencies behind the HTTP routes.
type app struct {
	version string

	logger  *monitoring.Logger
	metrics *monitoring.Metrics

	db        *database.DB
	store     *offence.Store
	service   *risk.Service
	refresher *offence.Refresher       // nil when no upstream is configured
	upstream  *adapters.OffenceClient // nil when no upstream is configured

	redis       *ratelimit.RedisClient
	limiter     *ratelimit.RateLimiter
	auth        *security.Authenticator
	security    *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
}

// observeRefresh feeds refresh outcomes into metrics and the log.
func (a *app) observeRefresh(result offence.SyncResult, err error) {
	if err != nil {
		a.metrics.IncrementSyncFailure()
		a.logger.Error("Offence refresh failed", "error", err)
		return
	}
	a.metrics.RecordSync(monitoring.SyncSummary{
		RunID:     result.RunID,
		Added:     result.Added,
		Updated:   result.Updated,
		Deleted:   result.Deleted,
		Unchanged: result.Unchanged,
		At:        time.Now(),
	})
	a.logger.SyncLogger(result.RunID, result.Added, result.Updated, result.Deleted, result.Unchanged,
		time.Duration(result.DurationMs)*time.Millisecond)
}

func (a *app) router() *gin.Engine {
	r := gin.New()

	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(security.SecurityHeadersMiddleware(a.security.Config().EnableHSTS))
	r.Use(a.security.CORS())
	r.Use(a.compression.Handler())
	r.Use(apperrors.ErrorHandler())

	r.GET("/health", a.health)
	r.GET("/metrics", a.metricsSnapshot)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/",
		a.security.RequestTimeout,
		a.security.ValidateContentType,
		a.security.LimitBody,
		a.auth.Authenticate(),
	)
	api.POST("/risk-scores",
		security.RequireRole(security.RoleRiskActuarial),
		a.limiter.ClientMiddleware(bySubject),
		a.scoreRisk)
	api.GET("/offences/:code",
		security.RequireRole(security.RoleRiskActuarial),
		a.getOffence)
	api.POST("/admin/offences/sync",
		security.RequireRole(security.RoleOffenceAdmin),
		a.limiter.AdminMiddleware(bySubject),
		a.syncOffences)

	return r
}

// bySubject limits authenticated callers by token subject.
func bySubject(c *gin.Context) string {
	if p, ok := security.PrincipalFrom(c); ok && p.Subject != "" {
		return "sub:" + p.Subject
	}
	return ratelimit.ByClientIP(c)
}

func (a *app) scoreRisk(c *gin.Context) {
	var req types.RiskScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			_ = c.Error(apperrors.NewValidationErrorWithMap(map[string]string{
				typeErr.Field: "expected " + typeErr.Type.String(),
			}))
			return
		}
		_ = c.Error(apperrors.NewValidationError("Invalid request body", err))
		return
	}

	logger := a.logger.WithRequestID(monitoring.RequestID(c))
	ctx := risk.ContextWithLogger(c.Request.Context(), logger.Logger)
	resp := a.service.Score(ctx, &req)
	a.metrics.IncrementScore()
	c.JSON(http.StatusOK, resp)
}

func (a *app) getOffence(c *gin.Context) {
	code := c.Param("code")
	rec, err := a.store.Lookup(code)
	if errors.Is(err, offence.ErrNotFound) {
		_ = c.Error(apperrors.NewNotFoundError("Offence code", code))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (a *app) syncOffences(c *gin.Context) {
	if a.refresher == nil {
		_ = c.Error(apperrors.NewConfigurationError("OFFENCE_API_URL is not configured", nil))
		return
	}

	result, err := a.refresher.Refresh(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *app) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if err := a.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = gin.H{"status": "down", "error": err.Error()}
	} else {
		checks["database"] = gin.H{"status": "up", "driver": a.db.Driver()}
	}

	if a.redis.IsEnabled() {
		if err := a.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["redis"] = gin.H{"status": "up"}
		}
	}

	checks["offence_codes"] = gin.H{"status": "up", "count": a.store.Len()}
	if a.upstream != nil {
		checks["offence_api"] = a.upstream.BreakerStats()
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    state,
		"version":   a.version,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (a *app) metricsSnapshot(c *gin.Context) {
	stats := a.metrics.GetStats()
	stats["rate_limiter"] = a.limiter.GetStats()
	stats["database"] = a.db.PoolStats()
	stats["offence_codes"] = a.store.Len()
	stats["compression"] = a.compression.GetStats()
	c.JSON(http.StatusOK, stats)
}
