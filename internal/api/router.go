package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mailsift/config"
	"mailsift/internal/repository"
	"mailsift/internal/service"
	"mailsift/pkg/mq"
	"mailsift/pkg/outbox"
)

// ServerDeps carries everything the ingest API needs.
type ServerDeps struct {
	Cfg       *config.Config
	DB        *pgxpool.Pool
	Publisher *mq.Publisher
	Ingest    *service.IngestService
	EmailRepo *repository.EmailRepository
	LogRepo   *repository.NotificationLogRepository
	Replay    *outbox.ReplayService
	Logger    *zap.Logger
}

// NewServerRouter builds the ingest/query API served by cmd/server.
func NewServerRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if err := deps.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		if !deps.Publisher.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mq unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := NewAuthHandler(deps.Cfg.Admin, deps.Logger)
	r.POST("/auth/login", auth.Login)

	ingest := NewIngestHandler(deps.Ingest, deps.Logger)
	query := NewEmailQueryHandler(deps.EmailRepo, deps.LogRepo, deps.Logger)
	ob := NewOutboxHandler(deps.Replay, deps.Logger)

	protected := r.Group("/", AuthMiddleware(deps.Cfg.Admin.JWTSecret, deps.Logger))
	{
		protected.POST("/emails/ingest", ingest.Ingest)
		protected.GET("/emails", query.ListEmails)
		protected.GET("/emails/:id", query.GetEmail)
		protected.GET("/notifications", query.ListNotifications)
		protected.POST("/outbox/replay/:id", ob.ReplayEvent)
		protected.POST("/outbox/replay-failed", ob.ReplayFailed)
	}

	return r
}

// NewAdminRouter builds the operator listener served by cmd/worker. It lives
// with the worker because the worker owns the categorizer's quota state.
func NewAdminRouter(cfg config.AdminConfig, quota QuotaController, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	qh := NewQuotaHandler(quota, logger)
	admin := r.Group("/admin", AuthMiddleware(cfg.JWTSecret, logger))
	{
		admin.GET("/quota", qh.Status)
		admin.POST("/quota/reset", qh.Reset)
	}

	return r
}
