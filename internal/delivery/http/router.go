package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/delivery/http/middleware"
	"github.com/kingdomOfIT/momentum/internal/usecase"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	StoreUC         *usecase.StoreDocumentUsecase
	GetUC           *usecase.GetDocumentUsecase
	SummaryUC       *usecase.RequestSummaryUsecase
	Logger          *zap.Logger
	RateLimitPerMin int
	MaxBodyBytes    int64
	DBPool          *pgxpool.Pool
	Redis           *goredis.Client
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (no rate limiting)
	healthHandler := NewHealthHandler(deps.DBPool, deps.Redis, deps.Logger)
	router.GET("/health", healthHandler.Health)

	// Documents (with rate limiting and body limit)
	docHandler := NewDocumentHandler(deps.StoreUC, deps.GetUC, deps.SummaryUC, deps.Logger)
	docs := router.Group("/documents")
	docs.Use(middleware.RateLimiter(deps.RateLimitPerMin))
	docs.Use(middleware.BodySizeLimit(deps.MaxBodyBytes))
	{
		docs.POST("", docHandler.Store)
		docs.GET("/:id", docHandler.Get)
		docs.GET("/:id/summary", docHandler.Summary)
	}

	return router
}
