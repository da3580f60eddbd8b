package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docstore/internal/chat"
	"docstore/internal/documents"
	"docstore/internal/mcp"
	"docstore/internal/services/health"
	"docstore/internal/shared/config"
	"docstore/internal/shared/metrics"
	"docstore/internal/shared/server/middleware"
	"docstore/internal/shared/server/respond"
)

// RouterDeps holds dependencies for router construction.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	DocumentHandler *documents.Handler
	MCPHandler      *mcp.Handler
	ChatHandler     *chat.Handler
	// ChatLimiter is shared across routers so tests can inject a clock.
	ChatLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.RedirectTrailingSlash = true
	r.SetHTMLTemplate(documents.IndexTemplate)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	r.GET("/metrics", metrics.Handler())

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(r)
	}
	if deps.MCPHandler != nil {
		deps.MCPHandler.RegisterRoutes(r)
	}
	if deps.ChatHandler != nil {
		rule := middleware.RateLimitRule{
			Rate:  deps.Config.ChatRateLimitRPS,
			Burst: deps.Config.ChatRateLimitBurst,
		}
		deps.ChatHandler.RegisterRoutes(r, middleware.RateLimit(rule, deps.ChatLimiter))
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
