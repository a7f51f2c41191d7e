package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/telemetry"
)

// RouterConfig contains the handlers and settings the router wires together.
type RouterConfig struct {
	// ServiceName names the otel spans.
	ServiceName string

	// Auth controls the gateway identity headers. Nil disables auth.
	Auth *config.AuthConfig

	// Health serves /-/ routes. Optional.
	Health *handlers.HealthHandler

	// Tags serves the tag API. Optional.
	Tags *handlers.ConceptNameTagHandler

	// Timeout is the deadline of API requests. Zero means none.
	Timeout time.Duration
}

// SetupRouter installs middleware and routes on engine.
// Middleware order, outermost first: recovery, request and correlation IDs,
// otel tracing and metrics, request logging. API routes additionally get
// authentication and the request deadline; /-/ routes get neither.
// It returns the /api/v1 group.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) *gin.RouterGroup {
	engine.Use(middleware.Recovery(), middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.Authenticate(cfg.Auth), middleware.Timeout(cfg.Timeout))

	if cfg.Tags != nil {
		cfg.Tags.RegisterRoutes(api)
	}

	return api
}
