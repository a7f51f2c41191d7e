// Package handlers provides the HTTP handlers of the tag service.
package handlers

import (
	"net/http"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

// BuildInfo is injected at build time with -ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo creates a BuildInfo with the Go version filled in.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandlerConfig contains the operational endpoints' dependencies.
type HealthHandlerConfig struct {
	// Registry runs the readiness checks. Required.
	Registry ports.HealthRegistry

	Build BuildInfo

	// Gatherer is scraped at MetricsPath. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// MetricsPath defaults to /-/metrics.
	MetricsPath string
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry    ports.HealthRegistry
	buildInfo   BuildInfo
	gatherer    prometheus.Gatherer
	metricsPath string
}

// NewHealthHandler creates the handler. Panics if Registry is nil.
func NewHealthHandler(cfg HealthHandlerConfig) *HealthHandler {
	if cfg.Registry == nil {
		panic("HealthHandler: Registry is required")
	}

	path := cfg.MetricsPath
	if path == "" {
		path = "/-/metrics"
	}

	return &HealthHandler{
		registry:    cfg.Registry,
		buildInfo:   cfg.Build,
		gatherer:    cfg.Gatherer,
		metricsPath: path,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness reports that the process is up. It checks no dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every registered check: the tag store and, with the remote
// lookup backend, the terminology service. 503 when any fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// Build returns the build information.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// RegisterRoutes registers /-/live, /-/ready, /-/build and the metrics
// endpoint on engine.
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	ops := engine.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)

	if h.gatherer != nil {
		path := h.metricsPath
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		engine.GET(path, gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}
