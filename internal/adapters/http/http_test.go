package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serverConfig(host string, port int, maxSize int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           host,
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: maxSize,
	}
}

func TestServer_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{host: "localhost", port: 8080, want: "localhost:8080"},
		{host: "0.0.0.0", port: 3000, want: "0.0.0.0:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := serverConfig(tt.host, tt.port, 1<<20)
			srv := New(cfg, discardLogger())

			assert.Equal(t, tt.want, srv.Addr())
			assert.Same(t, cfg, srv.Config())
			assert.NotNil(t, srv.Engine())
		})
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv := New(serverConfig("127.0.0.1", 0, 1<<20), nil)
	errCh := srv.Start()

	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case _, ok := <-errCh:
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_MaxBodySize(t *testing.T) {
	srv := New(serverConfig("127.0.0.1", 0, 16), discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSetupRouter(t *testing.T) {
	engine := gin.New()
	api := SetupRouter(engine, RouterConfig{
		ServiceName: "conceptnametag-service",
		Auth:        &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID"},
		Health:      handlers.NewHealthHandler(handlers.HealthHandlerConfig{Registry: ports.NewHealthRegistry()}),
		Timeout:     time.Second,
	})

	api.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.CurrentUser(c))
	})

	t.Run("health is open", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("ids are echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/-/ready", nil)
		req.Header.Set(middleware.HeaderCorrelationID, "corr-7")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "corr-7", w.Header().Get(middleware.HeaderCorrelationID))
	})

	t.Run("api requires a user", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
		req.Header.Set("X-User-ID", "admin")

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())
	})
}

func TestSetupRouter_NilHandlers(t *testing.T) {
	require.NotPanics(t, func() {
		SetupRouter(gin.New(), RouterConfig{ServiceName: "test"})
	})
}
