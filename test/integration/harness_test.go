//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/jsamuelsen/conceptnametag-service/internal/adapters/http"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/conceptnametag-service/internal/bootstrap"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
)

const (
	headerUser       = "X-User-ID"
	headerPrivileges = "X-User-Privileges"
)

// service is the full HTTP stack over a fresh sqlite store.
type service struct {
	URL        string
	Components *bootstrap.Components
	client     *http.Client
}

// startService boots the service in-process. Auth is enabled so privilege
// checks are part of every scenario; configure may adjust the rest.
func startService(t testing.TB, configure func(*config.Config)) *service {
	t.Helper()

	cfg, err := config.LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	cfg.Database.Path = filepath.Join(t.TempDir(), "tags.db")
	cfg.Auth.Enabled = true

	if configure != nil {
		configure(cfg)
	}

	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	components, err := bootstrap.Build(context.Background(), cfg, logger, bootstrap.Options{})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		ServiceName: cfg.App.Name,
		Auth:        &cfg.Auth,
		Health: handlers.NewHealthHandler(handlers.HealthHandlerConfig{
			Registry: components.Health,
			Build:    handlers.NewBuildInfo("test", "test", "test"),
			Gatherer: components.Metrics,
		}),
		Tags:    handlers.NewConceptNameTagHandler(components.Service, &cfg.Auth),
		Timeout: cfg.Server.RequestTimeout,
	})

	srv := httptest.NewServer(engine)

	t.Cleanup(func() {
		srv.Close()
		_ = components.Close()
	})

	return &service{
		URL:        srv.URL,
		Components: components,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// identity is the gateway-supplied caller.
type identity struct {
	user       string
	privileges string
}

var (
	manager = identity{user: "admin", privileges: config.DefaultManagePrivilege}
	reader  = identity{user: "clerk"}
)

// do sends a request and returns the status and body.
func (s *service) do(ctx context.Context, who identity, method, path string, body any) (int, []byte, error) {
	var payload io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}

		payload = bytes.NewReader(raw)
	}

	return s.doRaw(ctx, who, method, path, payload)
}

func (s *service) doRaw(ctx context.Context, who identity, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.URL+path, body)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	if who.user != "" {
		req.Header.Set(headerUser, who.user)
	}

	if who.privileges != "" {
		req.Header.Set(headerPrivileges, who.privileges)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)

	return resp.StatusCode, raw, err
}
