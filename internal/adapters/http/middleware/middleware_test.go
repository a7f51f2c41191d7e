package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withLogger installs a JSON logger writing to buf as the request logger.
func withLogger(buf *bytes.Buffer) gin.HandlerFunc {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRequestID(t *testing.T) {
	var fromCtx, fromGin string

	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		fromCtx = RequestIDFromContext(c.Request.Context())
		fromGin = GetRequestID(c)
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, fromCtx)
	assert.Equal(t, generated, fromGin)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w = serve(router, req)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-42", fromCtx)
}

func TestCorrelationID(t *testing.T) {
	var fromCtx string

	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/x", func(c *gin.Context) {
		fromCtx = CorrelationIDFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderCorrelationID, "order-7")

	w := serve(router, req)
	assert.Equal(t, "order-7", w.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "order-7", fromCtx)
}

func TestIDFromContext_NotSet(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestExtractClaims(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.AuthConfig
		headers  map[string]string
		wantUser string
		wantPriv []string
	}{
		{
			name:     "default headers",
			headers:  map[string]string{"X-User-ID": " admin ", "X-User-Privileges": "Manage Concept Name tags, View Concepts,"},
			wantUser: "admin",
			wantPriv: []string{"Manage Concept Name tags", "View Concepts"},
		},
		{
			name:     "configured headers",
			cfg:      &config.AuthConfig{SubjectHeader: "X-Auth-User", RolesHeader: "X-Auth-Privileges"},
			headers:  map[string]string{"X-Auth-User": "clerk", "X-Auth-Privileges": "View Concepts", "X-User-ID": "ignored"},
			wantUser: "clerk",
			wantPriv: []string{"View Concepts"},
		},
		{name: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			claims := ExtractClaims(c, tt.cfg)
			assert.Equal(t, tt.wantUser, claims.Subject)
			assert.Equal(t, tt.wantPriv, claims.Privileges)
		})
	}
}

func TestClaims_HasPrivilege(t *testing.T) {
	claims := &Claims{Privileges: []string{"Manage Concept Name tags"}}

	assert.True(t, claims.HasPrivilege("manage concept name TAGS"))
	assert.False(t, claims.HasPrivilege("Purge Concepts"))
	assert.False(t, (&Claims{}).HasPrivilege("anything"))
}

func TestAuthenticate(t *testing.T) {
	enabled := &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID"}

	tests := []struct {
		name       string
		cfg        *config.AuthConfig
		user       string
		wantStatus int
		wantUser   string
	}{
		{name: "disabled anonymous", cfg: &config.AuthConfig{}, wantStatus: http.StatusOK},
		{name: "nil config", wantStatus: http.StatusOK},
		{name: "disabled still reads the user", cfg: &config.AuthConfig{}, user: "admin", wantStatus: http.StatusOK, wantUser: "admin"},
		{name: "enabled anonymous", cfg: enabled, wantStatus: http.StatusUnauthorized},
		{name: "enabled user", cfg: enabled, user: "admin", wantStatus: http.StatusOK, wantUser: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Authenticate(tt.cfg))
			router.GET("/x", func(c *gin.Context) {
				logging.FromContext(c.Request.Context()).Info("handled")
				c.String(http.StatusOK, CurrentUser(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.user != "" {
				req.Header.Set("X-User-ID", tt.user)
			}

			w := serve(router, req)
			require.Equal(t, tt.wantStatus, w.Code)

			if w.Code != http.StatusOK {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeUnauthorized, resp.Error.Code)

				return
			}

			assert.Equal(t, tt.wantUser, w.Body.String())

			if tt.wantUser != "" {
				assert.Contains(t, buf.String(), `"user":"`+tt.wantUser+`"`)
			}
		})
	}
}

func TestRequirePrivilege(t *testing.T) {
	const priv = "Manage Concept Name tags"

	enabled := &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID", RolesHeader: "X-User-Privileges"}

	tests := []struct {
		name       string
		cfg        *config.AuthConfig
		privileges string
		wantStatus int
	}{
		{name: "auth disabled", cfg: &config.AuthConfig{}, wantStatus: http.StatusOK},
		{name: "has privilege", cfg: enabled, privileges: "View Concepts, " + priv, wantStatus: http.StatusOK},
		{name: "lacks privilege", cfg: enabled, privileges: "View Concepts", wantStatus: http.StatusForbidden},
		{name: "no privileges", cfg: enabled, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Authenticate(tt.cfg), RequirePrivilege(tt.cfg, priv))
			router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			req.Header.Set("X-User-ID", "clerk")

			if tt.privileges != "" {
				req.Header.Set("X-User-Privileges", tt.privileges)
			}

			assert.Equal(t, tt.wantStatus, serve(router, req).Code)
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		skipped   bool
	}{
		{name: "success", path: "/api/v1/concept-name-tags?limit=5", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", path: "/api/v1/concept-name-tags", status: http.StatusBadRequest, wantLevel: "WARN"},
		{name: "server error", path: "/api/v1/concept-name-tags", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "operational", path: "/-/live", status: http.StatusOK, skipped: true},
		{name: "skip path", path: "/favicon.ico", status: http.StatusOK, skipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), RequestID(), Logging("/favicon.ico"))
			router.NoRoute(func(c *gin.Context) { c.Status(tt.status) })

			serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if tt.skipped {
				assert.Empty(t, buf.String())
				return
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "request completed", line["msg"])
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, tt.path, line["path"])
			assert.InDelta(t, tt.status, line["status"], 0)
			assert.NotEmpty(t, line["request_id"])
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(Recovery(), withLogger(&buf))
	router.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestTimeout(t *testing.T) {
	var (
		deadline time.Time
		hasDL    bool
	)

	router := gin.New()
	router.Use(Timeout(time.Minute, "/upload"))

	handler := func(c *gin.Context) {
		deadline, hasDL = c.Request.Context().Deadline()
	}
	router.GET("/api", handler)
	router.GET("/upload", handler)

	serve(router, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.True(t, hasDL)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	serve(router, httptest.NewRequest(http.MethodGet, "/upload", nil))
	assert.False(t, hasDL)
}

func TestTimeout_Zero(t *testing.T) {
	hasDL := true

	router := gin.New()
	router.Use(Timeout(0))
	router.GET("/api", func(c *gin.Context) { _, hasDL = c.Request.Context().Deadline() })

	serve(router, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.False(t, hasDL)
}
