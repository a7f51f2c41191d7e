package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
)

const (
	// ContextKeyClaims is the gin context key for storing extracted claims.
	ContextKeyClaims = "claims"

	// Default header names if not configured.
	defaultSubjectHeader    = "X-User-ID"
	defaultPrivilegesHeader = "X-User-Privileges"
)

// Claims is the identity asserted by the gateway. The gateway authenticates
// the caller and forwards the user and its privileges in headers.
type Claims struct {
	// Subject is the user name.
	Subject string

	// Privileges are the named privileges granted to the user.
	Privileges []string
}

// HasPrivilege reports whether the user holds priv. Privilege names compare
// ignoring case.
func (c *Claims) HasPrivilege(priv string) bool {
	return slices.ContainsFunc(c.Privileges, func(p string) bool {
		return strings.EqualFold(p, priv)
	})
}

// ExtractClaims reads claims from request headers. Privileges are comma
// separated since privilege names contain spaces.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	privilegesHeader := defaultPrivilegesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.RolesHeader != "" {
			privilegesHeader = cfg.RolesHeader
		}
	}

	claims := &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
	}

	if privs := c.GetHeader(privilegesHeader); privs != "" {
		claims.Privileges = parseCommaSeparated(privs)
	}

	return claims
}

// GetClaims retrieves claims from the gin context.
// Returns nil if claims are not present.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// CurrentUser returns the authenticated user name, or "" for anonymous
// requests.
func CurrentUser(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}

// Authenticate extracts claims and adds the user to the request logger.
// With auth enabled, requests without a subject are rejected with 401.
func Authenticate(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)

		if cfg != nil && cfg.Enabled && claims.Subject == "" {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "authentication required")
			return
		}

		c.Set(ContextKeyClaims, claims)

		if claims.Subject != "" {
			c.Request = c.Request.WithContext(logging.WithUser(c.Request.Context(), claims.Subject))
		}

		c.Next()
	}
}

// RequirePrivilege rejects requests whose user lacks priv with 403.
// It passes everything when auth is disabled.
func RequirePrivilege(cfg *config.AuthConfig, priv string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		claims := GetClaims(c)
		if claims == nil {
			claims = ExtractClaims(c, cfg)
			c.Set(ContextKeyClaims, claims)
		}

		if !claims.HasPrivilege(priv) {
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, "privilege required: "+priv)
			return
		}

		c.Next()
	}
}

// parseCommaSeparated splits a comma-separated string into trimmed values.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
