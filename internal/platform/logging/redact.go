package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Three base64url segments, header and payload both starting with "{".
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	authHeaderPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)

	// sqlite DSNs may carry _auth_pass; remote DSNs carry user:pass@.
	dsnCredentialPattern = regexp.MustCompile(`(?i)(_auth_pass=|://[^/\s:@]+:[^/\s@]+@)`)
)

// sensitiveFields are attribute names whose values are never logged.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"access_token",
	"refresh_token",
	"authorization",
	"cookie",
	"credentials",
	"dsn",
	"private_key",
	"x_api_key",
}

// DefaultRedactOptions returns the masq options used by every handler.
// Append project options with NewReplaceAttr(extra...).
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+5)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(authHeaderPattern),
		masq.WithRegex(dsnCredentialPattern),
	)
}

// NewReplaceAttr creates a slog ReplaceAttr function that redacts secrets.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
