package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/util"
)

// RequireAdmin wraps a downstream handler behind HTTP Basic auth. Any user
// name is accepted; the password must match the configured admin password.
// An empty configured password rejects every request.
func RequireAdmin(cfg *config.Config, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok {
				resp.WriteUnauthorized(w, "Admin credentials are required")
				return
			}

			expected := cfg.Server.AdminPassword
			if expected == "" || subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
				util.LoggerFor(r, log).Warnf("rejected admin credentials for user %q", user)
				resp.WriteUnauthorized(w, "Invalid admin credentials")
				return
			}

			if user == "" {
				user = "admin"
			}

			rl := util.WithRequest(log, r, user)
			next.ServeHTTP(w, r.WithContext(util.ContextWithLogger(r.Context(), rl)))
		})
	}
}
