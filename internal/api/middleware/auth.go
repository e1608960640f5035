// internal/api/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/quantlab/quiver/internal/api/response"
	"github.com/quantlab/quiver/internal/core"
)

// APIKeyAuth returns middleware that validates the X-API-Key header.
// An empty apiKey disables authentication.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.Error(w, http.StatusUnauthorized,
					core.Wrapf(core.ErrConfigMissing, "X-API-Key header required"))
				return
			}

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.Wrapf(core.ErrConfigInvalid, "invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
