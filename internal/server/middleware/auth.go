package middleware

import (
	"net/http"

	"github.com/plughost/credhub/internal/auth"
)

// AuthFailureCounter counts rejected authentication attempts
type AuthFailureCounter interface {
	IncrementAuthFailures()
}

// RequireAuth returns middleware that requires authentication for every
// method. Credential payloads are sensitive, so reads are guarded the
// same way as writes.
func RequireAuth(authenticator auth.Authenticator, metrics AuthFailureCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := authenticator.Authenticate(r); err != nil {
				if metrics != nil {
					metrics.IncrementAuthFailures()
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="Credhub"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
