package api

import (
	"net/http"
	"strings"

	"github.com/mkravets/kiosk/auth"
	"github.com/mkravets/kiosk/webutil"
)

// Authenticate resolves a bearer token into an identity on the request
// context. An absent or invalid token leaves the request anonymous; routes
// that require a user reject anonymous requests themselves.
func Authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(webutil.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := tokens.VerifyToken(strings.TrimSpace(tokenString))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
