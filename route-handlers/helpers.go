package routehandlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/kiosk/auth"
	"github.com/mkravets/kiosk/webutil"
)

// parseIDParam extracts a numeric URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, webutil.ErrBadRequest("Invalid " + name + " format")
	}
	return id, nil
}

// requireIdentity returns the authenticated identity or an authorization
// failure for anonymous requests.
func requireIdentity(r *http.Request) (*auth.Identity, error) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		return nil, webutil.ErrUnauthorized("Authentication required")
	}
	return identity, nil
}
