package gardener

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Require wraps a handler and rejects requests without a valid token. The
// resolved gardener rides along in the request context.
func (s *Service) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.Authenticate(BearerToken(r))
		if !ok {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(WithGardener(r.Context(), g)))
	}
}

// RequireAdmin only lets the deploy-time administrator token through.
func (s *Service) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.IsAdmin(BearerToken(r)) {
			http.Error(w, "administrator token required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
