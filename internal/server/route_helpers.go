package server

import (
	"net/http"

	"github.com/ternarybob/lukz/internal/services/ratelimit"
)

// protected wraps a data route with API key checks and the given limiter
func (s *Server) protected(limiter *ratelimit.Limiter, handler http.HandlerFunc) http.HandlerFunc {
	return s.requireAPIKey(s.rateLimited(limiter, handler))
}
