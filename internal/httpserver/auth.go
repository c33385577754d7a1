package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	authdomain "bookmarks/backend/internal/domain/auth"
)

type ctxKeyUser struct{}

// authMiddleware admits only requests carrying a bearer token that resolves
// to an existing user, and attaches that user's public view to the context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, authdomain.ErrUnauthenticated) {
				s.logger.Debug(r.Context(), "bearer token rejected", "error", err)
			}
			s.writeServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserFromContext(ctx context.Context) (*authdomain.PublicUser, bool) {
	user, ok := ctx.Value(ctxKeyUser{}).(*authdomain.PublicUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func extractBearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
