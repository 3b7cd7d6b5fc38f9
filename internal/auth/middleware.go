package auth

import (
	"net/http"
	"strings"

	"github.com/growthos/growthos/internal/platform/httpx"
	"github.com/growthos/growthos/internal/shared"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session_token"

// TokenFromRequest extracts the session token from the cookie or, when
// absent, from an Authorization bearer header. Both carry the same opaque
// token and resolve through the same lookup.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects unauthenticated requests and attaches the actor
// to the request context for everything downstream.
func RequireSession(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				httpx.RespondError(w, httpx.ErrUnauthenticated)
				return
			}
			user, err := service.ResolveSession(r.Context(), token)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			actor := &shared.Actor{ID: user.ID, Email: user.Email, Name: user.Name}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
		})
	}
}
