package middleware

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/token"
	"go.uber.org/zap"
)

// ContextKey is a dedicated type for context keys to avoid collisions.
type ContextKey string

// UserIDCtxKey holds the authenticated account id resolved by the session guard.
const UserIDCtxKey = ContextKey("user_id")

const sessionCookieName = "token"

// SessionGuard validates the session cookie on protected routes. It checks
// the signature and expiry only; it does not consult the credential store,
// so handlers needing fresh account state must re-query it.
type SessionGuard struct {
	jwt    *token.JWT
	logger *zap.Logger
}

func NewSessionGuard(jwt *token.JWT, logger *zap.Logger) *SessionGuard {
	return &SessionGuard{
		jwt:    jwt,
		logger: logger.Named("SessionGuard"),
	}
}

// Authenticate rejects requests without a valid session token and binds the
// resolved account id into the request context. Missing and invalid tokens
// are both reported to the client as a generic 401.
func (g *SessionGuard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			g.unauthorized(w)
			return
		}

		userID, err := g.jwt.ParseSessionToken(cookie.Value)
		if err != nil {
			g.logger.Debug("Rejected session token", zap.Error(err))
			g.unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *SessionGuard) unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Unauthorized"}`))
}

// UserIDFromContext retrieves the account id bound by the session guard.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}
