package middleware

import (
	"context"
	"net/http"

	"studio/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey  = contextKey("user")
	TokenContextKey = contextKey("token")
)

// AuthMiddleware validates the bearer token and stores the subject and the raw
// token in the request context. The token is forwarded to the course gateway.
func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := util.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected request without bearer token")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			claims, err := util.ValidateJWT(tokenString, jwtSecret)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			ctx := WithUser(r.Context(), claims.Subject, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a context carrying an authenticated user.
func WithUser(ctx context.Context, userID, token string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, userID)
	return context.WithValue(ctx, TokenContextKey, token)
}

func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserContextKey).(string)
	return id, ok && id != ""
}

func Token(ctx context.Context) string {
	token, _ := ctx.Value(TokenContextKey).(string)
	return token
}
