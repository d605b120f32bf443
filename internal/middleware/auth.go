package middleware

import (
	"context"
	"net/http"
	"strings"

	"artisan-market/internal/auth"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticate verifies the bearer token on the request and stores the
// resulting caller identity in the request context. Handlers read it
// back with IdentityFromContext and pass it explicitly into services;
// nothing below the transport boundary touches the context for it.
func Authenticate(tokens *auth.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != auth.TokenType {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			identity, err := tokens.VerifyAndParse(parts[1])
			if err != nil {
				logger.Debug("Token verification failed", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", identity.UserID.String()),
				zap.String("role", identity.Role.String()),
			)

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated caller, or the zero
// Identity when the request carried no verified principal.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}
