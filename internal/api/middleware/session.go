package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/session"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
)

type sessionContextKey string

const (
	ClaimsKey = sessionContextKey("claims")
	TokenKey  = sessionContextKey("access_token")
)

// BearerSession requires an access token in the Authorization header and
// puts its decoded claims and the raw token in the request context. The
// token is not verified here, the backend does that on every call.
func BearerSession(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims, err := session.ParseClaims(tokenParts[1])
		if err != nil {
			logger.Warn("Access token could not be decoded", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid access token"))
			return
		}

		if err := session.CheckExpiry(claims, time.Now()); err != nil {
			logger.Warn("Access token expired")
			response.Error(w, errors.UnauthorizedError("Access token expired"))
			return
		}

		logger = logger.With(slog.String("user_id", session.Subject(claims)))

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, tokenParts[1])
		ctx = context.WithValue(ctx, LoggerKey, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*models.Claims)
	return claims, ok
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}
