package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "lakbaycli/internal/errors"
)

type bearerTokenKey struct{}

// TokenFromContext returns the bearer token stored by BearerToken
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

// BearerToken extracts the admin's bearer token so it can be forwarded to
// the Lakbay API. When required is false a missing header passes through
// and the API client's configured token is used instead. The token is
// never validated here; the Lakbay API does that.
func BearerToken(required bool, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")

			if header == "" {
				if required {
					logger.WarnContext(ctx, "missing authorization header",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path))
					errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				logger.WarnContext(ctx, "invalid authorization format",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, bearerTokenKey{}, token)))
		})
	}
}
