package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/frahmantamala/contract-portal/pkg/logger"
)

// TokenResolver turns a bearer token into the current caller.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (access.Caller, error)
}

// Authenticate rejects requests without a valid bearer token and stores the caller
// in the request context.
func Authenticate(resolver TokenResolver, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractBearerToken(r)
			if token == "" {
				base.HandleServiceError(w, r, internal.ErrMissingToken)
				return
			}

			caller, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				base.HandleServiceError(w, r, err)
				return
			}

			ctx := access.WithCaller(r.Context(), caller)
			ctx = logger.With(ctx, "user_id", caller.UserID, "role", caller.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
