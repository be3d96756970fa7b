package middleware

import (
	"net/http"

	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/frahmantamala/contract-portal/pkg/logger"
)

// RequireRoles lets the request through only when the caller holds one of roles.
func RequireRoles(base *transport.BaseHandler, roles ...access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := access.CallerFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, r, internal.ErrMissingToken)
				return
			}

			if !caller.HasRole(roles...) {
				logger.From(r.Context()).Warn("access denied: insufficient role",
					"user_id", caller.UserID,
					"role", caller.Role,
					"required_roles", roles)
				if len(roles) == 1 && roles[0] == access.RoleAdmin {
					base.HandleServiceError(w, r, internal.ErrAdminRequired)
				} else {
					base.HandleServiceError(w, r, internal.ErrInsufficientRole)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return RequireRoles(base, access.RoleAdmin)
}
