package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/contract-portal/api"
	"github.com/frahmantamala/contract-portal/internal/auth"
	"github.com/frahmantamala/contract-portal/internal/comment"
	"github.com/frahmantamala/contract-portal/internal/contract"
	"github.com/frahmantamala/contract-portal/internal/permission"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/frahmantamala/contract-portal/internal/transport/middleware"
	"github.com/frahmantamala/contract-portal/internal/transport/swagger"
	"github.com/frahmantamala/contract-portal/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Contract   *contract.Handler
	Comment    *comment.Handler
	Permission *permission.Handler
	User       *user.Handler
}

type Options struct {
	AllowedOrigins string
	// Validator checks requests against the OpenAPI document when set.
	Validator *middleware.OpenAPIValidator
	Logger    *slog.Logger
}

func RegisterAllRoutes(router chi.Router, h Handlers, resolver middleware.TokenResolver, opts Options) {
	base := transport.NewBaseHandler(opts.Logger)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(base.Logger))
	router.Use(middleware.RecoveryMiddleware(base.Logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator.Middleware)
		}

		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Everything below requires a caller re-read from the users table.
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(resolver, base))

			if h.Contract != nil {
				pr.Route("/contracts", func(cr chi.Router) {
					cr.Get("/", h.Contract.ListContracts)
					cr.Get("/summary", h.Contract.GetSummary)
					cr.Get("/recent", h.Contract.GetRecent)
					cr.Get("/recent/{limit}", h.Contract.GetRecent)
					cr.Get("/{id}", h.Contract.GetContract)

					if h.Comment != nil {
						cr.Get("/{id}/comments", h.Comment.ListComments)
						cr.Post("/{id}/comments", h.Comment.AddComment)
						cr.Patch("/{id}/comments/{cid}/resolve", h.Comment.ResolveComment)
					}

					cr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin(base))
						ar.Post("/", h.Contract.CreateContract)
						ar.Patch("/{id}", h.Contract.UpdateContract)
					})
				})
			}

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/me", h.User.GetCurrentUser)
					ur.Patch("/me", h.User.UpdateCurrentUser)
					ur.Get("/{id}", h.User.GetUser)

					ur.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin(base))
						ar.Get("/", h.User.ListUsers)
						ar.Post("/", h.User.RegisterUser)
						ar.Put("/{id}/role", h.User.UpdateUserRole)
						ar.Patch("/{id}/role", h.User.UpdateUserRole)
						ar.Post("/{id}/reset-password", h.User.ResetPassword)
						ar.Delete("/{id}", h.User.DeleteUser)
					})
				})
			}

			if h.Permission != nil {
				pr.Route("/permissions", func(pmr chi.Router) {
					pmr.Use(middleware.RequireAdmin(base))
					pmr.Get("/", h.Permission.ListPermissions)
					pmr.Post("/", h.Permission.GrantPermission)
					pmr.Patch("/{id}", h.Permission.UpdatePermission)
					pmr.Delete("/{id}", h.Permission.RevokePermission)
				})
			}
		})
	})
}
