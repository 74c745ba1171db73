// Package identity serves the token and user routes mounted by both services.
package identity

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
)

// TokenIssuer signs session tokens for a claims payload.
type TokenIssuer interface {
	Issue(claims map[string]any) (string, error)
}

// Handler wires identity HTTP endpoints to application services.
type Handler struct {
	logger zerolog.Logger
	users  identityapp.UserService
	tokens TokenIssuer
	guard  *guard.Guard
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger zerolog.Logger
	Users  identityapp.UserService
	Tokens TokenIssuer
	Guard  *guard.Guard
}

// NewHandler constructs an identity HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger: cfg.Logger,
		users:  cfg.Users,
		tokens: cfg.Tokens,
		guard:  cfg.Guard,
	}
}

// Register mounts the token and user routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/jwt", h.issueTokenHandler())

	r.Get("/users/role/{email}", h.userRoleHandler())
	r.Get("/users/{email}", h.userDetailHandler())
	r.Post("/users", h.userCreateHandler())

	r.With(h.guard.Authenticate).Get("/users/admin/{email}", h.userIsAdminHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Admin()...)
		r.Get("/users", h.userListHandler())
		r.Patch("/users/role/{id}", h.roleByIDHandler())
		r.Patch("/user/role/{email}", h.roleByEmailHandler())
		r.Delete("/users/{id}", h.userDeleteHandler())
	})
}
