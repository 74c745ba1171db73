// Package guard holds the authentication and role middleware shared by the
// survey and task routers.
package guard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/auth"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/metrics"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// UserFinder resolves the stored user for a principal.
// It returns apperr.ErrNotFound when the email is unknown.
type UserFinder interface {
	Get(ctx context.Context, email string) (*domain.User, error)
}

// Guard は Bearer トークンの検証とロール判定をまとめたミドルウェア群。
type Guard struct {
	verifier TokenVerifier
	users    UserFinder
	logger   zerolog.Logger
}

// New constructs a Guard.
func New(verifier TokenVerifier, users UserFinder, logger zerolog.Logger) *Guard {
	return &Guard{verifier: verifier, users: users, logger: logger}
}

// Authenticate は Authorization ヘッダーの JWT を検証し、Principal をコンテキストへ詰める。
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			metrics.RecordAuthFailure("missing_token")
			common.WriteMessage(g.logger, w, http.StatusUnauthorized, common.MessageUnauthorized)
			return
		}

		claims, err := g.verifier.Verify(token)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			g.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
			common.WriteMessage(g.logger, w, http.StatusUnauthorized, common.MessageUnauthorized)
			return
		}

		principal := common.Principal{Email: claims.Email, Claims: claims.Values}
		next.ServeHTTP(w, r.WithContext(common.ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRole は保存済みユーザーのロールが role と一致する場合のみ次へ進める。
// Authenticate の後ろに置くこと。
func (g *Guard) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := common.PrincipalFromContext(r.Context())
			if !ok {
				g.logger.Error().Str("path", r.URL.Path).Msg("RequireRole used without Authenticate")
				common.WriteMessage(g.logger, w, http.StatusInternalServerError, "authentication context missing")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
			defer cancel()

			user, err := g.users.Get(ctx, principal.Email)
			if errors.Is(err, apperr.ErrNotFound) {
				metrics.RecordAuthFailure("forbidden")
				common.WriteMessage(g.logger, w, http.StatusForbidden, common.MessageForbidden)
				return
			}
			if err != nil {
				metrics.RecordAuthFailure("lookup_error")
				common.WriteInternalError(g.logger, w, r, "failed to resolve user role", err)
				return
			}
			if !domain.HasRole(user, role) {
				metrics.RecordAuthFailure("forbidden")
				common.WriteMessage(g.logger, w, http.StatusForbidden, common.MessageForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Admin is shorthand for Authenticate followed by RequireRole(admin).
func (g *Guard) Admin() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{g.Authenticate, g.RequireRole(domain.RoleAdmin)}
}

// Role is shorthand for Authenticate followed by RequireRole(role).
func (g *Guard) Role(role domain.Role) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{g.Authenticate, g.RequireRole(role)}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// SelfOnly reports whether the authenticated caller is the owner of email and
// writes 403 otherwise.
func SelfOnly(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, email string) bool {
	principal, ok := common.PrincipalFromContext(r.Context())
	if !ok || principal.Email != email {
		metrics.RecordAuthFailure("forbidden")
		common.WriteMessage(logger, w, http.StatusForbidden, common.MessageForbidden)
		return false
	}
	return true
}
