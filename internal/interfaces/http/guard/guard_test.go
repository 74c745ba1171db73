package guard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/auth"
	"github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

type failingUsers struct{}

func (failingUsers) Get(context.Context, string) (*domain.User, error) {
	return nil, errors.New("connection reset")
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("guard-test-secret"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func bearer(t *testing.T, tokens *auth.TokenService, email string) string {
	t.Helper()
	token, err := tokens.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter(g *guard.Guard) http.Handler {
	r := chi.NewRouter()
	r.With(g.Authenticate).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		principal, _ := common.PrincipalFromContext(r.Context())
		common.WriteJSON(zerolog.Nop(), w, http.StatusOK, map[string]string{"email": principal.Email})
	})
	r.With(g.Admin()...).Get("/admin", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.With(g.RequireRole(domain.RoleAdmin)).Get("/misconfigured", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func serve(h http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(t)
	store := memstore.New()
	h := newRouter(guard.New(tokens, application.NewUserService(store.Users), zerolog.Nop()))

	rec := serve(h, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())

	rec = serve(h, "/me", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())

	rec = serve(h, "/me", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, "/me", bearer(t, tokens, "a@x.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@x.com"}`, rec.Body.String())
}

func TestAuthenticateRejectsForeignSecret(t *testing.T) {
	store := memstore.New()
	h := newRouter(guard.New(newTokens(t), application.NewUserService(store.Users), zerolog.Nop()))

	other, err := auth.NewTokenService([]byte("someone-else"), time.Hour)
	require.NoError(t, err)

	rec := serve(h, "/me", bearer(t, other, "a@x.com"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := newTokens(t)
	store := memstore.New()
	store.Users.Seed(
		domain.User{Email: "admin@x.com", Role: domain.RoleAdmin},
		domain.User{Email: "user@x.com", Role: domain.RoleUser},
	)
	h := newRouter(guard.New(tokens, application.NewUserService(store.Users), zerolog.Nop()))

	tests := []struct {
		name  string
		email string
		want  int
	}{
		{"admin passes", "admin@x.com", http.StatusOK},
		{"plain user forbidden", "user@x.com", http.StatusForbidden},
		{"unknown user forbidden", "ghost@x.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, "/admin", bearer(t, tokens, tt.email))
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())
			}
		})
	}

	rec := serve(h, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleStoreFailure(t *testing.T) {
	tokens := newTokens(t)
	h := newRouter(guard.New(tokens, failingUsers{}, zerolog.Nop()))

	rec := serve(h, "/admin", bearer(t, tokens, "admin@x.com"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	store := memstore.New()
	h := newRouter(guard.New(newTokens(t), application.NewUserService(store.Users), zerolog.Nop()))

	rec := serve(h, "/misconfigured", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSelfOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(common.ContextWithPrincipal(req.Context(), common.Principal{Email: "a@x.com"}))

	rec := httptest.NewRecorder()
	assert.True(t, guard.SelfOnly(zerolog.Nop(), rec, req, "a@x.com"))

	rec = httptest.NewRecorder()
	assert.False(t, guard.SelfOnly(zerolog.Nop(), rec, req, "b@x.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
