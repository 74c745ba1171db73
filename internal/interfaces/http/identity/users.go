package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/auth"
	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	"github.com/sngm3741/survey-services/api/internal/store"
)

// issueTokenHandler は受け取ったクレームをそのまま署名し、1 時間有効なトークンを返す。
func (h *Handler) issueTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var claims map[string]any
		if err := common.DecodeJSON(r, &claims); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		token, err := h.tokens.Issue(claims)
		if errors.Is(err, auth.ErrMissingEmail) {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to issue token", err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"token": token})
	}
}

func (h *Handler) userListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		users, err := h.users.List(ctx)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list users", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, usersToResponse(users))
	}
}

// userIsAdminHandler は本人のメールアドレスに限り admin 判定を返す。
func (h *Handler) userIsAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := common.PathParam(r, "email")
		if !guard.SelfOnly(h.logger, w, r, email) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		admin, err := h.users.IsAdmin(ctx, email)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to resolve admin status", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]bool{"admin": admin})
	}
}

// userRoleHandler returns {"role": false} for unknown users.
func (h *Handler) userRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		role, ok, err := h.users.RoleOf(ctx, common.PathParam(r, "email"))
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to resolve role", err)
			return
		}
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"role": false})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"role": role.String()})
	}
}

func (h *Handler) userDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		user, err := h.users.Get(ctx, common.PathParam(r, "email"))
		if err != nil {
			common.WriteError(h.logger, w, r, "User not found", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, userToResponse(*user))
	}
}

// userCreateHandler はメールアドレス単位で冪等にユーザーを登録する。既存の場合は何もしない。
func (h *Handler) userCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userCreateRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, created, err := h.users.Register(ctx, identityapp.RegisterUserCommand{
			Email:    req.Email,
			Name:     req.Name,
			PhotoURL: req.PhotoURL,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to register user", err)
			return
		}
		if !created {
			common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
				"message":    "user already exists",
				"insertedId": nil,
			})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewInsertResponse(result))
	}
}

func (h *Handler) roleByIDHandler() http.HandlerFunc {
	return h.roleUpdateHandler("id", h.users.SetRoleByID)
}

func (h *Handler) roleByEmailHandler() http.HandlerFunc {
	return h.roleUpdateHandler("email", h.users.SetRoleByEmail)
}

type roleSetter func(ctx context.Context, key string, role domain.Role) (store.UpdateResult, error)

func (h *Handler) roleUpdateHandler(param string, set roleSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleUpdateRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := set(ctx, common.PathParam(r, param), role)
		if err != nil {
			if errors.Is(err, apperr.ErrInvalidID) {
				common.WriteMessage(h.logger, w, http.StatusBadRequest, "Invalid user ID")
				return
			}
			common.WriteInternalError(h.logger, w, r, "failed to update role", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewUpdateResponse(result))
	}
}

func (h *Handler) userDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.users.Delete(ctx, common.PathParam(r, "id"))
		if err != nil {
			if errors.Is(err, apperr.ErrInvalidID) {
				common.WriteMessage(h.logger, w, http.StatusBadRequest, "Invalid user ID")
				return
			}
			common.WriteInternalError(h.logger, w, r, "failed to delete user", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewDeleteResponse(result))
	}
}
