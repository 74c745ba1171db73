package task

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
)

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, message string) (string, bool) {
	idParam := common.PathParam(r, "id")
	objectID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		common.WriteMessage(h.logger, w, http.StatusBadRequest, message)
		return "", false
	}
	return objectID.Hex(), true
}

// taskListHandler は ?email と ?status で絞り込み、新しい順に返す。
func (h *Handler) taskListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		tasks, err := h.tasks.List(ctx, taskapp.TaskFilter{
			UserEmail: query.Get("email"),
			Status:    query.Get("status"),
		})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list tasks", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, tasksToResponse(tasks))
	}
}

func (h *Handler) taskDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "Invalid task ID")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		task, err := h.tasks.Get(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, "Task not found", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, taskToResponse(*task))
	}
}

func (h *Handler) taskCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskCreateRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		principal, _ := common.PrincipalFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.tasks.Create(ctx, taskapp.CreateTaskCommand{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Status:      req.Status,
			DueDate:     req.DueDate,
			UserEmail:   req.UserEmail,
			Principal:   principal.Email,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to create task", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewInsertResponse(result))
	}
}

// taskUpdateHandler は所有者のみ更新でき、存在しない ID は新規作成される。
func (h *Handler) taskUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "Invalid task ID")
		if !ok {
			return
		}
		var req taskUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		principal, _ := common.PrincipalFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		patch := taskapp.TaskPatch{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Status:      req.Status,
			DueDate:     req.DueDate,
		}
		result, err := h.tasks.Update(ctx, id, patch, principal.Email)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to update task", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewUpdateResponse(result))
	}
}

// taskDeleteHandler is idempotent: a missing task yields deletedCount 0.
func (h *Handler) taskDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "Invalid task ID")
		if !ok {
			return
		}
		principal, _ := common.PrincipalFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.tasks.Delete(ctx, id, principal.Email)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to delete task", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewDeleteResponse(result))
	}
}
