package task

import (
	"context"
	"net/http"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) activityCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.idParam(w, r, "Invalid task ID")
		if !ok {
			return
		}
		var req activityRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.tasks.AddActivity(ctx, taskID, req.Name)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to add activity", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewInsertResponse(result))
	}
}

// activityListHandler returns only the activities recorded for the task in the path.
func (h *Handler) activityListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := h.idParam(w, r, "Invalid task ID")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		activities, err := h.tasks.Activities(ctx, taskID)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list activities", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, activitiesToResponse(activities))
	}
}

func (h *Handler) activityRenameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "Invalid activity ID")
		if !ok {
			return
		}
		var req activityRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.tasks.RenameActivity(ctx, id, req.Name)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to rename activity", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewUpdateResponse(result))
	}
}

func (h *Handler) activityDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "Invalid activity ID")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.tasks.DeleteActivity(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to delete activity", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewDeleteResponse(result))
	}
}
