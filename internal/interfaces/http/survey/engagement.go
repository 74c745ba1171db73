package survey

import (
	"context"
	"net/http"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
)

// reportCreateHandler は同一ユーザー・同一アンケートの重複通報を 200 で受け流す。
func (h *Handler) reportCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}
		var req reportRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, created, err := h.engagement.Report(ctx, surveyapp.ReportCommand{
			SurveyID:    id,
			UserEmail:   req.UserEmail,
			Title:       req.Title,
			Category:    req.Category,
			Description: req.Description,
			Reason:      req.Reason,
		})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Error reporting survey", err)
			return
		}
		if !created {
			common.WriteMessage(h.logger, w, http.StatusOK, "You have already Reported")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewInsertResponse(result))
	}
}

func (h *Handler) reportsByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		reports, err := h.engagement.ReportsByUser(ctx, common.PathParam(r, "userEmail"))
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Error fetching reports", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reportsToResponse(reports))
	}
}

func (h *Handler) commentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}
		var req commentRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.engagement.Comment(ctx, surveyapp.CommentCommand{
			SurveyID:           id,
			UserEmail:          req.UserEmail,
			UserName:           req.UserName,
			UserProfilePicture: req.UserProfilePicture,
			Text:               req.Text,
			Title:              req.Title,
			Category:           req.Category,
			Description:        req.Description,
		})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Error adding comment", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewInsertResponse(result))
	}
}

func (h *Handler) commentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		comments, err := h.engagement.CommentsForSurvey(ctx, id)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Error fetching comments", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, commentsToResponse(comments))
	}
}

// commentsByUserHandler は本人のコメントのみ返す。0 件は 404。
func (h *Handler) commentsByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.selfOnly(w, r, "userEmail")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		comments, err := h.engagement.CommentsByUser(ctx, email)
		if err != nil {
			common.WriteError(h.logger, w, r, "No comments found for this user", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, commentsToResponse(comments))
	}
}
