package survey

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
)

// surveyIDParam は {id} を ObjectID として検証し、不正な場合は 400 を返す。
func (h *Handler) surveyIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	idParam := common.PathParam(r, "id")
	objectID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		common.WriteMessage(h.logger, w, http.StatusBadRequest, "Invalid survey ID")
		return "", false
	}
	return objectID.Hex(), true
}

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		filter := surveyapp.SurveyFilter{
			Category:    query.Get("category"),
			SortByVotes: query.Get("sort") == "votes",
		}
		surveys, err := h.surveys.List(ctx, filter)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Internal Server Error", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveysToResponse(surveys))
	}
}

func (h *Handler) surveysByUserIDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		surveys, err := h.surveys.List(ctx, surveyapp.SurveyFilter{UserID: common.PathParam(r, "userId")})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Internal Server Error", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveysToResponse(surveys))
	}
}

func (h *Handler) surveysByOwnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		surveys, err := h.surveys.List(ctx, surveyapp.SurveyFilter{UserEmail: common.PathParam(r, "email")})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Internal Server Error", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveysToResponse(surveys))
	}
}

func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		survey, err := h.surveys.Get(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, "Survey not found", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyToResponse(*survey))
	}
}

// surveyCreateHandler は status・集計値・timestamp をサーバー側で確定させて保存する。
func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req surveyCreateRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		principal, _ := common.PrincipalFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.surveys.Create(ctx, surveyapp.CreateSurveyCommand{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Options:     req.Options,
			Deadline:    req.Deadline,
			UserEmail:   req.UserEmail,
			UserID:      req.UserID,
			Principal:   principal.Email,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to create survey", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewInsertResponse(result))
	}
}

// surveyUpdateHandler は指定 ID に対して upsert する。存在しない場合は新規作成される。
func (h *Handler) surveyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}
		var req surveyUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		principal, _ := common.PrincipalFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.surveys.Update(ctx, id, surveyapp.UpdateSurveyCommand{
			Patch: surveyapp.SurveyPatch{
				Title:       req.Title,
				Description: req.Description,
				Category:    req.Category,
				Options:     req.Options,
				Deadline:    req.Deadline,
			},
			Principal: principal.Email,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, "An error occurred while updating Survey", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewUpdateResponse(result))
	}
}

// participatedHandler returns 404 when the user never voted.
func (h *Handler) participatedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		surveys, err := h.surveys.Participated(ctx, common.PathParam(r, "userEmail"))
		if err != nil {
			common.WriteError(h.logger, w, r, "No surveys found for this user", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveysToResponse(surveys))
	}
}

// feedbackSubmitHandler は管理者フィードバックを保存し、アンケートを非公開にする。
func (h *Handler) feedbackSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}
		var req feedbackRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		survey, modified, err := h.surveys.SubmitFeedback(ctx, id, req.Feedback)
		if err != nil {
			common.WriteError(h.logger, w, r, "Survey not found", err)
			return
		}
		if !modified {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Failed to update survey")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"message": "Feedback submitted successfully",
			"survey":  surveyToResponse(*survey),
		})
	}
}

func (h *Handler) feedbackListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		views, err := h.surveys.Feedbacks(ctx)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Server error", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, feedbacksToResponse(views))
	}
}

// selfOnly wraps guard.SelfOnly for routes keyed by an email path parameter.
func (h *Handler) selfOnly(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	email := common.PathParam(r, param)
	return email, guard.SelfOnly(h.logger, w, r, email)
}
