package survey

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/metrics"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// surveyKey normalizes {id} the way votes are stored. The read-only vote routes
// never reject a malformed id, so it is passed through unchanged.
func surveyKey(r *http.Request) string {
	raw := common.PathParam(r, "id")
	if objectID, err := primitive.ObjectIDFromHex(raw); err == nil {
		return objectID.Hex()
	}
	return raw
}

// voteCastHandler は 1 ユーザー 1 票で投票を受け付け、集計カウンタを加算する。
// userEmail を省略した場合はトークンのメールアドレスで投票する。
func (h *Handler) voteCastHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.surveyIDParam(w, r)
		if !ok {
			return
		}
		var req voteRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			metrics.RecordVote("rejected")
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
			return
		}

		principal, _ := common.PrincipalFromContext(r.Context())
		voter := strings.TrimSpace(req.UserEmail)
		if voter == "" {
			voter = principal.Email
		}
		if voter != principal.Email {
			common.WriteMessage(h.logger, w, http.StatusForbidden, common.MessageForbidden)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.votes.Cast(ctx, surveyapp.CastVoteCommand{
			SurveyID:  id,
			UserEmail: voter,
			UserName:  req.UserName,
			Responses: toDomainResponses(req.Responses),
		})
		switch {
		case errors.Is(err, domain.ErrInvalidBallotFormat):
			metrics.RecordVote("rejected")
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
			return
		case errors.Is(err, domain.ErrInvalidOption):
			metrics.RecordVote("rejected")
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "Invalid option value"})
			return
		case errors.Is(err, apperr.ErrNotFound):
			common.WriteMessage(h.logger, w, http.StatusNotFound, "Survey not found")
			return
		case err != nil:
			common.WriteError(h.logger, w, r, "Error submitting vote", err)
			return
		}

		if result.AlreadyVoted {
			metrics.RecordVote("duplicate")
			common.WriteMessage(h.logger, w, http.StatusOK, "You have already Voted")
			return
		}
		metrics.RecordVote("accepted")
		common.WriteMessage(h.logger, w, http.StatusCreated, "Vote submitted successfully")
	}
}

func (h *Handler) voteResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		tallies, err := h.votes.Results(ctx, surveyKey(r))
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to tally votes", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionTalliesToResponse(tallies))
	}
}

func (h *Handler) voteCountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		tallies, err := h.votes.Counts(ctx, surveyKey(r))
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Internal Server Error", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, optionTalliesToResponse(tallies))
	}
}

// voteListHandler serves both /votes and /responses: a survey's responses are its ballots.
func (h *Handler) voteListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		votes, err := h.votes.Votes(ctx, surveyapp.VoteFilter{SurveyID: surveyKey(r)})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list votes", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, votesToResponse(votes))
	}
}

// voteListOrNotFoundHandler is voteListHandler with 404 for a survey without votes.
func (h *Handler) voteListOrNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		votes, err := h.votes.Votes(ctx, surveyapp.VoteFilter{SurveyID: surveyKey(r)})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list votes", err)
			return
		}
		if len(votes) == 0 {
			common.WriteMessage(h.logger, w, http.StatusNotFound, "No votes found for this survey")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, votesToResponse(votes))
	}
}

func (h *Handler) allVotesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		votes, err := h.votes.Votes(ctx, surveyapp.VoteFilter{})
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "Error fetching votes", err)
			return
		}
		if len(votes) == 0 {
			common.WriteMessage(h.logger, w, http.StatusNotFound, "No votes found")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, votesToResponse(votes))
	}
}
