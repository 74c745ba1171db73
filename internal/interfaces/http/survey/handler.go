// Package survey serves the survey, voting, engagement and payment routes.
package survey

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
)

// Handler wires survey HTTP endpoints to application services.
type Handler struct {
	logger     zerolog.Logger
	surveys    surveyapp.SurveyService
	votes      surveyapp.VoteService
	engagement surveyapp.EngagementService
	payments   surveyapp.PaymentService
	guard      *guard.Guard
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger     zerolog.Logger
	Surveys    surveyapp.SurveyService
	Votes      surveyapp.VoteService
	Engagement surveyapp.EngagementService
	Payments   surveyapp.PaymentService
	Guard      *guard.Guard
}

// NewHandler constructs a survey HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		surveys:    cfg.Surveys,
		votes:      cfg.Votes,
		engagement: cfg.Engagement,
		payments:   cfg.Payments,
		guard:      cfg.Guard,
	}
}

// Register mounts all survey routes onto the router.
func (h *Handler) Register(r chi.Router) {
	g := h.guard

	// payments
	r.Post("/create-payment-intent", h.paymentIntentHandler())
	r.Post("/payments", h.paymentCreateHandler())
	r.With(g.Admin()...).Get("/payments/{email}", h.paymentListHandler())

	// surveys
	r.Get("/surveys", h.surveyListHandler())
	r.With(g.Role(domain.RoleSurveyor)...).Post("/surveys", h.surveyCreateHandler())
	r.Get("/surveys/user/{userId}", h.surveysByUserIDHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.With(g.Role(domain.RoleSurveyor)...).Put("/surveys/{id}", h.surveyUpdateHandler())
	r.With(g.Role(domain.RoleSurveyor)...).Get("/surveyor/surveys/{email}", h.surveysByOwnerHandler())
	r.Get("/user/{userEmail}/participated-surveys", h.participatedHandler())

	// feedback
	r.With(g.Admin()...).Post("/surveys/feedback/{id}", h.feedbackSubmitHandler())
	r.With(g.Admin()...).Get("/api/surveys/feedbacks", h.feedbackListHandler())

	// votes
	r.With(g.Authenticate).Post("/surveys/{id}/vote", h.voteCastHandler())
	r.Get("/surveys/{id}/results", h.voteResultsHandler())
	r.Get("/surveys/{id}/voteCounts", h.voteCountsHandler())
	r.Get("/surveys/{id}/votes", h.voteListHandler())
	r.Get("/surveys/{id}/responses", h.voteListHandler())
	r.Get("/vote/{id}", h.voteListOrNotFoundHandler())
	r.With(g.Admin()...).Get("/allSurveys/responses", h.allVotesHandler())

	// reports and comments
	r.Post("/report/{id}", h.reportCreateHandler())
	r.Get("/user/reports/{userEmail}", h.reportsByUserHandler())
	r.Post("/comment/{id}", h.commentCreateHandler())
	r.Get("/comments/{id}", h.commentListHandler())
	r.With(g.Role(domain.RoleProUser)...).Get("/user/comments/{userEmail}", h.commentsByUserHandler())
}
