package survey

import (
	"time"

	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type surveyResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Options     []any     `json:"options"`
	Deadline    string    `json:"deadline,omitempty"`
	Status      string    `json:"status"`
	VoteCount   int64     `json:"voteCount"`
	YesCount    int64     `json:"yesCount"`
	NoCount     int64     `json:"noCount"`
	Feedback    string    `json:"feedback,omitempty"`
	UserEmail   string    `json:"userEmail,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type surveyCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Options     []any    `json:"options"`
	Deadline    string   `json:"deadline"`
	UserEmail   string   `json:"userEmail" validate:"omitempty,email"`
	UserID      string   `json:"userId"`
}

type surveyUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Options     []any    `json:"options"`
	Deadline    *string  `json:"deadline"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

type feedbackResponse struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Feedback string `json:"feedback"`
	Status   string `json:"status"`
}

type ballotResponse struct {
	Question string `json:"question"`
	Option   *int   `json:"option"`
}

type voteRequest struct {
	UserEmail string           `json:"userEmail"`
	UserName  string           `json:"userName"`
	Responses []ballotResponse `json:"responses"`
}

type voteResponse struct {
	ID        string              `json:"_id"`
	SurveyID  string              `json:"surveyId"`
	UserEmail string              `json:"userEmail"`
	UserName  string              `json:"userName,omitempty"`
	Responses []voteEntryResponse `json:"responses"`
	CreatedAt time.Time           `json:"createdAt"`
}

type voteEntryResponse struct {
	Question string `json:"question"`
	Option   int    `json:"option"`
}

type optionCountResponse struct {
	Option    int   `json:"option"`
	VoteCount int64 `json:"voteCount"`
}

type questionTallyResponse struct {
	Question string                `json:"question"`
	Options  []optionCountResponse `json:"options"`
}

type optionTallyResponse struct {
	Option int   `json:"option"`
	Count  int64 `json:"count"`
}

type reportRequest struct {
	UserEmail   string `json:"userEmail"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type reportResponse struct {
	ID          string    `json:"_id"`
	SurveyID    string    `json:"surveyId"`
	UserEmail   string    `json:"userEmail"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

type commentRequest struct {
	UserEmail          string `json:"userEmail"`
	UserName           string `json:"userName"`
	UserProfilePicture string `json:"userProfilePicture"`
	Text               string `json:"text"`
	Title              string `json:"title"`
	Category           string `json:"category"`
	Description        string `json:"description"`
}

type commentResponse struct {
	ID                 string    `json:"_id"`
	SurveyID           string    `json:"surveyId"`
	UserEmail          string    `json:"userEmail"`
	UserName           string    `json:"userName"`
	UserProfilePicture string    `json:"userProfilePicture"`
	Text               string    `json:"text"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	Description        string    `json:"description"`
	CreatedAt          time.Time `json:"createdAt"`
}

type paymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

type paymentRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TransactionID string  `json:"transactionId"`
	Date          string  `json:"date"`
}

type paymentResponse struct {
	ID            string    `json:"_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

func surveyToResponse(s domain.Survey) surveyResponse {
	options := s.Options
	if options == nil {
		options = []any{}
	}
	return surveyResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Options:     options,
		Deadline:    s.Deadline,
		Status:      string(s.Status),
		VoteCount:   s.VoteCount,
		YesCount:    s.YesCount,
		NoCount:     s.NoCount,
		Feedback:    s.Feedback,
		UserEmail:   s.UserEmail,
		UserID:      s.UserID,
		Timestamp:   s.Timestamp,
	}
}

func surveysToResponse(surveys []domain.Survey) []surveyResponse {
	items := make([]surveyResponse, 0, len(surveys))
	for _, s := range surveys {
		items = append(items, surveyToResponse(s))
	}
	return items
}

func feedbacksToResponse(views []domain.FeedbackView) []feedbackResponse {
	items := make([]feedbackResponse, 0, len(views))
	for _, v := range views {
		items = append(items, feedbackResponse{ID: v.ID, Title: v.Title, Feedback: v.Feedback, Status: string(v.Status)})
	}
	return items
}

// toDomainResponses keeps a missing option as -1 so the ballot check rejects it.
func toDomainResponses(responses []ballotResponse) []domain.Response {
	if responses == nil {
		return nil
	}
	out := make([]domain.Response, 0, len(responses))
	for _, r := range responses {
		option := -1
		if r.Option != nil {
			option = *r.Option
		}
		out = append(out, domain.Response{Question: r.Question, Option: option})
	}
	return out
}

func votesToResponse(votes []domain.Vote) []voteResponse {
	items := make([]voteResponse, 0, len(votes))
	for _, v := range votes {
		entries := make([]voteEntryResponse, 0, len(v.Responses))
		for _, r := range v.Responses {
			entries = append(entries, voteEntryResponse{Question: r.Question, Option: r.Option})
		}
		items = append(items, voteResponse{
			ID:        v.ID,
			SurveyID:  v.SurveyID,
			UserEmail: v.UserEmail,
			UserName:  v.UserName,
			Responses: entries,
			CreatedAt: v.CreatedAt,
		})
	}
	return items
}

func questionTalliesToResponse(tallies []domain.QuestionTally) []questionTallyResponse {
	items := make([]questionTallyResponse, 0, len(tallies))
	for _, t := range tallies {
		options := make([]optionCountResponse, 0, len(t.Options))
		for _, o := range t.Options {
			options = append(options, optionCountResponse{Option: o.Option, VoteCount: o.VoteCount})
		}
		items = append(items, questionTallyResponse{Question: t.Question, Options: options})
	}
	return items
}

func optionTalliesToResponse(tallies []domain.OptionTally) []optionTallyResponse {
	items := make([]optionTallyResponse, 0, len(tallies))
	for _, t := range tallies {
		items = append(items, optionTallyResponse{Option: t.Option, Count: t.Count})
	}
	return items
}

func reportsToResponse(reports []domain.Report) []reportResponse {
	items := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, reportResponse{
			ID:          r.ID,
			SurveyID:    r.SurveyID,
			UserEmail:   r.UserEmail,
			Title:       r.Title,
			Category:    r.Category,
			Description: r.Description,
			Reason:      r.Reason,
			CreatedAt:   r.CreatedAt,
		})
	}
	return items
}

func commentsToResponse(comments []domain.Comment) []commentResponse {
	items := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, commentResponse{
			ID:                 c.ID,
			SurveyID:           c.SurveyID,
			UserEmail:          c.UserEmail,
			UserName:           c.UserName,
			UserProfilePicture: c.UserProfilePicture,
			Text:               c.Text,
			Title:              c.Title,
			Category:           c.Category,
			Description:        c.Description,
			CreatedAt:          c.CreatedAt,
		})
	}
	return items
}

func paymentsToResponse(payments []domain.Payment) []paymentResponse {
	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentResponse{
			ID:            p.ID,
			Email:         p.Email,
			Name:          p.Name,
			Price:         p.Price,
			TransactionID: p.TransactionID,
			Date:          p.Date,
			CreatedAt:     p.CreatedAt,
		})
	}
	return items
}
