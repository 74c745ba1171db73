package application

import (
	"context"
	"time"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// SurveyRepository is the persistence port for surveys.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter) ([]domain.Survey, error)
	// FindByID returns apperr.ErrInvalidID for malformed ids and apperr.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Survey, error)
	FindFeedback(ctx context.Context) ([]domain.FeedbackView, error)
	Insert(ctx context.Context, survey *domain.Survey) (store.InsertResult, error)
	// UpdateByID applies patch. With upsert a missing survey is created under the requested id
	// and seeded from defaults.
	UpdateByID(ctx context.Context, id string, patch SurveyPatch, defaults *domain.Survey, upsert bool) (store.UpdateResult, error)
	// SetFeedback unpublishes the survey and stores the admin feedback.
	SetFeedback(ctx context.Context, id, feedback string) (store.UpdateResult, error)
}

// VoteRepository is the persistence port for votes and their tallies.
type VoteRepository interface {
	Find(ctx context.Context, filter VoteFilter) ([]domain.Vote, error)
	Exists(ctx context.Context, surveyID, userEmail string) (bool, error)
	// Cast stores the vote and increments voteCount plus counterField on the survey.
	// It returns apperr.ErrAlreadyExists when the user already voted.
	Cast(ctx context.Context, vote *domain.Vote, counterField string) (store.InsertResult, error)
	TallyByQuestion(ctx context.Context, surveyID string) ([]domain.QuestionTally, error)
	TallyByOption(ctx context.Context, surveyID string) ([]domain.OptionTally, error)
}

// ReportRepository is the persistence port for survey reports.
type ReportRepository interface {
	Exists(ctx context.Context, surveyID, userEmail string) (bool, error)
	// Insert returns apperr.ErrAlreadyExists when the user already reported the survey.
	Insert(ctx context.Context, report *domain.Report) (store.InsertResult, error)
	FindByUser(ctx context.Context, userEmail string) ([]domain.Report, error)
}

// CommentRepository is the persistence port for comments.
type CommentRepository interface {
	Insert(ctx context.Context, comment *domain.Comment) (store.InsertResult, error)
	FindBySurvey(ctx context.Context, surveyID string) ([]domain.Comment, error)
	FindByUser(ctx context.Context, userEmail string) ([]domain.Comment, error)
}

// PaymentRepository is the persistence port for the payment ledger.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *domain.Payment) (store.InsertResult, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Payment, error)
}

// PaymentGateway creates payment intents with the card processor.
type PaymentGateway interface {
	// CreateIntent returns the client secret for an intent of amount minor currency units.
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

// SurveyFilter narrows survey listings. Zero values are ignored.
// Malformed entries in IDs never match.
type SurveyFilter struct {
	Category    string
	UserEmail   string
	UserID      string
	IDs         []string
	SortByVotes bool
}

// VoteFilter narrows vote listings. Zero values are ignored.
type VoteFilter struct {
	SurveyID  string
	UserEmail string
}

// SurveyPatch holds the editable survey fields. Nil fields are left untouched.
type SurveyPatch struct {
	Title       *string
	Description *string
	Category    *string
	Options     []any
	Deadline    *string
}

// SurveyService describes survey lifecycle use-cases.
type SurveyService interface {
	List(ctx context.Context, filter SurveyFilter) ([]domain.Survey, error)
	Get(ctx context.Context, id string) (*domain.Survey, error)
	Create(ctx context.Context, cmd CreateSurveyCommand) (store.InsertResult, error)
	Update(ctx context.Context, id string, cmd UpdateSurveyCommand) (store.UpdateResult, error)
	// SubmitFeedback returns modified=false when the store reported no change.
	SubmitFeedback(ctx context.Context, id, feedback string) (survey *domain.Survey, modified bool, err error)
	Feedbacks(ctx context.Context) ([]domain.FeedbackView, error)
	// Participated lists the surveys a user voted in.
	Participated(ctx context.Context, userEmail string) ([]domain.Survey, error)
}

// VoteService describes ballot casting and tallying.
type VoteService interface {
	Cast(ctx context.Context, cmd CastVoteCommand) (CastResult, error)
	Votes(ctx context.Context, filter VoteFilter) ([]domain.Vote, error)
	Results(ctx context.Context, surveyID string) ([]domain.QuestionTally, error)
	Counts(ctx context.Context, surveyID string) ([]domain.OptionTally, error)
}

// EngagementService describes reports and comments.
type EngagementService interface {
	Report(ctx context.Context, cmd ReportCommand) (result store.InsertResult, created bool, err error)
	ReportsByUser(ctx context.Context, userEmail string) ([]domain.Report, error)
	Comment(ctx context.Context, cmd CommentCommand) (store.InsertResult, error)
	CommentsForSurvey(ctx context.Context, surveyID string) ([]domain.Comment, error)
	CommentsByUser(ctx context.Context, userEmail string) ([]domain.Comment, error)
}

// PaymentService describes checkout use-cases.
type PaymentService interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
	Record(ctx context.Context, cmd RecordPaymentCommand) (store.InsertResult, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Payment, error)
}

// CreateSurveyCommand carries client supplied survey fields.
type CreateSurveyCommand struct {
	Title       string
	Description string
	Category    string
	Options     []any
	Deadline    string
	UserEmail   string
	UserID      string
	// Principal is the authenticated creator, used when UserEmail is empty.
	Principal string
}

// UpdateSurveyCommand carries the editable fields of PUT /surveys/{id}.
type UpdateSurveyCommand struct {
	Patch     SurveyPatch
	Principal string
}

// CastVoteCommand is a ballot for one survey.
type CastVoteCommand struct {
	SurveyID  string
	UserEmail string
	UserName  string
	Responses []domain.Response
}

// CastResult reports the outcome of a ballot.
type CastResult struct {
	AlreadyVoted bool
	Inserted     store.InsertResult
}

// ReportCommand flags a survey.
type ReportCommand struct {
	SurveyID    string
	UserEmail   string
	Title       string
	Category    string
	Description string
	Reason      string
}

// CommentCommand posts a comment on a survey.
type CommentCommand struct {
	SurveyID           string
	UserEmail          string
	UserName           string
	UserProfilePicture string
	Text               string
	Title              string
	Category           string
	Description        string
}

// RecordPaymentCommand appends a payment to the ledger.
type RecordPaymentCommand struct {
	Email         string
	Name          string
	Price         float64
	TransactionID string
	Date          string
}

type clock func() time.Time
