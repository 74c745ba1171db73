package domain

import (
	"fmt"
	"time"
)

// Status is the publication state of a survey.
type Status string

const (
	StatusPublish   Status = "publish"
	StatusUnpublish Status = "unpublish"
)

// Survey is a yes/no poll owned by a surveyor.
type Survey struct {
	ID          string
	Title       string
	Description string
	Category    string
	// Options are stored as sent: labels, numeric codes or a mix.
	Options     []any
	Deadline    string
	Status      Status
	VoteCount   int64
	YesCount    int64
	NoCount     int64
	Feedback    string
	UserEmail   string
	UserID      string
	Timestamp   time.Time
}

// Vote option values. Option 0 counts as yes, option 1 as no.
const (
	OptionYes = 0
	OptionNo  = 1
)

// Response is a single answer inside a vote.
type Response struct {
	Question string
	Option   int
}

// Vote is an immutable ballot. At most one exists per survey and user.
type Vote struct {
	ID        string
	SurveyID  string
	UserEmail string
	UserName  string
	Responses []Response
	CreatedAt time.Time
}

// ValidateBallot enforces the single-response yes/no ballot shape.
func ValidateBallot(responses []Response) error {
	if len(responses) != 1 {
		return ErrInvalidBallotFormat
	}
	switch responses[0].Option {
	case OptionYes, OptionNo:
		return nil
	default:
		return ErrInvalidOption
	}
}

// CounterField names the survey counter a ballot increments besides voteCount.
func CounterField(option int) (string, error) {
	switch option {
	case OptionYes:
		return "yesCount", nil
	case OptionNo:
		return "noCount", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
}

// Report flags a survey. At most one exists per survey and user.
type Report struct {
	ID          string
	SurveyID    string
	UserEmail   string
	Title       string
	Category    string
	Description string
	Reason      string
	CreatedAt   time.Time
}

// Comment is an append-only remark on a survey.
type Comment struct {
	ID                 string
	SurveyID           string
	UserEmail          string
	UserName           string
	UserProfilePicture string
	Text               string
	Title              string
	Category           string
	Description        string
	CreatedAt          time.Time
}

// Payment is a ledger entry recorded after a successful checkout.
type Payment struct {
	ID            string
	Email         string
	Name          string
	Price         float64
	TransactionID string
	Date          string
	CreatedAt     time.Time
}

// FeedbackView is the admin projection of surveys carrying feedback.
type FeedbackView struct {
	ID       string
	Title    string
	Feedback string
	Status   Status
}

// OptionCount is one bucket of a per-question tally.
type OptionCount struct {
	Option    int
	VoteCount int64
}

// QuestionTally groups option counts under the question they answer.
type QuestionTally struct {
	Question string
	Options  []OptionCount
}

// OptionTally is one bucket of the flat per-option tally.
type OptionTally struct {
	Option int
	Count  int64
}
