package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type surveyService struct {
	surveys SurveyRepository
	votes   VoteRepository
	now     clock
}

// NewSurveyService wires survey use-cases to their repositories.
func NewSurveyService(surveys SurveyRepository, votes VoteRepository) SurveyService {
	return &surveyService{surveys: surveys, votes: votes, now: time.Now}
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter) ([]domain.Survey, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.UserEmail = strings.TrimSpace(filter.UserEmail)
	filter.UserID = strings.TrimSpace(filter.UserID)
	return s.surveys.Find(ctx, filter)
}

func (s *surveyService) Get(ctx context.Context, id string) (*domain.Survey, error) {
	return s.surveys.FindByID(ctx, strings.TrimSpace(id))
}

// Create ignores client values for status, counters and timestamp.
func (s *surveyService) Create(ctx context.Context, cmd CreateSurveyCommand) (store.InsertResult, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return store.InsertResult{}, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}
	owner := strings.TrimSpace(cmd.UserEmail)
	if owner == "" {
		owner = strings.TrimSpace(cmd.Principal)
	}

	survey := &domain.Survey{
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Category:    strings.TrimSpace(cmd.Category),
		Options:     cleanOptions(cmd.Options),
		Deadline:    strings.TrimSpace(cmd.Deadline),
		Status:      domain.StatusPublish,
		UserEmail:   owner,
		UserID:      strings.TrimSpace(cmd.UserID),
		Timestamp:   s.now().UTC(),
	}
	return s.surveys.Insert(ctx, survey)
}

// Update upserts: an unknown id creates a published survey owned by the principal.
func (s *surveyService) Update(ctx context.Context, id string, cmd UpdateSurveyCommand) (store.UpdateResult, error) {
	patch := cmd.Patch
	if patch.Options != nil {
		patch.Options = cleanOptions(patch.Options)
	}
	defaults := &domain.Survey{
		Status:    domain.StatusPublish,
		UserEmail: strings.TrimSpace(cmd.Principal),
		Timestamp: s.now().UTC(),
	}
	return s.surveys.UpdateByID(ctx, strings.TrimSpace(id), patch, defaults, true)
}

func (s *surveyService) SubmitFeedback(ctx context.Context, id, feedback string) (*domain.Survey, bool, error) {
	id = strings.TrimSpace(id)
	if _, err := s.surveys.FindByID(ctx, id); err != nil {
		return nil, false, err
	}

	result, err := s.surveys.SetFeedback(ctx, id, strings.TrimSpace(feedback))
	if err != nil {
		return nil, false, err
	}
	if result.ModifiedCount != 1 {
		return nil, false, nil
	}

	updated, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

func (s *surveyService) Feedbacks(ctx context.Context) ([]domain.FeedbackView, error) {
	return s.surveys.FindFeedback(ctx)
}

// Participated returns apperr.ErrNotFound when the user never voted.
func (s *surveyService) Participated(ctx context.Context, userEmail string) ([]domain.Survey, error) {
	votes, err := s.votes.Find(ctx, VoteFilter{UserEmail: strings.TrimSpace(userEmail)})
	if err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, apperr.ErrNotFound
	}

	seen := make(map[string]struct{}, len(votes))
	ids := make([]string, 0, len(votes))
	for _, vote := range votes {
		if _, ok := seen[vote.SurveyID]; ok {
			continue
		}
		seen[vote.SurveyID] = struct{}{}
		ids = append(ids, vote.SurveyID)
	}

	return s.surveys.Find(ctx, SurveyFilter{IDs: ids})
}

// cleanOptions drops nulls and blank labels. Numeric codes and other values are kept as sent.
func cleanOptions(options []any) []any {
	cleaned := make([]any, 0, len(options))
	for _, option := range options {
		switch v := option.(type) {
		case nil:
			continue
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			cleaned = append(cleaned, v)
		default:
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}
