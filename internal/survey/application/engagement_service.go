package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type engagementService struct {
	reports  ReportRepository
	comments CommentRepository
	now      clock
}

// NewEngagementService wires report and comment use-cases.
func NewEngagementService(reports ReportRepository, comments CommentRepository) EngagementService {
	return &engagementService{reports: reports, comments: comments, now: time.Now}
}

// Report returns created=false when the user already reported the survey.
func (s *engagementService) Report(ctx context.Context, cmd ReportCommand) (store.InsertResult, bool, error) {
	surveyID := strings.TrimSpace(cmd.SurveyID)
	userEmail := strings.TrimSpace(cmd.UserEmail)

	exists, err := s.reports.Exists(ctx, surveyID, userEmail)
	if err != nil {
		return store.InsertResult{}, false, err
	}
	if exists {
		return store.InsertResult{}, false, nil
	}

	report := &domain.Report{
		SurveyID:    surveyID,
		UserEmail:   userEmail,
		Title:       cmd.Title,
		Category:    cmd.Category,
		Description: cmd.Description,
		Reason:      cmd.Reason,
		CreatedAt:   s.now().UTC(),
	}
	result, err := s.reports.Insert(ctx, report)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		return store.InsertResult{}, false, nil
	}
	if err != nil {
		return store.InsertResult{}, false, err
	}
	return result, true, nil
}

func (s *engagementService) ReportsByUser(ctx context.Context, userEmail string) ([]domain.Report, error) {
	return s.reports.FindByUser(ctx, strings.TrimSpace(userEmail))
}

func (s *engagementService) Comment(ctx context.Context, cmd CommentCommand) (store.InsertResult, error) {
	comment := &domain.Comment{
		SurveyID:           strings.TrimSpace(cmd.SurveyID),
		UserEmail:          strings.TrimSpace(cmd.UserEmail),
		UserName:           cmd.UserName,
		UserProfilePicture: cmd.UserProfilePicture,
		Text:               cmd.Text,
		Title:              cmd.Title,
		Category:           cmd.Category,
		Description:        cmd.Description,
		CreatedAt:          s.now().UTC(),
	}
	return s.comments.Insert(ctx, comment)
}

func (s *engagementService) CommentsForSurvey(ctx context.Context, surveyID string) ([]domain.Comment, error) {
	return s.comments.FindBySurvey(ctx, strings.TrimSpace(surveyID))
}

// CommentsByUser returns apperr.ErrNotFound when the user has no comments.
func (s *engagementService) CommentsByUser(ctx context.Context, userEmail string) ([]domain.Comment, error) {
	comments, err := s.comments.FindByUser(ctx, strings.TrimSpace(userEmail))
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, apperr.ErrNotFound
	}
	return comments, nil
}
