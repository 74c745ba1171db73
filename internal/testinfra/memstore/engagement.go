package memstore

import (
	"context"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// ReportRepository keeps one report per survey and user.
type ReportRepository struct {
	s *Store
}

func (r *ReportRepository) Exists(_ context.Context, surveyID, userEmail string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, report := range r.s.reports {
		if report.SurveyID == surveyID && report.UserEmail == userEmail {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReportRepository) Insert(ctx context.Context, report *domain.Report) (store.InsertResult, error) {
	if exists, _ := r.Exists(ctx, report.SurveyID, report.UserEmail); exists {
		return store.InsertResult{}, apperr.ErrAlreadyExists
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *report
	stored.ID = newID()
	r.s.reports = append(r.s.reports, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *ReportRepository) FindByUser(_ context.Context, userEmail string) ([]domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Report, 0)
	for _, report := range r.s.reports {
		if report.UserEmail == userEmail {
			out = append(out, report)
		}
	}
	return out, nil
}

// CommentRepository is append-only.
type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Insert(_ context.Context, comment *domain.Comment) (store.InsertResult, error) {
	if err := checkID(comment.SurveyID); err != nil {
		return store.InsertResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *comment
	stored.ID = newID()
	r.s.comments = append(r.s.comments, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *CommentRepository) FindBySurvey(_ context.Context, surveyID string) ([]domain.Comment, error) {
	if err := checkID(surveyID); err != nil {
		return nil, err
	}
	return r.filter(func(c domain.Comment) bool { return c.SurveyID == surveyID }), nil
}

func (r *CommentRepository) FindByUser(_ context.Context, userEmail string) ([]domain.Comment, error) {
	return r.filter(func(c domain.Comment) bool { return c.UserEmail == userEmail }), nil
}

func (r *CommentRepository) filter(match func(domain.Comment) bool) []domain.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Comment, 0)
	for _, comment := range r.s.comments {
		if match(comment) {
			out = append(out, comment)
		}
	}
	return out
}

// PaymentRepository is an append-only ledger.
type PaymentRepository struct {
	s *Store
}

func (r *PaymentRepository) Insert(_ context.Context, payment *domain.Payment) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *payment
	stored.ID = newID()
	r.s.payments = append(r.s.payments, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *PaymentRepository) FindByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Payment, 0)
	for _, payment := range r.s.payments {
		if payment.Email == email {
			out = append(out, payment)
		}
	}
	return out, nil
}
