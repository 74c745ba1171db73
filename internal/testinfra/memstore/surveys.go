package memstore

import (
	"context"
	"reflect"
	"sort"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// SurveyRepository implements application.SurveyRepository.
type SurveyRepository struct {
	s *Store
}

func (r *SurveyRepository) Find(_ context.Context, filter application.SurveyFilter) ([]domain.Survey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids map[string]struct{}
	if filter.IDs != nil {
		ids = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = struct{}{}
		}
	}

	out := make([]domain.Survey, 0)
	for _, survey := range r.s.surveys {
		if filter.Category != "" && survey.Category != filter.Category {
			continue
		}
		if filter.UserEmail != "" && survey.UserEmail != filter.UserEmail {
			continue
		}
		if filter.UserID != "" && survey.UserID != filter.UserID {
			continue
		}
		if ids != nil {
			if _, ok := ids[survey.ID]; !ok {
				continue
			}
		}
		out = append(out, cloneSurvey(survey))
	}
	if filter.SortByVotes {
		sort.SliceStable(out, func(i, j int) bool { return out[i].VoteCount > out[j].VoteCount })
	}
	return out, nil
}

func (r *SurveyRepository) FindByID(_ context.Context, id string) (*domain.Survey, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		survey := cloneSurvey(r.s.surveys[i])
		return &survey, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *SurveyRepository) FindFeedback(_ context.Context) ([]domain.FeedbackView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.FeedbackView, 0)
	for _, survey := range r.s.surveys {
		if survey.Feedback == "" {
			continue
		}
		out = append(out, domain.FeedbackView{
			ID:       survey.ID,
			Title:    survey.Title,
			Feedback: survey.Feedback,
			Status:   survey.Status,
		})
	}
	return out, nil
}

func (r *SurveyRepository) Insert(_ context.Context, survey *domain.Survey) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := cloneSurvey(*survey)
	stored.ID = newID()
	r.s.surveys = append(r.s.surveys, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *SurveyRepository) UpdateByID(_ context.Context, id string, patch application.SurveyPatch, defaults *domain.Survey, upsert bool) (store.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return store.UpdateResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		if !upsert {
			return store.UpdateResult{}, nil
		}
		created := domain.Survey{ID: id}
		if defaults != nil {
			created = cloneSurvey(*defaults)
			created.ID = id
		}
		applySurveyPatch(&created, patch)
		r.s.surveys = append(r.s.surveys, created)
		return store.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}

	before := cloneSurvey(r.s.surveys[i])
	applySurveyPatch(&r.s.surveys[i], patch)
	result := store.UpdateResult{MatchedCount: 1}
	if !surveysEqual(before, r.s.surveys[i]) {
		result.ModifiedCount = 1
	}
	return result, nil
}

func (r *SurveyRepository) SetFeedback(_ context.Context, id, feedback string) (store.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return store.UpdateResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return store.UpdateResult{}, nil
	}
	result := store.UpdateResult{MatchedCount: 1}
	survey := &r.s.surveys[i]
	if survey.Status != domain.StatusUnpublish || survey.Feedback != feedback {
		survey.Status = domain.StatusUnpublish
		survey.Feedback = feedback
		result.ModifiedCount = 1
	}
	return result, nil
}

// Seed stores surveys as-is, assigning ids where missing, and returns the ids.
func (r *SurveyRepository) Seed(surveys ...domain.Survey) []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(surveys))
	for _, survey := range surveys {
		if survey.ID == "" {
			survey.ID = newID()
		}
		r.s.surveys = append(r.s.surveys, cloneSurvey(survey))
		ids = append(ids, survey.ID)
	}
	return ids
}

// indexOf must be called with the lock held.
func (r *SurveyRepository) indexOf(id string) int {
	for i, survey := range r.s.surveys {
		if survey.ID == id {
			return i
		}
	}
	return -1
}

func applySurveyPatch(survey *domain.Survey, patch application.SurveyPatch) {
	if patch.Title != nil {
		survey.Title = *patch.Title
	}
	if patch.Description != nil {
		survey.Description = *patch.Description
	}
	if patch.Category != nil {
		survey.Category = *patch.Category
	}
	if patch.Options != nil {
		survey.Options = append([]any{}, patch.Options...)
	}
	if patch.Deadline != nil {
		survey.Deadline = *patch.Deadline
	}
}

func cloneSurvey(survey domain.Survey) domain.Survey {
	if survey.Options != nil {
		survey.Options = append([]any{}, survey.Options...)
	}
	return survey
}

func surveysEqual(a, b domain.Survey) bool {
	if a.Title != b.Title || a.Description != b.Description || a.Category != b.Category || a.Deadline != b.Deadline {
		return false
	}
	return reflect.DeepEqual(a.Options, b.Options)
}
