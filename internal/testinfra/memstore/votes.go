package memstore

import (
	"context"
	"sort"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// VoteRepository implements application.VoteRepository, tallying in Go.
type VoteRepository struct {
	s *Store
}

func (r *VoteRepository) Find(_ context.Context, filter application.VoteFilter) ([]domain.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Vote, 0)
	for _, vote := range r.s.votes {
		if filter.SurveyID != "" && vote.SurveyID != filter.SurveyID {
			continue
		}
		if filter.UserEmail != "" && vote.UserEmail != filter.UserEmail {
			continue
		}
		out = append(out, cloneVote(vote))
	}
	return out, nil
}

func (r *VoteRepository) Exists(_ context.Context, surveyID, userEmail string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.exists(surveyID, userEmail), nil
}

func (r *VoteRepository) exists(surveyID, userEmail string) bool {
	for _, vote := range r.s.votes {
		if vote.SurveyID == surveyID && vote.UserEmail == userEmail {
			return true
		}
	}
	return false
}

// Cast inserts the vote and bumps the survey counters under one lock.
func (r *VoteRepository) Cast(_ context.Context, vote *domain.Vote, counterField string) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.exists(vote.SurveyID, vote.UserEmail) {
		return store.InsertResult{}, apperr.ErrAlreadyExists
	}

	stored := cloneVote(*vote)
	stored.ID = newID()
	r.s.votes = append(r.s.votes, stored)

	for i := range r.s.surveys {
		if r.s.surveys[i].ID != vote.SurveyID {
			continue
		}
		r.s.surveys[i].VoteCount++
		switch counterField {
		case "yesCount":
			r.s.surveys[i].YesCount++
		case "noCount":
			r.s.surveys[i].NoCount++
		}
	}
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *VoteRepository) TallyByQuestion(_ context.Context, surveyID string) ([]domain.QuestionTally, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]map[int]int64)
	for _, vote := range r.s.votes {
		if vote.SurveyID != surveyID {
			continue
		}
		for _, response := range vote.Responses {
			if counts[response.Question] == nil {
				counts[response.Question] = make(map[int]int64)
			}
			counts[response.Question][response.Option]++
		}
	}

	questions := make([]string, 0, len(counts))
	for question := range counts {
		questions = append(questions, question)
	}
	sort.Strings(questions)

	out := make([]domain.QuestionTally, 0, len(questions))
	for _, question := range questions {
		tally := domain.QuestionTally{Question: question}
		for _, option := range sortedKeys(counts[question]) {
			tally.Options = append(tally.Options, domain.OptionCount{Option: option, VoteCount: counts[question][option]})
		}
		out = append(out, tally)
	}
	return out, nil
}

func (r *VoteRepository) TallyByOption(_ context.Context, surveyID string) ([]domain.OptionTally, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int]int64)
	for _, vote := range r.s.votes {
		if vote.SurveyID != surveyID {
			continue
		}
		for _, response := range vote.Responses {
			counts[response.Option]++
		}
	}

	out := make([]domain.OptionTally, 0, len(counts))
	for _, option := range sortedKeys(counts) {
		out = append(out, domain.OptionTally{Option: option, Count: counts[option]})
	}
	return out, nil
}

func sortedKeys(m map[int]int64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func cloneVote(vote domain.Vote) domain.Vote {
	vote.Responses = append([]domain.Response{}, vote.Responses...)
	return vote
}
