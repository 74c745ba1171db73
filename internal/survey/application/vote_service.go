package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type voteService struct {
	surveys SurveyRepository
	votes   VoteRepository
	now     clock
}

// NewVoteService wires ballot use-cases to their repositories.
func NewVoteService(surveys SurveyRepository, votes VoteRepository) VoteService {
	return &voteService{surveys: surveys, votes: votes, now: time.Now}
}

// Cast validates the ballot, then records it once per survey and user.
// Ballot shape errors are domain.ErrInvalidBallotFormat or domain.ErrInvalidOption.
func (s *voteService) Cast(ctx context.Context, cmd CastVoteCommand) (CastResult, error) {
	if err := domain.ValidateBallot(cmd.Responses); err != nil {
		return CastResult{}, err
	}
	counter, err := domain.CounterField(cmd.Responses[0].Option)
	if err != nil {
		return CastResult{}, err
	}

	surveyID := strings.TrimSpace(cmd.SurveyID)
	userEmail := strings.TrimSpace(cmd.UserEmail)
	if _, err := s.surveys.FindByID(ctx, surveyID); err != nil {
		return CastResult{}, err
	}

	exists, err := s.votes.Exists(ctx, surveyID, userEmail)
	if err != nil {
		return CastResult{}, err
	}
	if exists {
		return CastResult{AlreadyVoted: true}, nil
	}

	vote := &domain.Vote{
		SurveyID:  surveyID,
		UserEmail: userEmail,
		UserName:  strings.TrimSpace(cmd.UserName),
		Responses: append([]domain.Response(nil), cmd.Responses...),
		CreatedAt: s.now().UTC(),
	}
	inserted, err := s.votes.Cast(ctx, vote, counter)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		return CastResult{AlreadyVoted: true}, nil
	}
	if err != nil {
		return CastResult{}, err
	}
	return CastResult{Inserted: inserted}, nil
}

func (s *voteService) Votes(ctx context.Context, filter VoteFilter) ([]domain.Vote, error) {
	filter.SurveyID = strings.TrimSpace(filter.SurveyID)
	filter.UserEmail = strings.TrimSpace(filter.UserEmail)
	return s.votes.Find(ctx, filter)
}

func (s *voteService) Results(ctx context.Context, surveyID string) ([]domain.QuestionTally, error) {
	return s.votes.TallyByQuestion(ctx, strings.TrimSpace(surveyID))
}

func (s *voteService) Counts(ctx context.Context, surveyID string) ([]domain.OptionTally, error) {
	return s.votes.TallyByOption(ctx, strings.TrimSpace(surveyID))
}
