package application_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

func newVoteFixture(t *testing.T) (*memstore.Store, application.VoteService, string) {
	t.Helper()
	mem := memstore.New()
	ids := mem.Surveys.Seed(domain.Survey{Title: "Coffee?", Status: domain.StatusPublish})
	return mem, application.NewVoteService(mem.Surveys, mem.Votes), ids[0]
}

func ballot(surveyID, email string, option int) application.CastVoteCommand {
	return application.CastVoteCommand{
		SurveyID:  surveyID,
		UserEmail: email,
		Responses: []domain.Response{{Question: "Coffee?", Option: option}},
	}
}

func TestCastUpdatesCounters(t *testing.T) {
	ctx := context.Background()
	mem, svc, surveyID := newVoteFixture(t)

	res, err := svc.Cast(ctx, ballot(surveyID, "a@x.com", domain.OptionYes))
	require.NoError(t, err)
	assert.False(t, res.AlreadyVoted)
	assert.NotEmpty(t, res.Inserted.InsertedID)

	res, err = svc.Cast(ctx, ballot(surveyID, "b@x.com", domain.OptionNo))
	require.NoError(t, err)
	assert.False(t, res.AlreadyVoted)

	survey, err := mem.Surveys.FindByID(ctx, surveyID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, survey.VoteCount)
	assert.EqualValues(t, 1, survey.YesCount)
	assert.EqualValues(t, 1, survey.NoCount)
	assert.Equal(t, survey.VoteCount, survey.YesCount+survey.NoCount)

	counts, err := svc.Counts(ctx, surveyID)
	require.NoError(t, err)
	assert.Equal(t, []domain.OptionTally{{Option: 0, Count: 1}, {Option: 1, Count: 1}}, counts)

	results, err := svc.Results(ctx, surveyID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Coffee?", results[0].Question)
	assert.Len(t, results[0].Options, 2)
}

func TestCastIsIdempotentPerUser(t *testing.T) {
	ctx := context.Background()
	mem, svc, surveyID := newVoteFixture(t)

	_, err := svc.Cast(ctx, ballot(surveyID, "a@x.com", domain.OptionYes))
	require.NoError(t, err)

	res, err := svc.Cast(ctx, ballot(surveyID, "a@x.com", domain.OptionNo))
	require.NoError(t, err)
	assert.True(t, res.AlreadyVoted)

	survey, err := mem.Surveys.FindByID(ctx, surveyID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, survey.VoteCount)
	assert.EqualValues(t, 1, survey.YesCount)
	assert.EqualValues(t, 0, survey.NoCount)
}

func TestCastConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	mem, svc, surveyID := newVoteFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cast(ctx, ballot(surveyID, "a@x.com", domain.OptionYes))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	survey, err := mem.Surveys.FindByID(ctx, surveyID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, survey.VoteCount)
}

func TestCastRejectsBadBallots(t *testing.T) {
	ctx := context.Background()
	_, svc, surveyID := newVoteFixture(t)

	_, err := svc.Cast(ctx, application.CastVoteCommand{SurveyID: surveyID, UserEmail: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidBallotFormat)

	_, err = svc.Cast(ctx, ballot(surveyID, "a@x.com", 7))
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, err = svc.Cast(ctx, ballot("not-an-id", "a@x.com", 0))
	assert.ErrorIs(t, err, apperr.ErrInvalidID)

	_, err = svc.Cast(ctx, ballot("65f000000000000000000000", "a@x.com", 0))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEmptyTallies(t *testing.T) {
	ctx := context.Background()
	_, svc, surveyID := newVoteFixture(t)

	results, err := svc.Results(ctx, surveyID)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	counts, err := svc.Counts(ctx, surveyID)
	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}
