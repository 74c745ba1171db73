package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

func strPtr(s string) *string { return &s }

func TestCreateForcesServerFields(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewSurveyService(mem.Surveys, mem.Votes)

	result, err := svc.Create(ctx, application.CreateSurveyCommand{
		Title:     "Tea?",
		Options:   []any{"yes", " ", nil, "no", 2.0},
		Principal: "s@x.com",
	})
	require.NoError(t, err)

	survey, err := svc.Get(ctx, result.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublish, survey.Status)
	assert.Zero(t, survey.VoteCount)
	assert.Zero(t, survey.YesCount)
	assert.Zero(t, survey.NoCount)
	assert.Equal(t, "s@x.com", survey.UserEmail)
	assert.Equal(t, []any{"yes", "no", 2.0}, survey.Options)
	assert.False(t, survey.Timestamp.IsZero())

	_, err = svc.Create(ctx, application.CreateSurveyCommand{Principal: "s@x.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	mem.Surveys.Seed(
		domain.Survey{Title: "a", Category: "food", VoteCount: 1},
		domain.Survey{Title: "b", Category: "tech", VoteCount: 9},
		domain.Survey{Title: "c", Category: "food", VoteCount: 5},
	)
	svc := application.NewSurveyService(mem.Surveys, mem.Votes)

	food, err := svc.List(ctx, application.SurveyFilter{Category: "food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	sorted, err := svc.List(ctx, application.SurveyFilter{SortByVotes: true})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{sorted[0].Title, sorted[1].Title, sorted[2].Title})
}

func TestUpdateUpsertsUnderRequestedID(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewSurveyService(mem.Surveys, mem.Votes)

	const id = "65f0aaaaaaaaaaaaaaaaaaaa"
	result, err := svc.Update(ctx, id, application.UpdateSurveyCommand{
		Patch:     application.SurveyPatch{Title: strPtr("Fresh")},
		Principal: "s@x.com",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.UpsertedCount)
	assert.Equal(t, id, result.UpsertedID)

	survey, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", survey.Title)
	assert.Equal(t, domain.StatusPublish, survey.Status)
	assert.Equal(t, "s@x.com", survey.UserEmail)

	result, err = svc.Update(ctx, id, application.UpdateSurveyCommand{
		Patch: application.SurveyPatch{Title: strPtr("Renamed")},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.MatchedCount)
	assert.EqualValues(t, 1, result.ModifiedCount)

	survey, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "s@x.com", survey.UserEmail, "owner is only set on insert")
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	ids := mem.Surveys.Seed(domain.Survey{Title: "x", Status: domain.StatusPublish})
	svc := application.NewSurveyService(mem.Surveys, mem.Votes)

	survey, modified, err := svc.SubmitFeedback(ctx, ids[0], "off topic")
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, domain.StatusUnpublish, survey.Status)
	assert.Equal(t, "off topic", survey.Feedback)

	_, modified, err = svc.SubmitFeedback(ctx, ids[0], "off topic")
	require.NoError(t, err)
	assert.False(t, modified)

	_, _, err = svc.SubmitFeedback(ctx, "65f000000000000000000000", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	views, err := svc.Feedbacks(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "off topic", views[0].Feedback)
}

func TestParticipated(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	ids := mem.Surveys.Seed(domain.Survey{Title: "one"}, domain.Survey{Title: "two"})
	surveys := application.NewSurveyService(mem.Surveys, mem.Votes)
	votes := application.NewVoteService(mem.Surveys, mem.Votes)

	_, err := surveys.Participated(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = votes.Cast(ctx, ballot(ids[1], "a@x.com", domain.OptionYes))
	require.NoError(t, err)

	got, err := surveys.Participated(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Title)
}
