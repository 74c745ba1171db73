//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	identitydomain "github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
	taskdomain "github.com/sngm3741/survey-services/api/internal/task/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra"
)

func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	container := testinfra.StartMongo(t)

	ctx := context.Background()
	client, err := Connect(ctx, container.URI, 30*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("surveyDB_test")
	require.NoError(t, EnsureUniqueIndexes(ctx, db, []UniqueIndex{
		{Collection: "users", Keys: []string{"email"}},
		{Collection: "votes", Keys: []string{"surveyId", "userEmail"}},
		{Collection: "reports", Keys: []string{"surveyId", "userEmail"}},
	}))
	return db
}

func TestRepositoriesIntegration(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	t.Run("users unique by email", func(t *testing.T) {
		users := NewUserRepository(db, "users")
		inserted, err := users.Insert(ctx, &identitydomain.User{Email: "a@x.com", Role: identitydomain.RoleUser})
		require.NoError(t, err)

		_, err = users.Insert(ctx, &identitydomain.User{Email: "a@x.com"})
		assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

		updated, err := users.UpdateRoleByID(ctx, inserted.InsertedID, identitydomain.RoleAdmin)
		require.NoError(t, err)
		assert.EqualValues(t, 1, updated.ModifiedCount)

		user, err := users.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, identitydomain.RoleAdmin, user.Role)

		deleted, err := users.DeleteByID(ctx, inserted.InsertedID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted.DeletedCount)
		deleted, err = users.DeleteByID(ctx, inserted.InsertedID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, deleted.DeletedCount)

		_, err = users.FindByEmail(ctx, "a@x.com")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("votes and tallies", func(t *testing.T) {
		surveys := NewSurveyRepository(db, "surveys")
		votes := NewVoteRepository(db, "votes", "surveys", false)

		inserted, err := surveys.Insert(ctx, &domain.Survey{Title: "Coffee?", Status: domain.StatusPublish, Timestamp: time.Now()})
		require.NoError(t, err)
		surveyID := inserted.InsertedID

		results, err := votes.TallyByQuestion(ctx, surveyID)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)

		cast := func(email string, option int, field string) error {
			_, err := votes.Cast(ctx, &domain.Vote{
				SurveyID:  surveyID,
				UserEmail: email,
				Responses: []domain.Response{{Question: "Coffee?", Option: option}},
				CreatedAt: time.Now(),
			}, field)
			return err
		}
		require.NoError(t, cast("a@x.com", 0, "yesCount"))
		require.NoError(t, cast("b@x.com", 1, "noCount"))
		assert.ErrorIs(t, cast("a@x.com", 1, "noCount"), apperr.ErrAlreadyExists)

		survey, err := surveys.FindByID(ctx, surveyID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, survey.VoteCount)
		assert.Equal(t, survey.VoteCount, survey.YesCount+survey.NoCount)

		counts, err := votes.TallyByOption(ctx, surveyID)
		require.NoError(t, err)
		assert.Equal(t, []domain.OptionTally{{Option: 0, Count: 1}, {Option: 1, Count: 1}}, counts)

		results, err = votes.TallyByQuestion(ctx, surveyID)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []domain.OptionCount{{Option: 0, VoteCount: 1}, {Option: 1, VoteCount: 1}}, results[0].Options)
	})

	t.Run("survey upsert keyed on requested id", func(t *testing.T) {
		surveys := NewSurveyRepository(db, "surveys")
		const id = "65f0dddddddddddddddddddd"
		title := "Upserted"
		res, err := surveys.UpdateByID(ctx, id, application.SurveyPatch{Title: &title},
			&domain.Survey{Status: domain.StatusPublish, UserEmail: "s@x.com", Timestamp: time.Now()}, true)
		require.NoError(t, err)
		assert.Equal(t, id, res.UpsertedID)

		survey, err := surveys.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Upserted", survey.Title)
		assert.Equal(t, domain.StatusPublish, survey.Status)

		feedback, err := surveys.SetFeedback(ctx, id, "needs work")
		require.NoError(t, err)
		assert.EqualValues(t, 1, feedback.ModifiedCount)

		views, err := surveys.FindFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, domain.StatusUnpublish, views[0].Status)
	})

	t.Run("activities scoped to task", func(t *testing.T) {
		activities := NewActivityRepository(db, "activities")
		_, err := activities.Insert(ctx, &taskdomain.Activity{TaskID: "t1", Name: "a", CreatedAt: time.Now()})
		require.NoError(t, err)
		_, err = activities.Insert(ctx, &taskdomain.Activity{TaskID: "t2", Name: "b", CreatedAt: time.Now()})
		require.NoError(t, err)

		got, err := activities.FindByTask(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Name)
	})

	t.Run("tasks newest first", func(t *testing.T) {
		tasks := NewTaskRepository(db, "tasks")
		now := time.Now()
		_, err := tasks.Insert(ctx, &taskdomain.Task{Title: "older", UserEmail: "a@x.com", Timestamp: now.Add(-time.Minute)})
		require.NoError(t, err)
		_, err = tasks.Insert(ctx, &taskdomain.Task{Title: "newer", UserEmail: "a@x.com", Timestamp: now})
		require.NoError(t, err)

		got, err := tasks.Find(ctx, taskapp.TaskFilter{UserEmail: "a@x.com"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "newer", got[0].Title)
	})
}
