package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

func TestSeedIdentityAssignsRolesAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	users := identityapp.NewUserService(store.Users)

	require.NoError(t, seedIdentity(ctx, users))
	require.NoError(t, seedIdentity(ctx, users))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(seedUsers))

	for _, u := range seedUsers {
		role, ok, err := users.RoleOf(ctx, u.Email)
		require.NoError(t, err)
		require.True(t, ok, u.Email)
		assert.Equal(t, u.Role, role, u.Email)
	}
	admin, err := users.IsAdmin(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestSeedSurveysCastsVotes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	surveys := surveyapp.NewSurveyService(store.Surveys, store.Votes)
	votes := surveyapp.NewVoteService(store.Surveys, store.Votes)

	ids, err := seedSurveys(ctx, surveys, votes)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	first, err := surveys.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.VoteCount)
	assert.EqualValues(t, 1, first.YesCount)
	assert.EqualValues(t, 1, first.NoCount)
	assert.Equal(t, "surveyor@example.com", first.UserEmail)
}

func TestSeedTasksAddsActivities(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	tasks := taskapp.NewTaskService(store.Tasks, store.Activities)

	id, err := seedTasks(ctx, tasks)
	require.NoError(t, err)

	task, err := tasks.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, taskapp.DefaultStatus, task.Status)

	activities, err := tasks.Activities(ctx, id)
	require.NoError(t, err)
	assert.Len(t, activities, 2)
}

func TestRunRejectsUnknownApp(t *testing.T) {
	err := run(seedOptions{app: "inventory"})
	assert.Error(t, err)
}
