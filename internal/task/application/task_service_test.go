package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/task/application"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

func strPtr(s string) *string { return &s }

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	now := time.Now()
	mem.Tasks.Seed(
		domain.Task{Title: "old", UserEmail: "a@x.com", Status: "done", Timestamp: now.Add(-time.Hour)},
		domain.Task{Title: "other", UserEmail: "b@x.com", Status: "to-do", Timestamp: now},
	)
	svc := application.NewTaskService(mem.Tasks, mem.Activities)

	_, err := svc.Create(ctx, application.CreateTaskCommand{Title: "new", Principal: "a@x.com"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, application.TaskFilter{UserEmail: "a@x.com"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "new", mine[0].Title, "newest first")
	assert.Equal(t, application.DefaultStatus, mine[0].Status)

	done, err := svc.List(ctx, application.TaskFilter{Status: "done"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "old", done[0].Title)

	_, err = svc.Create(ctx, application.CreateTaskCommand{Principal: "a@x.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	ids := mem.Tasks.Seed(domain.Task{Title: "mine", UserEmail: "a@x.com"})
	svc := application.NewTaskService(mem.Tasks, mem.Activities)

	_, err := svc.Update(ctx, ids[0], application.TaskPatch{Title: strPtr("stolen")}, "b@x.com")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Delete(ctx, ids[0], "b@x.com")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	result, err := svc.Update(ctx, ids[0], application.TaskPatch{Status: strPtr("done")}, "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.ModifiedCount)

	deleted, err := svc.Delete(ctx, ids[0], "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.DeletedCount)

	deleted, err = svc.Delete(ctx, ids[0], "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted.DeletedCount)
}

func TestUpdateUpsertsOwnedByPrincipal(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewTaskService(mem.Tasks, mem.Activities)

	const id = "65f0cccccccccccccccccccc"
	result, err := svc.Update(ctx, id, application.TaskPatch{Title: strPtr("fresh")}, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, result.UpsertedID)

	task, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", task.UserEmail)
	assert.Equal(t, "fresh", task.Title)

	_, err = svc.Update(ctx, "bogus", application.TaskPatch{}, "a@x.com")
	assert.ErrorIs(t, err, apperr.ErrInvalidID)
}

func TestActivitiesAreScopedToTask(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewTaskService(mem.Tasks, mem.Activities)

	first, err := svc.AddActivity(ctx, "task-1", "created")
	require.NoError(t, err)
	_, err = svc.AddActivity(ctx, "task-2", "created")
	require.NoError(t, err)

	activities, err := svc.Activities(ctx, "task-1")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "task-1", activities[0].TaskID)

	renamed, err := svc.RenameActivity(ctx, first.InsertedID, "opened")
	require.NoError(t, err)
	assert.EqualValues(t, 1, renamed.ModifiedCount)

	_, err = svc.RenameActivity(ctx, first.InsertedID, "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	deleted, err := svc.DeleteActivity(ctx, first.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.DeletedCount)

	activities, err = svc.Activities(ctx, "task-1")
	require.NoError(t, err)
	assert.Empty(t, activities)
}
