package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/testinfra/memstore"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewUserService(mem.Users)

	result, created, err := svc.Register(ctx, application.RegisterUserCommand{Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, result.InsertedID)

	user, err := svc.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "Alice", user.Name)

	t.Run("duplicate is a no-op", func(t *testing.T) {
		result, created, err := svc.Register(ctx, application.RegisterUserCommand{Email: "a@x.com", Name: "Other"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, result.InsertedID)

		users, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)
	})

	t.Run("email required", func(t *testing.T) {
		_, _, err := svc.Register(ctx, application.RegisterUserCommand{Name: "nobody"})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestRoleQueries(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	mem.Users.Seed(
		domain.User{Email: "admin@x.com", Role: domain.RoleAdmin},
		domain.User{Email: "s@x.com", Role: domain.RoleSurveyor},
	)
	svc := application.NewUserService(mem.Users)

	isAdmin, err := svc.IsAdmin(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.IsAdmin(ctx, "s@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = svc.IsAdmin(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	role, ok, err := svc.RoleOf(ctx, "s@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleSurveyor, role)

	_, ok, err = svc.RoleOf(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := application.NewUserService(mem.Users)

	inserted, _, err := svc.Register(ctx, application.RegisterUserCommand{Email: "u@x.com"})
	require.NoError(t, err)

	result, err := svc.SetRoleByID(ctx, inserted.InsertedID, domain.RoleSurveyor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.MatchedCount)
	assert.EqualValues(t, 1, result.ModifiedCount)

	result, err = svc.SetRoleByEmail(ctx, "u@x.com", domain.RoleSurveyor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.MatchedCount)
	assert.EqualValues(t, 0, result.ModifiedCount)

	deleted, err := svc.Delete(ctx, inserted.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.DeletedCount)

	deleted, err = svc.Delete(ctx, inserted.InsertedID)
	require.NoError(t, err, "deleting twice must not fail")
	assert.EqualValues(t, 0, deleted.DeletedCount)

	_, err = svc.Get(ctx, "u@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
