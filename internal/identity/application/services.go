package application

import (
	"context"

	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/store"
)

// UserRepository is the persistence port for users.
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	// FindByEmail returns apperr.ErrNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert returns apperr.ErrAlreadyExists when the email is taken.
	Insert(ctx context.Context, user *domain.User) (store.InsertResult, error)
	UpdateRoleByID(ctx context.Context, id string, role domain.Role) (store.UpdateResult, error)
	UpdateRoleByEmail(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (store.DeleteResult, error)
}

// UserService describes the identity use-cases shared by both services.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, email string) (*domain.User, error)
	// Register creates the user unless one with the same email exists.
	// created is false for the duplicate case, which is not an error.
	Register(ctx context.Context, cmd RegisterUserCommand) (result store.InsertResult, created bool, err error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	// RoleOf reports the stored role, or ok=false when the user is unknown.
	RoleOf(ctx context.Context, email string) (role domain.Role, ok bool, err error)
	SetRoleByID(ctx context.Context, id string, role domain.Role) (store.UpdateResult, error)
	SetRoleByEmail(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error)
	Delete(ctx context.Context, id string) (store.DeleteResult, error)
}

// RegisterUserCommand carries the profile fields from sign-in.
type RegisterUserCommand struct {
	Email    string
	Name     string
	PhotoURL string
}
