package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/store"
)

type userService struct {
	repo UserRepository
	now  func() time.Time
}

// NewUserService wires the identity use-cases to a repository.
func NewUserService(repo UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *userService) Get(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.ErrNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) Register(ctx context.Context, cmd RegisterUserCommand) (store.InsertResult, bool, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return store.InsertResult{}, false, fmt.Errorf("%w: email is required", apperr.ErrInvalidInput)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return store.InsertResult{}, false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return store.InsertResult{}, false, err
	}

	user := &domain.User{
		Email:     email,
		Name:      strings.TrimSpace(cmd.Name),
		PhotoURL:  strings.TrimSpace(cmd.PhotoURL),
		Role:      domain.RoleUser,
		CreatedAt: s.now().UTC(),
	}
	result, err := s.repo.Insert(ctx, user)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		// lost the race against a concurrent sign-in
		return store.InsertResult{}, false, nil
	}
	if err != nil {
		return store.InsertResult{}, false, err
	}
	return result, true, nil
}

func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return domain.HasRole(user, domain.RoleAdmin), nil
}

func (s *userService) RoleOf(ctx context.Context, email string) (domain.Role, bool, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if user.Role == "" {
		return "", false, nil
	}
	return user.Role, true, nil
}

func (s *userService) SetRoleByID(ctx context.Context, id string, role domain.Role) (store.UpdateResult, error) {
	return s.repo.UpdateRoleByID(ctx, strings.TrimSpace(id), role)
}

func (s *userService) SetRoleByEmail(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	return s.repo.UpdateRoleByEmail(ctx, strings.TrimSpace(email), role)
}

func (s *userService) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.repo.DeleteByID(ctx, strings.TrimSpace(id))
}
