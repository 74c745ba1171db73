package memstore

import (
	"context"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/store"
)

// UserRepository keeps users unique by email.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.User{}, r.s.users...), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *UserRepository) Insert(_ context.Context, user *domain.User) (store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return store.InsertResult{}, apperr.ErrAlreadyExists
		}
	}
	stored := *user
	stored.ID = newID()
	r.s.users = append(r.s.users, stored)
	return store.InsertResult{InsertedID: stored.ID}, nil
}

func (r *UserRepository) UpdateRoleByID(_ context.Context, id string, role domain.Role) (store.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return store.UpdateResult{}, err
	}
	return r.updateRole(func(u domain.User) bool { return u.ID == id }, role), nil
}

func (r *UserRepository) UpdateRoleByEmail(_ context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	return r.updateRole(func(u domain.User) bool { return u.Email == email }, role), nil
}

func (r *UserRepository) updateRole(match func(domain.User) bool, role domain.Role) store.UpdateResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if !match(r.s.users[i]) {
			continue
		}
		result := store.UpdateResult{MatchedCount: 1}
		if r.s.users[i].Role != role {
			r.s.users[i].Role = role
			result.ModifiedCount = 1
		}
		return result
	}
	return store.UpdateResult{}
}

func (r *UserRepository) DeleteByID(_ context.Context, id string) (store.DeleteResult, error) {
	if err := checkID(id); err != nil {
		return store.DeleteResult{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, u := range r.s.users {
		if u.ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return store.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return store.DeleteResult{}, nil
}

// Seed stores users as-is, assigning ids where missing.
func (r *UserRepository) Seed(users ...domain.User) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range users {
		if u.ID == "" {
			u.ID = newID()
		}
		r.s.users = append(r.s.users, u)
	}
}
