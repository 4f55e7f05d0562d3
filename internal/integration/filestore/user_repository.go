package filestore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a user repository backed by the store.
func NewUserRepository(store *Store) adapter.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	return r.store.mutate(func() error {
		for _, u := range r.store.users {
			if u.Email == user.Email {
				return domainerror.ErrEmailAlreadyExists
			}
		}
		r.store.users = append(r.store.users, document.FromUser(user))
		return nil
	}, users)
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == id {
			return u.ToEntity(), nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return u.ToEntity(), nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	return r.store.mutate(func() error {
		idx := -1
		for i, u := range r.store.users {
			if u.ID == user.ID {
				idx = i
			} else if u.Email == user.Email {
				return domainerror.ErrEmailAlreadyExists
			}
		}
		if idx < 0 {
			return domainerror.ErrUserNotFound
		}
		doc := document.FromUser(user)
		doc.CreatedAt = r.store.users[idx].CreatedAt
		r.store.users[idx] = doc
		return nil
	}, users)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}
