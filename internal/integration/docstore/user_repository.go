package docstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/document"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a user repository backed by Redis.
func NewUserRepository(store *Store) adapter.UserRepository {
	return &userRepository{store: store}
}

// Create stores the user and claims its email in the index within one transaction.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	data, err := encode(document.FromUser(user))
	if err != nil {
		return err
	}
	emails, users := r.store.emailIndexKey(), r.store.usersKey()

	return r.store.watch(ctx, func(tx *redis.Tx) error {
		taken, err := tx.HExists(ctx, emails, user.Email).Result()
		if err != nil {
			return err
		}
		if taken {
			return domainerror.ErrEmailAlreadyExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, emails, user.Email, user.ID.String())
			pipe.HSet(ctx, users, user.ID.String(), data)
			return nil
		})
		return err
	}, emails)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	doc, found, err := getDoc[document.User](ctx, r.store.client, r.store.usersKey(), id.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerror.ErrUserNotFound
	}
	return doc.ToEntity(), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	raw, err := r.store.client.HGet(ctx, r.store.emailIndexKey(), entity.NormalizeEmail(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domainerror.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerror.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// Update rewrites the user, moving the email index entry when the email changes.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	emails, users := r.store.emailIndexKey(), r.store.usersKey()
	id := user.ID.String()

	return r.store.watch(ctx, func(tx *redis.Tx) error {
		current, found, err := getDoc[document.User](ctx, tx, users, id)
		if err != nil {
			return err
		}
		if !found {
			return domainerror.ErrUserNotFound
		}
		if current.Email != user.Email {
			owner, err := tx.HGet(ctx, emails, user.Email).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if err == nil && owner != id {
				return domainerror.ErrEmailAlreadyExists
			}
		}

		doc := document.FromUser(user)
		doc.CreatedAt = current.CreatedAt
		data, err := encode(doc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if current.Email != user.Email {
				pipe.HDel(ctx, emails, current.Email)
				pipe.HSet(ctx, emails, user.Email, id)
			}
			pipe.HSet(ctx, users, id, data)
			return nil
		})
		return err
	}, emails, users)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.store.client.HExists(ctx, r.store.emailIndexKey(), entity.NormalizeEmail(email)).Result()
}
