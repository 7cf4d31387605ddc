package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/models"
)

// UserRepository persists accounts and sessions, each collection as one blob.
type UserRepository struct {
	users    *collection[models.User]
	sessions *collection[models.Session]
}

// NewUserRepository constructs the repository.
func NewUserRepository(store BlobStore, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		users:    newCollection[models.User](store, logger, KeyUsers),
		sessions: newCollection[models.Session](store, logger, KeySessions),
	}
}

// FindByUsername returns the account with the exact username, if any.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	users, err := r.users.all(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], true, nil
		}
	}
	return nil, false, nil
}

// FindByID returns the account with the id, if any.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, bool, error) {
	users, err := r.users.all(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], true, nil
		}
	}
	return nil, false, nil
}

// UpdateUsers runs a read-modify-write cycle over the account collection.
func (r *UserRepository) UpdateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return r.users.update(ctx, fn)
}

// FindSession returns the session with the id, if any.
func (r *UserRepository) FindSession(ctx context.Context, id string) (*models.Session, bool, error) {
	sessions, err := r.sessions.all(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], true, nil
		}
	}
	return nil, false, nil
}

// UpdateSessions runs a read-modify-write cycle over the session collection.
func (r *UserRepository) UpdateSessions(ctx context.Context, fn func([]models.Session) ([]models.Session, error)) error {
	return r.sessions.update(ctx, fn)
}
