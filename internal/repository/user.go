package repository

import (
	"context"

	"promptfeed/internal/cache"
	"promptfeed/internal/models"
	"promptfeed/internal/store"
)

// UserRepository defines read operations for users. Users are only created by seeding.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	// GetByID and GetByUsername return (nil, nil) when no user matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	store *store.Store
}

// NewUserRepository returns a UserRepository reading from s.
func NewUserRepository(s *store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.store.View(ctx, func(doc *models.Store) error {
		users = append([]models.User{}, doc.Users...)
		return nil
	})
	return users, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.Username == username })
}

func (r *userRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	var found *models.User
	err := r.store.View(ctx, func(doc *models.Store) error {
		for i := range doc.Users {
			if match(&doc.Users[i]) {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

type cachedUserRepository struct {
	next UserRepository
}

// NewCachedUserRepository wraps next with Redis cache-aside lookups. Misses are
// not cached, and with Redis disabled every call goes straight to next.
func NewCachedUserRepository(next UserRepository) UserRepository {
	return &cachedUserRepository{next: next}
}

func (r *cachedUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := cache.Aside(ctx, cache.UsersAllKey, &users, cache.UserTTL, func() error {
		var err error
		users, err = r.next.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.lookup(ctx, cache.UserIDKey(id), func() (*models.User, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *cachedUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.lookup(ctx, cache.UserUsernameKey(username), func() (*models.User, error) {
		return r.next.GetByUsername(ctx, username)
	})
}

func (r *cachedUserRepository) lookup(ctx context.Context, key string, load func() (*models.User, error)) (*models.User, error) {
	var user models.User
	if cache.GetJSON(ctx, key, &user) {
		return &user, nil
	}
	found, err := load()
	if err != nil || found == nil {
		return found, err
	}
	cache.SetJSON(ctx, key, found, cache.UserTTL)
	return found, nil
}
