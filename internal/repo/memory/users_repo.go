package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/recipehub/internal/domain/user"
)

type UsersRepo struct {
	mu      sync.RWMutex
	items   map[string]user.User // {"id": user}
	byEmail map[string]string    // {"email": id}, plays the unique index
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items:   make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return user.ErrDuplicateEmail
	}

	r.items[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.items[id], nil
}

func (r *UsersRepo) GetMany(_ context.Context, ids []string) (map[string]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *UsersRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[u.ID]
	if !ok {
		return user.ErrNotFound
	}

	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return user.ErrDuplicateEmail
	}

	delete(r.byEmail, old.Email)
	r.byEmail[u.Email] = u.ID
	r.items[u.ID] = u
	return nil
}
