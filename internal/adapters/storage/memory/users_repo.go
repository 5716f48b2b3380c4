package memory

import (
	"context"
	"strings"

	"petstore-api/internal/domain/store"
	"petstore-api/internal/domain/users"
	"petstore-api/internal/query"
)

type userRepo Store

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errIDRequired
	}
	r.users = append(r.users, u)
	return nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = u
			return nil
		}
	}
	return users.ErrNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.users {
		if r.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return users.ErrNotFound
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)

	// cascada: las órdenes del usuario se van con él
	(*Store)(r).deleteOrdersByLocked(func(o store.Order) bool {
		return o.UserID != nil && *o.UserID == id
	})
	return nil
}

func (r *userRepo) List(ctx context.Context, plan query.Plan) ([]users.User, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, info := query.Run(plan, r.users, users.Collation())
	return page, info, nil
}

func (r *userRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
