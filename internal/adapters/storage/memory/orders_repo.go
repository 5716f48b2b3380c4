package memory

import (
	"context"
	"strings"

	"petstore-api/internal/domain/store"
	"petstore-api/internal/query"
)

type orderRepo Store

func (r *orderRepo) Create(ctx context.Context, o store.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errIDRequired
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *orderRepo) Update(ctx context.Context, o store.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == o.ID {
			r.orders[i] = o
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (store.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return store.Order{}, store.ErrNotFound
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *orderRepo) List(ctx context.Context, plan query.Plan) ([]store.Order, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, info := query.Run(plan, r.orders, store.Collation())
	return page, info, nil
}
