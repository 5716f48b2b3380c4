package store

import (
	"context"

	"petstore-api/internal/query"
)

type Repository interface {
	Create(ctx context.Context, o Order) error
	Update(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, plan query.Plan) ([]Order, query.PageInfo, error)
}
