package users

import (
	"context"

	"petstore-api/internal/query"
)

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)

	// Delete cascadea a las orders del usuario (en el storage).
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, plan query.Plan) ([]User, query.PageInfo, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
}
