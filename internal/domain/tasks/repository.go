package tasks

import (
	"context"
	"time"

	"petstore-api/internal/query"
)

// ListFilter agrega predicados que no son de igualdad y por eso
// no viajan en el Plan.
type ListFilter struct {
	// OverdueBefore limita a tasks sin resolver con due_at anterior
	// al instante dado.
	OverdueBefore *time.Time
}

type Repository interface {
	Create(ctx context.Context, t Task) error
	Update(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	Delete(ctx context.Context, id string) error

	// List ejecuta el plan (total antes de recortar, desempate por orden
	// de creación) y devuelve la página más su metadata.
	List(ctx context.Context, plan query.Plan, f ListFilter) ([]Task, query.PageInfo, error)
}
