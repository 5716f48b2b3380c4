package pets

import (
	"context"

	"petstore-api/internal/query"
)

type CategoryRepository interface {
	Create(ctx context.Context, c Category) error
	Update(ctx context.Context, c Category) error
	GetByID(ctx context.Context, id string) (Category, error)

	// Delete desasocia (no borra) las mascotas que la referencian;
	// esa cascada vive en el storage.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, plan query.Plan) ([]Category, query.PageInfo, error)
	Exists(ctx context.Context, id string) (bool, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
}

type TagRepository interface {
	Create(ctx context.Context, t Tag) error
	Update(ctx context.Context, t Tag) error
	GetByID(ctx context.Context, id string) (Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]Tag, error)

	// Delete quita el tag del set de cada mascota (cascada en el storage).
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, plan query.Plan) ([]Tag, query.PageInfo, error)

	// Missing devuelve el subconjunto de ids que NO existen.
	Missing(ctx context.Context, ids []string) ([]string, error)

	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
}

type PetRepository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// Delete cascadea a las orders del pet (en el storage).
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, plan query.Plan) ([]Pet, query.PageInfo, error)

	// FindByStatus / FindByTags no paginan (superficie estilo petstore).
	FindByStatus(ctx context.Context, statuses []string) ([]Pet, error)
	FindByTags(ctx context.Context, tagNames []string) ([]Pet, error)

	Exists(ctx context.Context, id string) (bool, error)

	// CountByStatus recorre la población completa, sin paginar.
	CountByStatus(ctx context.Context) (map[string]int, error)
}
