package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

type Service struct {
	repo        Repository
	maxPageSize int
	now         func() time.Time
}

func NewService(repo Repository, maxPageSize int) *Service {
	return &Service{
		repo:        repo,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	DueAt       *time.Time
}

// OptionalTime distingue "no enviado" de "enviado null" en un PATCH.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UpdateInput con punteros para update parcial: nil = no tocar.
type UpdateInput struct {
	Title       *string
	Description *string
	DueAt       OptionalTime
	IsResolved  *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Task, error) {
	var verr validate.Errors

	title := validate.Required(&verr, "title", in.Title)

	// Solo en creación: el vencimiento no puede estar en el pasado.
	// En updates se permite cualquier fecha (contrato documentado: marcar
	// items viejos ya vencidos no debe rechazarse).
	if in.DueAt != nil && in.DueAt.Before(s.now()) {
		verr.Add("due_at", "cannot be in the past")
	}

	if verr.Has() {
		return Task{}, verr
	}

	now := s.now()
	t := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		DueAt:       in.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Task, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Task, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Task{}, err
	}

	var verr validate.Errors

	if in.Title != nil {
		t.Title = validate.Required(&verr, "title", *in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.DueAt.Set {
		t.DueAt = in.DueAt.Value
	}
	if in.IsResolved != nil {
		t.IsResolved = *in.IsResolved
	}

	if verr.Has() {
		return Task{}, verr
	}

	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// ToggleResolved invierte is_resolved sin condiciones: aplicado dos veces
// vuelve al estado original.
func (s *Service) ToggleResolved(ctx context.Context, id string) (Task, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Task{}, err
	}

	t.IsResolved = !t.IsResolved
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// MarkResolved fija is_resolved al valor pedido (idempotente).
func (s *Service) MarkResolved(ctx context.Context, id string, resolved bool) (Task, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Task{}, err
	}

	t.IsResolved = resolved
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, in query.Params) ([]Task, query.PageInfo, error) {
	return s.list(ctx, in, ListFilter{})
}

// ListResolved / ListUnresolved fuerzan el filtro de resolución por encima
// de lo que pida el caller.
func (s *Service) ListResolved(ctx context.Context, in query.Params) ([]Task, query.PageInfo, error) {
	return s.listWithResolution(ctx, in, true)
}

func (s *Service) ListUnresolved(ctx context.Context, in query.Params) ([]Task, query.PageInfo, error) {
	return s.listWithResolution(ctx, in, false)
}

// ListOverdue lista tasks sin resolver vencidas al momento de la consulta.
func (s *Service) ListOverdue(ctx context.Context, in query.Params) ([]Task, query.PageInfo, error) {
	now := s.now()
	return s.list(ctx, in, ListFilter{OverdueBefore: &now})
}

// Search lista por término de búsqueda ignorando el search que venga en in.
func (s *Service) Search(ctx context.Context, term string, in query.Params) ([]Task, query.PageInfo, error) {
	in.Search = term
	return s.list(ctx, in, ListFilter{})
}

func (s *Service) listWithResolution(ctx context.Context, in query.Params, resolved bool) ([]Task, query.PageInfo, error) {
	filters := map[string]string{}
	for k, v := range in.Filters {
		filters[k] = v
	}
	if resolved {
		filters["is_resolved"] = "true"
	} else {
		filters["is_resolved"] = "false"
	}
	in.Filters = filters
	return s.list(ctx, in, ListFilter{})
}

func (s *Service) list(ctx context.Context, in query.Params, f ListFilter) ([]Task, query.PageInfo, error) {
	plan, err := query.Compile(Schema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.repo.List(ctx, plan, f)
}
