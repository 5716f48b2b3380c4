package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"petstore-api/internal/domain/pets"
	"petstore-api/internal/ports/cache"
	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

const inventoryCacheKey = "store:inventory"

type Service struct {
	repo        Repository
	pets        *pets.Service
	maxPageSize int
	now         func() time.Time

	// cache opcional para el agregado de inventario (best effort).
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, petsSvc *pets.Service, maxPageSize int) *Service {
	return &Service{
		repo:        repo,
		pets:        petsSvc,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

// WithCache habilita el cache de inventario. Las mutaciones de pets
// deben invalidarlo vía InvalidateInventory (se engancha en el router).
func (s *Service) WithCache(c cache.Cache, ttl time.Duration) *Service {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

type CreateInput struct {
	PetID    string
	Quantity *int
	ShipAt   *time.Time
	Status   string
	Complete bool

	// UserID viene de los claims del request, no del body.
	UserID *string
}

// OptionalTime distingue "no enviado" de "enviado null".
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

type UpdateInput struct {
	Quantity *int
	ShipAt   OptionalTime
	Status   *string
	Complete *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	var verr validate.Errors

	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		verr.Add("pet_id", "field is required")
	} else {
		ok, err := s.pets.PetExists(ctx, petID)
		if err != nil {
			return Order{}, err
		}
		if !ok {
			verr.Add("pet_id", "pet with id %s does not exist", petID)
		}
	}

	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
		if quantity < 1 {
			verr.Add("quantity", "must be at least 1")
		}
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = string(StatusPlaced)
	}
	validate.OneOf(&verr, "status", status, Statuses())

	if verr.Has() {
		return Order{}, verr
	}

	now := s.now()
	o := Order{
		ID:        uuid.NewString(),
		PetID:     petID,
		UserID:    in.UserID,
		Quantity:  quantity,
		ShipAt:    in.ShipAt,
		Status:    Status(status),
		Complete:  in.Complete,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Order, error) {
	o, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Order{}, err
	}

	var verr validate.Errors

	if in.Quantity != nil {
		if *in.Quantity < 1 {
			verr.Add("quantity", "must be at least 1")
		} else {
			o.Quantity = *in.Quantity
		}
	}
	if in.Status != nil {
		// cualquier transición de status está permitida, a propósito
		st := strings.TrimSpace(*in.Status)
		validate.OneOf(&verr, "status", st, Statuses())
		o.Status = Status(st)
	}
	if in.ShipAt.Set {
		o.ShipAt = in.ShipAt.Value
	}
	if in.Complete != nil {
		o.Complete = *in.Complete
	}

	if verr.Has() {
		return Order{}, verr
	}

	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Order, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// Delete aplica la guarda de completitud: una orden con complete=true
// no se borra, se rechaza con ErrOrderComplete.
func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if o.Complete {
		return ErrOrderComplete
	}
	return s.repo.Delete(ctx, o.ID)
}

func (s *Service) List(ctx context.Context, in query.Params) ([]Order, query.PageInfo, error) {
	plan, err := query.Compile(Schema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.repo.List(ctx, plan)
}

// Inventory agrega la población completa de pets por status; los tres
// statuses siempre están presentes, con cero por defecto.
func (s *Service) Inventory(ctx context.Context) (Inventory, error) {
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, inventoryCacheKey); ok {
			var inv Inventory
			if err := json.Unmarshal(b, &inv); err == nil {
				return inv, nil
			}
		}
	}

	counts, err := s.pets.CountByStatus(ctx)
	if err != nil {
		return Inventory{}, err
	}

	inv := Inventory{
		Available: counts[string(pets.StatusAvailable)],
		Pending:   counts[string(pets.StatusPending)],
		Sold:      counts[string(pets.StatusSold)],
	}

	if s.cache != nil {
		if b, err := json.Marshal(inv); err == nil {
			s.cache.Set(ctx, inventoryCacheKey, b, s.cacheTTL)
		}
	}
	return inv, nil
}

// InvalidateInventory se engancha como onChange del servicio de pets.
func (s *Service) InvalidateInventory(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, inventoryCacheKey)
	}
}

// View arma la proyección con el pet anidado por valor.
func (s *Service) View(ctx context.Context, o Order) (OrderView, error) {
	p, err := s.pets.GetPet(ctx, o.PetID)
	if err != nil {
		return OrderView{}, err
	}
	pv, err := s.pets.View(ctx, p)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:        o.ID,
		Pet:       pv,
		User:      o.UserID,
		Quantity:  o.Quantity,
		ShipAt:    o.ShipAt,
		Status:    o.Status,
		Complete:  o.Complete,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}, nil
}

func (s *Service) Views(ctx context.Context, items []Order) ([]OrderView, error) {
	out := make([]OrderView, 0, len(items))
	for _, o := range items {
		v, err := s.View(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
