package memory

import (
	"context"
	"slices"
	"strings"

	"petstore-api/internal/domain/pets"
	"petstore-api/internal/domain/store"
	"petstore-api/internal/query"
)

type categoryRepo Store

func (r *categoryRepo) Create(ctx context.Context, c pets.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errIDRequired
	}
	r.categories = append(r.categories, c)
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c pets.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].ID == c.ID {
			r.categories[i] = c
			return nil
		}
	}
	return pets.ErrCategoryNotFound
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (pets.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return pets.Category{}, pets.ErrCategoryNotFound
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.categories {
		if r.categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pets.ErrCategoryNotFound
	}
	r.categories = append(r.categories[:idx], r.categories[idx+1:]...)

	// SET NULL: las mascotas pierden la referencia, no se borran
	for i := range r.pets {
		if r.pets[i].CategoryID != nil && *r.pets[i].CategoryID == id {
			r.pets[i].CategoryID = nil
		}
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context, plan query.Plan) ([]pets.Category, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, info := query.Run(plan, r.categories, pets.CategoryCollation())
	return page, info, nil
}

func (r *categoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type tagRepo Store

func (r *tagRepo) Create(ctx context.Context, t pets.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errIDRequired
	}
	r.tags = append(r.tags, t)
	return nil
}

func (r *tagRepo) Update(ctx context.Context, t pets.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tags {
		if r.tags[i].ID == t.ID {
			r.tags[i] = t
			return nil
		}
	}
	return pets.ErrTagNotFound
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (pets.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return pets.Tag{}, pets.ErrTagNotFound
}

func (r *tagRepo) GetByIDs(ctx context.Context, ids []string) ([]pets.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Tag, 0, len(ids))
	for _, id := range ids {
		for _, t := range r.tags {
			if t.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (r *tagRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.tags {
		if r.tags[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pets.ErrTagNotFound
	}
	r.tags = append(r.tags[:idx], r.tags[idx+1:]...)

	// se quita el tag del set de cada mascota
	for i := range r.pets {
		r.pets[i].TagIDs = slices.DeleteFunc(r.pets[i].TagIDs, func(tid string) bool {
			return tid == id
		})
	}
	return nil
}

func (r *tagRepo) List(ctx context.Context, plan query.Plan) ([]pets.Tag, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, info := query.Run(plan, r.tags, pets.TagCollation())
	return page, info, nil
}

func (r *tagRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	missing := make([]string, 0)
	for _, id := range ids {
		found := false
		for _, t := range r.tags {
			if t.ID == id {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *tagRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tags {
		if t.Name == name && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type petRepo Store

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errIDRequired
	}
	r.pets = append(r.pets, p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.pets {
		if r.pets[i].ID == p.ID {
			r.pets[i] = p
			return nil
		}
	}
	return pets.ErrPetNotFound
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return pets.Pet{}, pets.ErrPetNotFound
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.pets {
		if r.pets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pets.ErrPetNotFound
	}
	r.pets = append(r.pets[:idx], r.pets[idx+1:]...)

	// cascada: las órdenes del pet se van con él
	(*Store)(r).deleteOrdersByLocked(func(o store.Order) bool {
		return o.PetID == id
	})
	return nil
}

func (r *petRepo) List(ctx context.Context, plan query.Plan) ([]pets.Pet, query.PageInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := (*Store)(r)
	page, info := query.Run(plan, r.pets, pets.PetCollation(s.tagNamesLocked))
	return page, info, nil
}

func (r *petRepo) FindByStatus(ctx context.Context, statuses []string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.pets {
		if slices.Contains(statuses, string(p.Status)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *petRepo) FindByTags(ctx context.Context, tagNames []string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := (*Store)(r)
	out := make([]pets.Pet, 0)
	for _, p := range r.pets {
		names := s.tagNamesLocked(p)
		for _, want := range tagNames {
			if slices.Contains(names, want) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *petRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pets {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *petRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range r.pets {
		counts[string(p.Status)]++
	}
	return counts, nil
}
