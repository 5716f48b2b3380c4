package pets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petstore-api/internal/query"
	"petstore-api/internal/validate"
)

type Service struct {
	cats        CategoryRepository
	tags        TagRepository
	pets        PetRepository
	maxPageSize int
	now         func() time.Time

	// onChange se dispara tras cada mutación de pets (lo usa el cache
	// de inventario para invalidarse). Puede ser nil.
	onChange func(ctx context.Context)
}

func NewService(cats CategoryRepository, tags TagRepository, pets PetRepository, maxPageSize int) *Service {
	return &Service{
		cats:        cats,
		tags:        tags,
		pets:        pets,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

func (s *Service) SetOnChange(f func(ctx context.Context)) { s.onChange = f }

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// --- Categories ---

func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name, err := s.validateName(ctx, name, "", s.cats.NameTaken)
	if err != nil {
		return Category{}, err
	}

	c := Category{ID: uuid.NewString(), Name: name}
	if err := s.cats.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id, name string) (Category, error) {
	c, err := s.cats.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Category{}, err
	}

	name, err = s.validateName(ctx, name, c.ID, s.cats.NameTaken)
	if err != nil {
		return Category{}, err
	}

	c.Name = name
	if err := s.cats.Update(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	return s.cats.GetByID(ctx, strings.TrimSpace(id))
}

// DeleteCategory desasocia las mascotas que la referencian; no las borra.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.cats.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) ListCategories(ctx context.Context, in query.Params) ([]Category, query.PageInfo, error) {
	plan, err := query.Compile(NameSchema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.cats.List(ctx, plan)
}

// --- Tags ---

func (s *Service) CreateTag(ctx context.Context, name string) (Tag, error) {
	name, err := s.validateName(ctx, name, "", s.tags.NameTaken)
	if err != nil {
		return Tag{}, err
	}

	t := Tag{ID: uuid.NewString(), Name: name}
	if err := s.tags.Create(ctx, t); err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (s *Service) UpdateTag(ctx context.Context, id, name string) (Tag, error) {
	t, err := s.tags.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Tag{}, err
	}

	name, err = s.validateName(ctx, name, t.ID, s.tags.NameTaken)
	if err != nil {
		return Tag{}, err
	}

	t.Name = name
	if err := s.tags.Update(ctx, t); err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (s *Service) GetTag(ctx context.Context, id string) (Tag, error) {
	return s.tags.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) DeleteTag(ctx context.Context, id string) error {
	return s.tags.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) ListTags(ctx context.Context, in query.Params) ([]Tag, query.PageInfo, error) {
	plan, err := query.Compile(NameSchema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.tags.List(ctx, plan)
}

func (s *Service) validateName(ctx context.Context, name, excludeID string, taken func(context.Context, string, string) (bool, error)) (string, error) {
	var verr validate.Errors
	name = validate.Required(&verr, "name", name)
	if verr.Has() {
		return "", verr
	}

	dup, err := taken(ctx, name, excludeID)
	if err != nil {
		return "", err
	}
	if dup {
		verr.Add("name", "already exists")
		return "", verr
	}
	return name, nil
}

// --- Pets ---

type CreatePetInput struct {
	Name       string
	CategoryID *string
	PhotoURLs  []string
	TagIDs     []string
	Status     string
}

// OptionalRef distingue "no enviado" de "enviado null" para category_id.
type OptionalRef struct {
	Set   bool
	Value *string
}

type UpdatePetInput struct {
	Name       *string
	CategoryID OptionalRef
	PhotoURLs  *[]string
	TagIDs     *[]string
	Status     *string
}

func (s *Service) CreatePet(ctx context.Context, in CreatePetInput) (Pet, error) {
	var verr validate.Errors

	name := validate.Required(&verr, "name", in.Name)

	if len(in.PhotoURLs) == 0 {
		verr.Add("photo_urls", "at least one photo url is required")
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = string(StatusAvailable)
	}
	validate.OneOf(&verr, "status", status, Statuses())

	// Referencias: se chequean antes de escribir; un delete concurrente
	// entre chequeo y write queda cubierto por el store (best effort).
	if err := s.checkRefs(ctx, &verr, in.CategoryID, in.TagIDs); err != nil {
		return Pet{}, err
	}

	if verr.Has() {
		return Pet{}, verr
	}

	now := s.now()
	p := Pet{
		ID:         uuid.NewString(),
		Name:       name,
		CategoryID: in.CategoryID,
		PhotoURLs:  in.PhotoURLs,
		TagIDs:     dedup(in.TagIDs),
		Status:     Status(status),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.pets.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	s.changed(ctx)
	return p, nil
}

func (s *Service) UpdatePet(ctx context.Context, id string, in UpdatePetInput) (Pet, error) {
	p, err := s.pets.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}

	var verr validate.Errors

	if in.Name != nil {
		p.Name = validate.Required(&verr, "name", *in.Name)
	}
	if in.Status != nil {
		st := strings.TrimSpace(*in.Status)
		validate.OneOf(&verr, "status", st, Statuses())
		p.Status = Status(st)
	}
	if in.PhotoURLs != nil {
		p.PhotoURLs = *in.PhotoURLs
	}

	var catRef *string
	if in.CategoryID.Set {
		catRef = in.CategoryID.Value
	}
	var tagIDs []string
	if in.TagIDs != nil {
		tagIDs = *in.TagIDs
	}
	if err := s.checkRefs(ctx, &verr, catRef, tagIDs); err != nil {
		return Pet{}, err
	}

	if verr.Has() {
		return Pet{}, verr
	}

	if in.CategoryID.Set {
		p.CategoryID = in.CategoryID.Value
	}
	if in.TagIDs != nil {
		p.TagIDs = dedup(*in.TagIDs)
	}

	p.UpdatedAt = s.now()
	if err := s.pets.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	s.changed(ctx)
	return p, nil
}

// checkRefs confirma que category y tags existan; los ids ausentes se
// reportan como errores de campo. Una falla del store corta el write.
func (s *Service) checkRefs(ctx context.Context, verr *validate.Errors, categoryID *string, tagIDs []string) error {
	if categoryID != nil {
		ok, err := s.cats.Exists(ctx, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add("category_id", "category with id %s does not exist", *categoryID)
		}
	}
	if len(tagIDs) > 0 {
		missing, err := s.tags.Missing(ctx, tagIDs)
		if err != nil {
			return err
		}
		for _, id := range missing {
			verr.Add("tag_ids", "tag with id %s does not exist", id)
		}
	}
	return nil
}

func (s *Service) GetPet(ctx context.Context, id string) (Pet, error) {
	return s.pets.GetByID(ctx, strings.TrimSpace(id))
}

// DeletePet cascadea a las orders del pet (lo resuelve el storage).
func (s *Service) DeletePet(ctx context.Context, id string) error {
	if err := s.pets.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) PetExists(ctx context.Context, id string) (bool, error) {
	return s.pets.Exists(ctx, strings.TrimSpace(id))
}

func (s *Service) ListPets(ctx context.Context, in query.Params) ([]Pet, query.PageInfo, error) {
	plan, err := query.Compile(PetSchema(s.maxPageSize), in)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return s.pets.List(ctx, plan)
}

// FindByStatus valida cada status contra el enum: valores inválidos son
// error de validación, no lista vacía.
func (s *Service) FindByStatus(ctx context.Context, raw string) ([]Pet, error) {
	var verr validate.Errors

	statuses := splitCSV(raw)
	if len(statuses) == 0 {
		verr.Add("status", "status parameter is required")
		return nil, verr
	}
	for _, st := range statuses {
		validate.OneOf(&verr, "status", st, Statuses())
	}
	if verr.Has() {
		return nil, verr
	}

	return s.pets.FindByStatus(ctx, statuses)
}

func (s *Service) FindByTags(ctx context.Context, raw string) ([]Pet, error) {
	names := splitCSV(raw)
	if len(names) == 0 {
		var verr validate.Errors
		verr.Add("tags", "tags parameter is required")
		return nil, verr
	}
	return s.pets.FindByTags(ctx, names)
}

// CountByStatus siempre reporta los tres statuses, con cero por defecto.
func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts, err := s.pets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, 3)
	for _, st := range Statuses() {
		out[st] = counts[st]
	}
	return out, nil
}

// --- Proyección ---

// View arma la proyección de detalle: category y tags anidados por valor.
func (s *Service) View(ctx context.Context, p Pet) (PetView, error) {
	v := PetView{
		ID:        p.ID,
		Name:      p.Name,
		PhotoURLs: p.PhotoURLs,
		Status:    p.Status,
		Tags:      []TagView{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if v.PhotoURLs == nil {
		v.PhotoURLs = []string{}
	}

	if p.CategoryID != nil {
		c, err := s.cats.GetByID(ctx, *p.CategoryID)
		if err == nil {
			cv := ToCategoryView(c)
			v.Category = &cv
		}
	}

	if len(p.TagIDs) > 0 {
		tags, err := s.tags.GetByIDs(ctx, p.TagIDs)
		if err != nil {
			return PetView{}, err
		}
		for _, t := range tags {
			v.Tags = append(v.Tags, ToTagView(t))
		}
	}

	return v, nil
}

func (s *Service) Views(ctx context.Context, items []Pet) ([]PetView, error) {
	out := make([]PetView, 0, len(items))
	for _, p := range items {
		v, err := s.View(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
